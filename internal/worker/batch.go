package worker

import (
	"context"
	"fmt"
)

// Embedder is the slice of the embedding client that batch jobs need.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedJob embeds one batch of texts. Batch is the batch ordinal so
// results can be reassembled in input order.
type EmbedJob struct {
	Batch    int
	Texts    []string
	Embedder Embedder
}

// Execute runs the embedding call for this batch.
func (j *EmbedJob) Execute(ctx context.Context) Result {
	vectors, err := j.Embedder.EmbedBatch(ctx, j.Texts)
	return &EmbedResult{Batch: j.Batch, Vectors: vectors, Err: err}
}

// EmbedResult is the outcome of one embedding batch.
type EmbedResult struct {
	Batch   int
	Vectors [][]float32
	Err     error
}

// GetError returns the error from the embedding batch.
func (r *EmbedResult) GetError() error {
	return r.Err
}

// EmbedAll embeds texts in batches of batchSize using a pool of
// concurrent workers and returns vectors in input order. Any failed
// batch fails the whole call.
func EmbedAll(ctx context.Context, embedder Embedder, texts []string, batchSize, workers int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = 64
	}

	var jobs []Job
	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		jobs = append(jobs, &EmbedJob{Batch: len(jobs), Texts: texts[i:end], Embedder: embedder})
	}

	pool := NewPool(workers)
	results := pool.Process(ctx, jobs)

	ordered := make([][][]float32, len(jobs))
	for _, res := range results {
		er, ok := res.(*EmbedResult)
		if !ok {
			return nil, fmt.Errorf("unexpected result type %T", res)
		}
		if er.Err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", er.Batch, er.Err)
		}
		ordered[er.Batch] = er.Vectors
	}

	vectors := make([][]float32, 0, len(texts))
	for _, batch := range ordered {
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedded %d of %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
