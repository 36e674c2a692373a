package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/dataset"
	"github.com/ppiankov/sanket/internal/model"
	"github.com/ppiankov/sanket/internal/worker"
)

// upsertBatch is how many points go to the store per upsert call.
const upsertBatch = 100

// Chunk is one indexable unit of text derived from CSV rows.
type Chunk struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Indexer builds the vector index from a persisted record file.
type Indexer struct {
	embedder  Embedder
	store     VectorStore
	logger    zerolog.Logger
	batchSize int
	workers   int
}

// NewIndexer creates an indexer over the given embedder and store.
func NewIndexer(embedder Embedder, store VectorStore, logger zerolog.Logger, batchSize, workers int) *Indexer {
	if batchSize <= 0 {
		batchSize = 64
	}
	if workers <= 0 {
		workers = 1
	}
	return &Indexer{
		embedder:  embedder,
		store:     store,
		logger:    logger,
		batchSize: batchSize,
		workers:   workers,
	}
}

// WithStore returns a copy of the indexer writing to store.
func (ix *Indexer) WithStore(store VectorStore) *Indexer {
	clone := *ix
	clone.store = store
	return &clone
}

// BuildOptions controls one index build.
type BuildOptions struct {
	CSVPath       string
	ChunkPerNRows int  // rows combined per chunk; <=1 means one chunk per row
	ForceRecreate bool // drop and recreate the collection first
	Namespace     string
}

// Build reads the CSV, chunks its rows, embeds them, and upserts the
// vectors. It returns the number of chunks indexed.
func (ix *Indexer) Build(ctx context.Context, opts BuildOptions) (int, error) {
	records, err := dataset.ReadCSV(opts.CSVPath)
	if err != nil {
		return 0, fmt.Errorf("load csv: %w", err)
	}

	chunks := ChunksFromRecords(records, filepath.Base(opts.CSVPath), opts.ChunkPerNRows)
	ix.logger.Info().
		Int("rows", len(records)).
		Int("chunks", len(chunks)).
		Str("csv", opts.CSVPath).
		Msg("building index")
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := worker.EmbedAll(ctx, ix.embedder, texts, ix.batchSize, ix.workers)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	if err := ix.store.Init(ctx, ix.embedder.Dimension(), opts.ForceRecreate); err != nil {
		return 0, fmt.Errorf("init store: %w", err)
	}

	points := make([]Point, len(chunks))
	for i, c := range chunks {
		points[i] = Point{ID: c.ID, Vector: vectors[i], Metadata: c.Metadata}
	}
	for i := 0; i < len(points); i += upsertBatch {
		end := i + upsertBatch
		if end > len(points) {
			end = len(points)
		}
		if err := ix.store.Upsert(ctx, opts.Namespace, points[i:end]); err != nil {
			return 0, fmt.Errorf("upsert points %d-%d: %w", i, end-1, err)
		}
		ix.logger.Debug().Int("upserted", end).Int("total", len(points)).Msg("upsert progress")
	}

	return len(chunks), nil
}

// ChunksFromRecords builds chunks from records. With perN <= 1 each
// row becomes one chunk with ID "row_<i>"; otherwise groups of perN
// consecutive rows share a chunk with ID "rows_<first>_<last>".
func ChunksFromRecords(records []model.AccidentRecord, sourceCSV string, perN int) []Chunk {
	if perN <= 1 {
		chunks := make([]Chunk, 0, len(records))
		for i, rec := range records {
			meta := recordMetadata(rec)
			meta["row_index"] = strconv.Itoa(i)
			meta["source_csv"] = sourceCSV
			text := RowToText(rec)
			meta["text"] = text
			chunks = append(chunks, Chunk{
				ID:       fmt.Sprintf("row_%d", i),
				Text:     text,
				Metadata: meta,
			})
		}
		return chunks
	}

	var chunks []Chunk
	for i := 0; i < len(records); i += perN {
		end := i + perN
		if end > len(records) {
			end = len(records)
		}
		texts := make([]string, 0, end-i)
		for _, rec := range records[i:end] {
			texts = append(texts, RowToText(rec))
		}
		text := strings.Join(texts, "\n\n")
		meta := map[string]string{
			"row_indexes": fmt.Sprintf("%d-%d", i, end-1),
			"source_csv":  sourceCSV,
			"text":        text,
		}
		chunks = append(chunks, Chunk{
			ID:       fmt.Sprintf("rows_%d_%d", i, end-1),
			Text:     text,
			Metadata: meta,
		})
	}
	return chunks
}

// RowToText flattens a record into "Column: value" lines, skipping
// empty fields, in header order.
func RowToText(rec model.AccidentRecord) string {
	cols := rec.Columns()
	parts := make([]string, 0, len(cols))
	for i, v := range cols {
		v = strings.TrimSpace(v)
		if v != "" {
			parts = append(parts, model.CSVHeader[i]+": "+v)
		}
	}
	return strings.Join(parts, "\n")
}

func recordMetadata(rec model.AccidentRecord) map[string]string {
	meta := make(map[string]string, len(model.CSVHeader)+3)
	for i, v := range rec.Columns() {
		if v != "" {
			meta[model.CSVHeader[i]] = v
		}
	}
	return meta
}
