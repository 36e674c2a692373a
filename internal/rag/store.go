// Package rag builds a vector index over persisted accident records
// and answers questions by retrieving similar rows and forwarding
// them, with a grounded prompt, to an LLM provider.
package rag

import "context"

// Point is one indexed row: an identifier, its embedding, and the row
// metadata used to rebuild context at query time.
type Point struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Match is one retrieval hit.
type Match struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

// VectorStore persists embeddings and supports similarity search.
// Namespaces partition the index; the empty namespace is the default
// partition.
type VectorStore interface {
	// Init prepares the store for vectors of the given dimension. When
	// forceRecreate is set, existing contents are dropped first.
	Init(ctx context.Context, dimension int, forceRecreate bool) error

	Upsert(ctx context.Context, namespace string, points []Point) error

	Search(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)

	// Clear removes all points in the given namespace.
	Clear(ctx context.Context, namespace string) error
}

// Embedder converts text into a numeric vector representation via an
// external embedding model.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
