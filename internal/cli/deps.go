package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/llm"
	"github.com/ppiankov/sanket/internal/model"
	"github.com/ppiankov/sanket/internal/rag"
)

// newEmbedder builds the embedding client, resolving the API key from
// the configured environment variable.
func newEmbedder(cfg *model.Config) (rag.Embedder, error) {
	apiKey := os.Getenv(cfg.Embedding.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", cfg.Embedding.APIKeyEnv)
	}
	return rag.NewOpenAIEmbedder(rag.EmbedderConfig{
		APIKey:    apiKey,
		BaseURL:   cfg.Embedding.BaseURL,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
	})
}

// newStore builds the configured vector store backend.
func newStore(cfg *model.Config) (rag.VectorStore, error) {
	switch cfg.Vector.Store {
	case "", "memory":
		return rag.NewMemoryStore(), nil
	case "qdrant":
		return rag.NewQdrantStore(rag.QdrantConfig{
			URL:        cfg.Vector.URL,
			APIKey:     os.Getenv(cfg.Vector.APIKeyEnv),
			Collection: cfg.Vector.Collection,
			Timeout:    15 * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s (supported: memory, qdrant)", cfg.Vector.Store)
	}
}

// newIndexer builds the index builder, or (nil, nil) when no embedding
// API key is available.
func newIndexer(cfg *model.Config, logger zerolog.Logger) (*rag.Indexer, error) {
	if os.Getenv(cfg.Embedding.APIKeyEnv) == "" {
		return nil, nil
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	return rag.NewIndexer(embedder, store, logger, cfg.Embedding.BatchSize, cfg.Embedding.Workers), nil
}

// newAnswerer builds the question answerer over the given store, or
// (nil, nil) when no embedding API key is available. The LLM provider
// is optional; without one the answerer returns raw retrieval results.
func newAnswerer(cfg *model.Config, store rag.VectorStore, logger zerolog.Logger) (*rag.Answerer, error) {
	if os.Getenv(cfg.Embedding.APIKeyEnv) == "" {
		return nil, nil
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		logger.Warn().Err(err).Msg("LLM provider unavailable, answering with retrieval only")
		provider = nil
	}
	return rag.NewAnswerer(embedder, store, provider, logger, cfg.Vector.TopK), nil
}
