package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sanket/internal/rag"
	"github.com/ppiankov/sanket/internal/server"
)

var (
	serveHost string
	servePort int
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the accident statistics HTTP API",
	Long: `Serve the HTTP API: classification aggregates over the persisted
dataset plus index building and retrieval-augmented question
answering. RAG endpoints return 503 until an embedding API key is
configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveHost != "" {
			cfg.Server.Host = serveHost
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		logger := newLogger(cfg)

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		var indexer *rag.Indexer
		var answerer *rag.Answerer
		indexer, err = newIndexer(cfg, logger)
		if err != nil {
			return err
		}
		if indexer != nil {
			// Share one store so /build-index feeds /query-rag.
			indexer = indexer.WithStore(store)
			answerer, err = newAnswerer(cfg, store, logger)
			if err != nil {
				return err
			}
		} else {
			logger.Warn().
				Str("env", cfg.Embedding.APIKeyEnv).
				Msg("embedding API key not set, RAG endpoints disabled")
		}

		srv := server.New(cfg, logger, indexer, answerer)
		return srv.Run(context.Background())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (default: configured host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "bind port (default: configured port)")
	rootCmd.AddCommand(serveCmd)
}
