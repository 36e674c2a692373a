package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sanket/internal/rag"
)

var (
	askTopK      int
	askNamespace string
)

// askCmd answers a question against the indexed dataset.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about the accident dataset",
	Long: `Answer a natural-language question using retrieval over the indexed
dataset. With the in-process memory store the index is built from the
CSV first; with qdrant the existing collection is queried.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		ctx := context.Background()

		// The memory store is process-local, so populate it before
		// querying.
		if cfg.Vector.Store == "" || cfg.Vector.Store == "memory" {
			indexer, err := newIndexer(cfg, logger)
			if err != nil {
				return err
			}
			if indexer == nil {
				return fmt.Errorf("%s environment variable not set", cfg.Embedding.APIKeyEnv)
			}
			indexer = indexer.WithStore(store)
			if _, err := indexer.Build(ctx, rag.BuildOptions{
				CSVPath:   cfg.Dataset.CSVPath,
				Namespace: askNamespace,
			}); err != nil {
				return err
			}
		}

		answerer, err := newAnswerer(cfg, store, logger)
		if err != nil {
			return err
		}
		if answerer == nil {
			return fmt.Errorf("%s environment variable not set", cfg.Embedding.APIKeyEnv)
		}

		ans, err := answerer.WithTopK(askTopK).Ask(ctx, askNamespace, question)
		if err != nil {
			return err
		}

		fmt.Println(ans.Answer)
		if !ans.Generated && len(ans.Matches) > 0 {
			fmt.Println()
			for _, m := range ans.Matches {
				fmt.Printf("[%s score=%.3f]\n", m.ID, m.Score)
				if text := m.Metadata["text"]; text != "" {
					fmt.Println(text)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "retrieval depth (default: configured top_k)")
	askCmd.Flags().StringVar(&askNamespace, "namespace", "", "index namespace")
	rootCmd.AddCommand(askCmd)
}
