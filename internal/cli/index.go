package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sanket/internal/rag"
)

var (
	indexCSVPath       string
	indexChunkPerNRows int
	indexForce         bool
	indexNamespace     string
)

// indexCmd builds the vector index from the persisted dataset.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the CSV dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		indexer, err := newIndexer(cfg, logger)
		if err != nil {
			return err
		}
		if indexer == nil {
			return fmt.Errorf("%s environment variable not set", cfg.Embedding.APIKeyEnv)
		}

		csvPath := indexCSVPath
		if csvPath == "" {
			csvPath = cfg.Dataset.CSVPath
		}

		count, err := indexer.Build(context.Background(), rag.BuildOptions{
			CSVPath:       csvPath,
			ChunkPerNRows: indexChunkPerNRows,
			ForceRecreate: indexForce,
			Namespace:     indexNamespace,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d chunks from %s\n", count, csvPath)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexCSVPath, "csv", "", "CSV dataset to index (default: configured csv_path)")
	indexCmd.Flags().IntVar(&indexChunkPerNRows, "chunk-rows", 1, "rows combined per chunk")
	indexCmd.Flags().BoolVar(&indexForce, "force-recreate", false, "drop and recreate the collection first")
	indexCmd.Flags().StringVar(&indexNamespace, "namespace", "", "index namespace")
	rootCmd.AddCommand(indexCmd)
}
