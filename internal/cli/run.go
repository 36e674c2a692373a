package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sanket/internal/pipeline"
)

// runCmd executes the full acquisition pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape, download, extract, persist, and index the latest bulletin",
	Long: `Run the full pipeline: find the newest Sanket bulletin on the DGMS
listing page, download it, extract accident records from its text,
write the CSV and JSON datasets, and rebuild the vector index when an
embedding API key is configured.`,
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

		p := pipeline.NewPipeline(cfg, logger)
		return p.Run(context.Background(), indexer)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
