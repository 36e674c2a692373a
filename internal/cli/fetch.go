package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sanket/internal/pipeline"
)

var fetchOnlyURL bool

// fetchCmd downloads the latest bulletin without extracting it.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the latest Sanket bulletin PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		p := pipeline.NewPipeline(cfg, logger)

		ctx := context.Background()
		if fetchOnlyURL {
			link, err := p.ScrapeLatest(ctx)
			if err != nil {
				return err
			}
			fmt.Println(link)
			return nil
		}

		path, err := p.Fetch(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchOnlyURL, "url-only", false, "print the bulletin URL without downloading")
	rootCmd.AddCommand(fetchCmd)
}
