package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sanket/internal/pipeline"
)

var extractPDFPath string

// extractCmd parses an already-downloaded bulletin into the dataset.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract accident records from a bulletin PDF",
	Long: `Extract accident records from a bulletin PDF and write the CSV and
JSON datasets. Defaults to the configured PDF path; pass --pdf to
extract a different file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		p := pipeline.NewPipeline(cfg, logger)

		pdfPath := extractPDFPath
		if pdfPath == "" {
			pdfPath = cfg.Scrape.PDFPath
		}

		records, err := p.Extract(pdfPath)
		if err != nil {
			return err
		}
		if err := p.Persist(records); err != nil {
			return err
		}
		fmt.Printf("Extracted %d records to %s and %s\n", len(records), cfg.Dataset.CSVPath, cfg.Dataset.JSONPath)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractPDFPath, "pdf", "", "bulletin PDF to extract (default: configured pdf_path)")
	rootCmd.AddCommand(extractCmd)
}
