// Package pipeline orchestrates the acquisition flow: scrape the DGMS
// listing page, download the latest Sanket bulletin, extract records
// from its text, and persist them as CSV and JSON.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/bulletin"
	"github.com/ppiankov/sanket/internal/cache"
	"github.com/ppiankov/sanket/internal/dataset"
	"github.com/ppiankov/sanket/internal/model"
	"github.com/ppiankov/sanket/internal/rag"
)

// Pipeline runs the scrape-extract-persist flow.
type Pipeline struct {
	cfg     *model.Config
	fetcher *Fetcher
	cache   cache.Cache
	logger  zerolog.Logger
}

// NewPipeline creates a pipeline from application configuration.
func NewPipeline(cfg *model.Config, logger zerolog.Logger) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "sanket-cache")
		}
		c = cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
	}

	return &Pipeline{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.HTTP, c, cfg.Cache.TTL, logger),
		cache:   c,
		logger:  logger,
	}
}

// ScrapeLatest finds the newest bulletin URL on the listing page.
func (p *Pipeline) ScrapeLatest(ctx context.Context) (string, error) {
	page, err := p.fetcher.FetchPage(ctx, p.cfg.Scrape.ListingURL)
	if err != nil {
		return "", fmt.Errorf("fetch listing page: %w", err)
	}
	link, err := LatestBulletin(page, p.cfg.Scrape.ListingURL)
	if err != nil {
		return "", err
	}
	p.logger.Info().Str("url", link).Msg("latest bulletin")
	return link, nil
}

// Fetch scrapes and downloads the latest bulletin to the configured
// path, returning that path.
func (p *Pipeline) Fetch(ctx context.Context) (string, error) {
	link, err := p.ScrapeLatest(ctx)
	if err != nil {
		return "", err
	}
	if err := p.fetcher.Download(ctx, link, p.cfg.Scrape.PDFPath); err != nil {
		return "", fmt.Errorf("download bulletin: %w", err)
	}
	return p.cfg.Scrape.PDFPath, nil
}

// Extract parses accident records out of a bulletin PDF. Extracted
// text is cached against the file's size and mtime so re-runs over an
// unchanged bulletin skip the PDF pass.
func (p *Pipeline) Extract(pdfPath string) ([]model.AccidentRecord, error) {
	text, err := p.extractText(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	blocks := bulletin.Segment(text)
	records := bulletin.ParseBlocks(blocks)
	p.logger.Info().
		Int("blocks", len(blocks)).
		Int("records", len(records)).
		Str("pdf", pdfPath).
		Msg("extracted records")
	return records, nil
}

func (p *Pipeline) extractText(pdfPath string) (string, error) {
	if p.cache == nil {
		return bulletin.ExtractText(pdfPath)
	}
	info, err := os.Stat(pdfPath)
	if err != nil {
		return "", err
	}
	key := cache.CacheKey(fmt.Sprintf("text:%s:%d:%d", pdfPath, info.Size(), info.ModTime().UnixNano()))
	if data, ok := p.cache.Get(key); ok {
		return string(data), nil
	}
	text, err := bulletin.ExtractText(pdfPath)
	if err != nil {
		return "", err
	}
	if err := p.cache.Set(key, []byte(text), p.cfg.Cache.TTL); err != nil {
		p.logger.Warn().Err(err).Msg("failed to cache extracted text")
	}
	return text, nil
}

// Persist writes records to the configured CSV and JSON paths.
func (p *Pipeline) Persist(records []model.AccidentRecord) error {
	if err := dataset.WriteCSV(p.cfg.Dataset.CSVPath, records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := dataset.WriteJSON(p.cfg.Dataset.JSONPath, records); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	p.logger.Info().
		Str("csv", p.cfg.Dataset.CSVPath).
		Str("json", p.cfg.Dataset.JSONPath).
		Int("records", len(records)).
		Msg("dataset written")
	return nil
}

// Run executes the full flow: scrape, download, extract, persist, and
// when an indexer is supplied, rebuild the vector index.
func (p *Pipeline) Run(ctx context.Context, indexer *rag.Indexer) error {
	pdfPath, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	records, err := p.Extract(pdfPath)
	if err != nil {
		return err
	}
	if err := p.Persist(records); err != nil {
		return err
	}
	if indexer == nil {
		p.logger.Info().Msg("no embedder configured, skipping index build")
		return nil
	}
	count, err := indexer.Build(ctx, rag.BuildOptions{
		CSVPath:       p.cfg.Dataset.CSVPath,
		ForceRecreate: true,
	})
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	p.logger.Info().Int("chunks", count).Msg("index rebuilt")
	return nil
}
