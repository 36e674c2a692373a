package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/cache"
	"github.com/ppiankov/sanket/internal/model"
	"github.com/ppiankov/sanket/internal/util"
	"github.com/ppiankov/sanket/internal/worker"
)

// Fetcher retrieves the bulletin listing page and downloads bulletin
// PDFs, honouring robots.txt and per-domain rate limits. Listing-page
// HTML goes through the layered cache so repeated runs do not
// rescrape.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	pageCache  cache.Cache // nil disables caching
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher from HTTP configuration. pageCache may
// be nil.
func NewFetcher(cfg model.HTTPConfig, pageCache cache.Cache, cacheTTL time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   worker.NewLimiter(cfg.RatePerSec, cfg.RateBurst),
		pageCache: pageCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// FetchPage retrieves an HTML page, serving from cache when possible.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (string, error) {
	key := cache.CacheKey(rawURL)
	if f.pageCache != nil {
		if val, found := f.pageCache.Get(key); found {
			f.logger.Debug().Str("url", rawURL).Msg("listing page served from cache")
			return string(val), nil
		}
	}

	body, err := f.get(ctx, rawURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}

	if f.pageCache != nil {
		if err := f.pageCache.Set(key, body, f.cacheTTL); err != nil {
			f.logger.Warn().Err(err).Str("url", rawURL).Msg("cache write failed")
		}
	}
	return string(body), nil
}

// Download fetches a URL and writes its body to path.
func (f *Fetcher) Download(ctx context.Context, rawURL, path string) error {
	body, err := f.get(ctx, rawURL, "application/pdf,*/*;q=0.8")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	f.logger.Info().Str("url", rawURL).Str("path", path).Int("bytes", len(body)).Msg("downloaded")
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
	}
	if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status fetching %s: %d %s", rawURL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
