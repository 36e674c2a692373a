// Package server exposes the classification aggregates and the RAG
// pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ppiankov/sanket/internal/model"
	"github.com/ppiankov/sanket/internal/rag"
)

// Server serves the accident statistics API.
type Server struct {
	cfg      *model.Config
	logger   zerolog.Logger
	indexer  *rag.Indexer  // nil when embedding is not configured
	answerer *rag.Answerer // nil when embedding is not configured
}

// New creates a server. indexer and answerer may be nil; the
// corresponding endpoints then return 503.
func New(cfg *model.Config, logger zerolog.Logger, indexer *rag.Indexer, answerer *rag.Answerer) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		indexer:  indexer,
		answerer: answerer,
	}
}

// Router builds the chi router with all routes configured.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(s.cfg.Server.AllowedOrigins))
	r.Use(chimiddleware.Timeout(s.cfg.Server.RequestTimeout))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Get("/classify_by_state", s.handleClassifyByState)
	r.Get("/classify_by_year", s.handleClassifyByYear)
	r.Get("/classify_by_cause", s.handleClassifyByCause)
	r.Get("/classify_by_district", s.handleClassifyByDistrict)

	r.Post("/build-index", s.handleBuildIndex)
	r.Post("/query-rag", s.handleQueryRAG)

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled or a
// shutdown signal arrives, then drains within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		s.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-ctx.Done():
		s.logger.Info().Msg("context cancelled, shutting down")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		s.logger.Error().Err(err).Msg("graceful shutdown failed")
		return srv.Close()
	}
	s.logger.Info().Msg("server stopped")
	return nil
}
