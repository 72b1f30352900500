// Package server exposes the search service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vegasq/codesearch/internal/config"
	"github.com/vegasq/codesearch/internal/metrics"
	"github.com/vegasq/codesearch/internal/service"
	"github.com/vegasq/codesearch/query"
)

// Searcher is the part of service.Service the handlers use.
type Searcher interface {
	Search(ctx context.Context, req query.SearchRequest) (query.SearchResult, error)
	Stats(column string, n int) service.StatsResult
	Columns() []string
	Schema() query.Schema
	Len() int
}

// Server is the HTTP front end.
type Server struct {
	svc    Searcher
	cfg    *config.Config
	log    *slog.Logger
	engine *gin.Engine
}

// New builds the router. cfg supplies request defaults and limits.
func New(svc Searcher, cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{svc: svc, cfg: cfg, log: log}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(AccessLog(log))
	engine.Use(metrics.Middleware())

	engine.GET("/health", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/")
	api.Use(RateLimit(cfg.Server.RateLimitPerMinute, cfg.Server.RateBurst))
	api.GET("/search", s.search)
	api.GET("/export", s.export)
	api.GET("/export_unique", s.exportUnique)
	api.GET("/stats", s.stats)

	s.engine = engine
	return s
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Server.Addr until ctx is done, then shuts down
// gracefully within cfg.Server.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
