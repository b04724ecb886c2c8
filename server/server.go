// Package server exposes a workspace and the two exporters over HTTP.
//
// Routes live under /api/v1. Exports run in the background: POST
// /api/v1/exports returns a job that is polled until done and then
// downloaded from its artifact route.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lvillar/deckforge/config"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/pdfexport"
	"github.com/lvillar/deckforge/studio"
	"github.com/lvillar/deckforge/templates"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API.
type Server struct {
	cfg      config.Server
	ws       *studio.Workspace
	exports  *exports
	format   geom.Format
	registry *templates.Registry
	log      logger.Logger
	metrics  *metrics.Metrics
	router   *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics records requests on m and serves it on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTemplates sets the registry listed on /api/v1/templates.
func WithTemplates(r *templates.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithFormat sets the profile used when a request names none.
func WithFormat(f geom.Format) Option {
	return func(s *Server) { s.format = f }
}

// New returns a server for ws exporting with pdf and deck.
func New(cfg config.Server, ws *studio.Workspace, pdf *pdfexport.Exporter, deck *deckexport.Exporter, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		ws:       ws,
		format:   geom.DefaultFormat,
		registry: templates.MustDefault(),
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.exports = newExports(pdf, deck, cfg.ArtifactTTL)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.router.Use(recovery(s.log), requestLog(s.log, s.metrics))
	s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	v1.POST("/generate", s.generate)
	v1.POST("/chunks", s.chunk)
	v1.GET("/document", s.getDocument)
	v1.PUT("/document", s.putDocument)
	v1.DELETE("/document", s.deleteDocument)
	v1.POST("/pages", s.addPage)
	v1.PATCH("/pages/:index", s.patchPage)
	v1.DELETE("/pages/:index", s.deletePage)
	v1.POST("/pages/:index/regenerate", s.regeneratePage)
	v1.POST("/remix", s.remix)
	v1.GET("/style", s.getStyle)
	v1.PUT("/style", s.putStyle)
	v1.GET("/provider", s.getProvider)
	v1.PUT("/provider", s.putProvider)
	v1.GET("/templates", s.listTemplates)
	v1.GET("/profiles", s.listProfiles)

	v1.GET("/exports", s.listExports)
	v1.POST("/exports", s.startExport)
	v1.GET("/exports/:id", s.getExport)
	v1.GET("/exports/:id/artifact", s.getArtifact)
	v1.DELETE("/exports/:id", s.deleteExport)
}

// Run serves on cfg.Addr until ctx ends, then shuts down gracefully and
// aborts the exports still running.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server",
			logger.String("addr", srv.Addr),
			logger.Duration("read_timeout", srv.ReadTimeout),
			logger.Duration("write_timeout", srv.WriteTimeout))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	s.exports.abortAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
