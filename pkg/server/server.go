// Package server exposes the bundle pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness and build version
//	GET  /metrics        Prometheus metrics, when enabled
//	GET  /v1/transforms  the module table
//	POST /v1/codegen     generated index source
//	POST /v1/bundle      compiled bundle
//
// POST bodies have the form:
//
//	{"specs": [{"name": "sales", "spec": {...}}], "options": {"format": "es"}}
//
// Errors are returned as {"code": "...", "message": "..."} with a status
// derived from the error code. Every response carries an X-Request-ID.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/vegabundle/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 10 << 20

// Server serves the bundle API.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// ResolveDir is where bundle imports are resolved; the vega packages
	// must be installed there.
	ResolveDir string

	// Plugins are passed to every build.
	Plugins []api.Plugin

	// MaxBodyBytes bounds request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Metrics, when set, is served at GET /metrics.
	Metrics *Metrics
}

// New returns a server over runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/transforms", s.handleTransforms)
		r.Post("/codegen", s.handleCodegen)
		r.Post("/bundle", s.handleBundle)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) maxBodyBytes() int64 {
	if s.MaxBodyBytes > 0 {
		return s.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}
