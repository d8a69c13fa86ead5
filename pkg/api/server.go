// Package api serves charts, layouts and drill-down sessions over HTTP.
//
// Routes (JSON unless noted):
//
//	GET    /healthz
//	GET    /charts
//	GET    /charts/{id}
//	PUT    /charts/{id}                   body: dataset (JSON, YAML or TOML)
//	DELETE /charts/{id}
//	GET    /charts/{id}/layout?select=N
//	GET    /charts/{id}/render.svg?select=N&labels=1&title=...   (SVG)
//	GET    /charts/{id}/tree.svg?select=N                        (SVG)
//	POST   /charts/{id}/sessions
//	GET    /sessions/{sid}
//	POST   /sessions/{sid}/select/{index}
//	POST   /sessions/{sid}/back
//	POST   /sessions/{sid}/reset
//	DELETE /sessions/{sid}
//
// Errors are returned as {"code": "...", "message": "..."} with the status
// from errors.HTTPStatus.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bubblechart/pkg/pipeline"
	"github.com/matzehuels/bubblechart/pkg/session"
	"github.com/matzehuels/bubblechart/pkg/store"
)

// Server defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Config wires the server's backends.
type Config struct {
	Charts   store.Store
	Sessions session.Store
	Runner   *pipeline.Runner
	Logger   *log.Logger

	// SessionTTL is the sliding session lifetime (default session.DefaultTTL).
	SessionTTL time.Duration

	// Options is the base layout and render configuration; requests only
	// choose the selection and labels.
	Options pipeline.Options

	// MaxBodyBytes caps uploaded datasets (default 1 MiB).
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server. Nil backends are replaced with in-memory ones and a
// nil runner with an uncached one.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Charts == nil {
		cfg.Charts = store.NewMemoryStore()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/charts", func(r chi.Router) {
		r.Get("/", s.handleListCharts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetChart)
			r.Put("/", s.handlePutChart)
			r.Delete("/", s.handleDeleteChart)
			r.Get("/layout", s.handleLayout)
			r.Get("/render.svg", s.handleRenderSVG)
			r.Get("/tree.svg", s.handleTreeSVG)
			r.Post("/sessions", s.handleCreateSession)
		})
	})

	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleDeleteSession)
		r.Post("/select/{index}", s.handleSelect)
		r.Post("/back", s.handleBack)
		r.Post("/reset", s.handleReset)
	})

	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.cfg.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the server's backends.
func (s *Server) Close() error {
	return errors.Join(
		s.cfg.Charts.Close(),
		s.cfg.Sessions.Close(),
		s.cfg.Runner.Close(),
	)
}
