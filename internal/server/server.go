// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness and build version
//	POST /v1/layout         graph (+ optional parameters and run settings) → layout JSON
//	POST /v1/render?format= layout → DOT, SVG, PNG or PDF
//	POST /v1/intersections  positioned graph → edge crossings
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with the error code, a message and the request id; coded errors map to
// status codes through [StatusFor].
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forcegraph/pkg/config"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultAddr     = ":8080"
	DefaultMaxNodes = 2000
	DefaultTimeout  = 30 * time.Second

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 8 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr     string
	MaxNodes int           // Largest accepted graph; zero means DefaultMaxNodes
	Timeout  time.Duration // Per-request simulation budget
	Logger   *log.Logger
}

// FromConfig converts the [server] section of the config file.
func FromConfig(c config.ServerConfig, logger *log.Logger) Config {
	return Config{
		Addr:     c.Addr,
		MaxNodes: c.MaxNodes,
		Timeout:  time.Duration(c.TimeoutSeconds) * time.Second,
		Logger:   logger,
	}
}

// Server is the HTTP layout service. It keeps no per-request state, so one
// Server can handle any number of concurrent requests.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server, filling unset config fields with defaults.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/intersections", s.handleIntersections)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Config returns the effective configuration, defaults applied.
func (s *Server) Config() Config {
	return s.cfg
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.Timeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
