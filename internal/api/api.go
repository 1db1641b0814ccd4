// Package api provides the HTTP surface of the eligibility engine.
//
// It exposes RESTful endpoints to post conversational turns, inspect session
// state, list the product catalog, and check service health. All responses use
// the shared envelope from the models package.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Alexandre220990/profitum-engine/internal/engine"
	"github.com/Alexandre220990/profitum-engine/internal/util"
)

// Default server configuration constants.
const (
	// DefaultAddr is the default listen address for the API server.
	DefaultAddr = ":8080"
	// DefaultReadHeaderTimeout bounds how long reading request headers may take.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultShutdownTimeout bounds the graceful shutdown on exit.
	DefaultShutdownTimeout = 15 * time.Second
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// Server wires the conversation engine to the HTTP endpoints.
type Server struct {
	addr   string
	engine *engine.Engine
}

// NewServer creates an API server around the given engine.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	slog.Debug("Server.NewServer: API server created", "addr", cfg.Addr)
	return &Server{addr: cfg.Addr, engine: eng}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions/{id}/messages", s.processMessageHandler)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.getSessionHandler)
	mux.HandleFunc("GET /api/v1/products", s.productsHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	return s.loggingMiddleware(mux)
}

// Run starts the HTTP server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: API server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Server.Run: shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// loggingMiddleware attaches a correlation ID and logs every request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := util.GenerateRequestID()
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Server: request handled",
			"request_id", requestID, "method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start))
	})
}
