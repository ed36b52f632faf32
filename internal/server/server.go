// Package server exposes a types.Table of products as the REST resource the
// crud client consumes: POST/GET /products and GET/PUT/DELETE /products/{id}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server routes product requests to a types.Table.
type Server struct {
	table   types.Table
	logger  *zap.Logger
	metrics *Metrics
	router  *mux.Router
}

// New creates a Server over table. A nil logger discards output.
func New(table types.Table, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		table:   table,
		logger:  logger.Named("server"),
		metrics: NewMetrics(),
		router:  mux.NewRouter(),
	}
	s.router.Use(s.metrics.Middleware, s.logRequests)
	s.RegisterRoutes(s.router)
	return s
}

// RegisterRoutes registers the product, health, and metrics routes on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products", s.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", s.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", s.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", s.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", s.DeleteProduct).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the server's metric collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves on l until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", l.Addr().String()))
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// logRequests logs each request with the caller's X-Request-ID and echoes
// the header back.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestID))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
