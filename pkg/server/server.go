// Package server wires the demo list API onto an HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/api"
	"github.com/adfharrison1/go-listquery/pkg/config"
	"github.com/adfharrison1/go-listquery/pkg/logging"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
	"github.com/adfharrison1/go-listquery/pkg/storage"
)

// Server holds references to storage, router, etc.
type Server struct {
	router  *mux.Router
	store   *storage.StorageEngine
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
	latency time.Duration
}

type Option func(*Server)

// WithMetrics records every request and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLatency delays every API response.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new instance of Server.
func NewServer(store *storage.StorageEngine, options ...Option) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  store,
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = logging.WithComponent("server")
	}

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}

	apiRouter := s.router.NewRoute().Subrouter()
	api.NewHandler(store, s.logger).RegisterRoutes(apiRouter)
	apiRouter.Use(s.latencyMiddleware)

	s.router.Use(s.requestLoggerMiddleware)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.WithField("method", r.Method).WithField("path", r.URL.Path).Warn("no route found")
		api.WriteJSONError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	return s
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Store returns the engine behind the API.
func (s *Server) Store() *storage.StorageEngine {
	return s.store
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, c *config.Server, shutdownTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:         c.Addr(),
		Handler:      s.router,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", c.Addr()).Info("starting list API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
