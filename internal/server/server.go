// Package server exposes the construction service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/chebgo/internal/config"
	"github.com/agbru/chebgo/internal/core"
	apperrors "github.com/agbru/chebgo/internal/errors"
	"github.com/agbru/chebgo/internal/logging"
	"github.com/agbru/chebgo/internal/service"
)

// Server is the HTTP front end of the construction service. It wraps an
// http.Server and shuts it down gracefully on SIGINT or SIGTERM.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	metrics        *Metrics
	timeouts       Timeouts
	maxLength      int
	version        string
}

// NewServer creates a server for svc listening on cfg.Port.
//
// Endpoints:
//   - GET /construct?fn=<name>&domain=&tech=&strategy=&eps=&max_length=&eval=&coeffs=&splitting=
//   - GET /functions
//   - GET /strategies
//   - GET /health
//   - GET /metrics
func NewServer(svc service.Service, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		service:        svc,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server", logging.ParseLevel(cfg.LogLevel)),
		shutdownSignal: make(chan os.Signal, 1),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		maxLength:      core.DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/construct", s.wrapWithMiddleware("/construct", s.handleConstruct))
	mux.HandleFunc("/functions", s.wrapWithMiddleware("/functions", s.handleFunctions))
	mux.HandleFunc("/strategies", s.wrapWithMiddleware("/strategies", s.handleStrategies))
	mux.HandleFunc("/health", s.wrapWithMiddleware("/health", s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware("/metrics", s.handleMetrics))
	return mux
}

// wrapWithMiddleware applies, outermost first: security headers, request
// ID, logging, metrics.
func (s *Server) wrapWithMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(route, handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = requestIDMiddleware(wrapped)
	wrapped = securityHeadersMiddleware(wrapped)
	return wrapped
}

// Start listens on the configured port until a termination signal
// arrives, then drains in-flight requests within ShutdownTimeout.
func (s *Server) Start() error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.Int("max_length", s.maxLength),
			logging.String("version", s.version))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}
	s.logger.Info("server stopped")
	return nil
}
