package server

import (
	"time"

	"github.com/agbru/chebgo/internal/logging"
	"github.com/agbru/chebgo/internal/service"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the default zerolog logger. A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithService replaces the construction service. A nil service is ignored.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithTimeouts sets the HTTP and construction timeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// WithMaxLength caps the default grid size of requests that do not set
// max_length. Explicit values above the service cap are rejected by the
// service.
func WithMaxLength(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLength = n
		}
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// Timeouts holds the timeout configuration of the server.
type Timeouts struct {
	// RequestTimeout bounds a single construction.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerTimeouts returns the production timeouts.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    2 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
