// Package apperrors defines the structured error types of the chebgo
// application. It separates configuration problems, construction failures
// and server faults so that the command-line front end can map each class
// to its own exit status.
//
// All wrapping types implement Unwrap so errors.Is and errors.As see the
// sentinels of the numerical core through them.
package apperrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/chebgo/internal/core"
)

// Application exit codes.
const (
	ExitSuccess         = 0   // Successful execution.
	ExitErrorGeneric    = 1   // Unexpected failure.
	ExitErrorTimeout    = 2   // The execution limit was reached.
	ExitErrorUnresolved = 3   // A construction exhausted its maximum length.
	ExitErrorConfig     = 4   // Invalid flags, preferences or domain.
	ExitErrorMismatch   = 5   // Resolved results of different strategies disagree.
	ExitErrorCanceled   = 130 // Interrupted, e.g. by SIGINT.
)

// ErrUnresolved marks a construction that finished without resolving the
// function. It is only reported as an error when the caller asks for it.
var ErrUnresolved = errors.New("function not resolved")

// ConfigError is an invalid user setting: a flag, an environment override
// or a preference value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ConstructionError reports a failed construction of a named function.
type ConstructionError struct {
	// Function is the catalog name, empty for ad hoc operators.
	Function string
	// Strategy is the happiness check in use.
	Strategy string
	Cause    error
}

func (e ConstructionError) Error() string {
	switch {
	case e.Function != "" && e.Strategy != "":
		return fmt.Sprintf("constructing %s with %s: %v", e.Function, e.Strategy, e.Cause)
	case e.Function != "":
		return fmt.Sprintf("constructing %s: %v", e.Function, e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap returns the cause.
func (e ConstructionError) Unwrap() error { return e.Cause }

// NewConstructionError wraps cause, returning nil when cause is nil.
func NewConstructionError(function, strategy string, cause error) error {
	if cause == nil {
		return nil
	}
	return ConstructionError{Function: function, Strategy: strategy, Cause: cause}
}

// ServerError is a failure of the HTTP server component.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause, which may be nil.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError with an optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError is an invalid field of an API request.
type ValidationError struct {
	Field   string
	Message string
	// Value is the rejected input, if any.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError prefixes err with a formatted context message. It returns nil
// when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err comes from a canceled or expired
// context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsUserError reports whether err was caused by bad input rather than by the
// numerical engine: configuration and validation errors, and the core
// sentinels for malformed preferences, domains, strategies and indices.
func IsUserError(err error) bool {
	var cfg ConfigError
	var val ValidationError
	if errors.As(err, &cfg) || errors.As(err, &val) {
		return true
	}
	for _, target := range []error{
		core.ErrInvalidPreferences,
		core.ErrDomainShape,
		core.ErrUnboundedDomain,
		core.ErrUnknownStrategy,
		core.ErrUnsupportedStrategy,
		core.ErrDimension,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
