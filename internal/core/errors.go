package core

import "errors"

// Configuration errors are fatal and are reported to the caller
// immediately. Callers match them with errors.Is.
var (
	// ErrUnknownStrategy is returned when a happiness strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown happiness strategy")
	// ErrUnsupportedStrategy is returned when a strategy exists but does not
	// support the representation's basis.
	ErrUnsupportedStrategy = errors.New("happiness strategy not supported for this basis")
	// ErrDomainShape is returned for a domain that is not a strictly
	// increasing sequence of at least two breakpoints.
	ErrDomainShape = errors.New("malformed domain")
	// ErrUnboundedDomain is returned when a breakpoint is not finite.
	ErrUnboundedDomain = errors.New("domain must be bounded")
	// ErrDimension is returned for column indices out of range and for
	// operators whose output width is inconsistent.
	ErrDimension = errors.New("dimension mismatch")
	// ErrKindMismatch is returned when two representations of different
	// bases are combined.
	ErrKindMismatch = errors.New("basis mismatch")
	// ErrNotPeriodic is returned when an operation would leave the space of
	// periodic functions.
	ErrNotPeriodic = errors.New("result is not periodic")
	// ErrInvalidPreferences is returned by Preferences.Validate.
	ErrInvalidPreferences = errors.New("invalid preferences")
	// ErrEmpty is returned when an operation needs a non-empty representation.
	ErrEmpty = errors.New("empty representation")
)
