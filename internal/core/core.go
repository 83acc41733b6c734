// Package core defines the types shared by every layer of the spectral
// engine: the basis tag, the operator signature, resolution verdicts, the
// representation capability seen by happiness checkers, and the checker
// strategy interface itself.
package core

//go:generate mockgen -source=core.go -destination=mocks/mock_core.go -package=mocks

import (
	"fmt"
	"strings"
)

// MachineEps is the spacing of float64 values at 1.
const MachineEps = 0x1p-52

// Kind tags the spectral basis of a representation.
type Kind int

const (
	// Chebyshev represents non-periodic functions by Chebyshev polynomials
	// sampled at Chebyshev points of the second kind.
	Chebyshev Kind = iota
	// Fourier represents periodic functions by complex exponentials sampled
	// at equispaced points.
	Fourier
)

// String returns the lower-case name of the basis.
func (k Kind) String() string {
	switch k {
	case Chebyshev:
		return "chebyshev"
	case Fourier:
		return "fourier"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind resolves a basis name. "trig" is accepted as an alias of
// "fourier" and "cheb" as an alias of "chebyshev".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chebyshev", "cheb", "":
		return Chebyshev, nil
	case "fourier", "trig":
		return Fourier, nil
	default:
		return Chebyshev, fmt.Errorf("%w: unknown basis %q", ErrInvalidPreferences, s)
	}
}

// Op is a black-box function handle. It returns one value per output
// column; every call must return the same number of columns.
type Op func(x float64) []float64

// Scalar adapts a scalar function to an Op with a single column.
func Scalar(f func(float64) float64) Op {
	return func(x float64) []float64 { return []float64{f(x)} }
}

// Columns builds an array-valued Op from one scalar function per column.
func Columns(fs ...func(float64) float64) Op {
	return func(x float64) []float64 {
		out := make([]float64, len(fs))
		for i, f := range fs {
			out[i] = f(x)
		}
		return out
	}
}

// Data carries the scales of the enclosing object into a construction.
// Vscale is the vertical scale the tolerance is made relative to, Hscale
// the horizontal scale of the domain the piece lives on.
type Data struct {
	Vscale float64
	Hscale float64
}

// Verdict is the outcome of a happiness check.
type Verdict struct {
	// Happy reports whether the representation is resolved.
	Happy bool
	// Epslevel is the estimated relative noise floor, never below MachineEps.
	Epslevel float64
	// Cutoff is the length the representation should be truncated to. An
	// unhappy verdict reports the current length.
	Cutoff int
}

// Representation is the view of a spectral representation that resolution
// checkers work with.
type Representation interface {
	// Kind returns the basis of the representation.
	Kind() Kind
	// Len returns the number of coefficients per column.
	Len() int
	// Columns returns the number of output components.
	Columns() int
	// Coefficients returns one coefficient slice per column. Chebyshev
	// coefficients are ordered by degree and have zero imaginary part;
	// Fourier coefficients are ordered by increasing wave number.
	Coefficients() [][]complex128
	// ColumnVscales returns the maximum absolute sampled value per column.
	ColumnVscales() []float64
	// Vscale returns the maximum of ColumnVscales.
	Vscale() float64
	// IsHappy reports whether the representation came out of a resolved
	// construction.
	IsHappy() bool
	// Feval evaluates every column at x in [-1, 1].
	Feval(x float64) []float64
}

// Checker decides whether a representation is resolved. op is nil when the
// generating operator is not available; values holds the samples the
// representation was built from, one slice per column.
type Checker interface {
	Check(rep Representation, op Op, values [][]float64, data Data, p Preferences) (Verdict, error)
}

// CheckerFunc adapts an ordinary function to the Checker interface.
type CheckerFunc func(rep Representation, op Op, values [][]float64, data Data, p Preferences) (Verdict, error)

// Check calls f.
func (f CheckerFunc) Check(rep Representation, op Op, values [][]float64, data Data, p Preferences) (Verdict, error) {
	return f(rep, op, values, data, p)
}
