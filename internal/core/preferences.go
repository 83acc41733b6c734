package core

import (
	"fmt"
	"math"
)

// Default values for Preferences. They are applied by Normalize to any
// field left at its zero value.
const (
	DefaultMinSamples     = 17
	DefaultMaxLength      = 65537
	DefaultHappinessCheck = "standard"
	DefaultSamplePoints   = 3
	DefaultSampleSeed     = 0x6368656266756e
	DefaultSplitLength    = 160
	DefaultSplitMaxLength = 6000
	RefinementNested      = "nested"
	RefinementResample    = "resample"
)

// Preferences configures construction and resolution checks. It is passed
// by value into every call; there are no package-level defaults to mutate.
// Start from DefaultPreferences and override fields.
type Preferences struct {
	// Tech selects the spectral basis.
	Tech Kind
	// Eps is the target relative accuracy. Zero means MachineEps.
	Eps float64
	// MinSamples is the first grid size tried by the adaptive loop.
	MinSamples int
	// MaxLength bounds the grid size; reaching it without resolving
	// exhausts the construction.
	MaxLength int
	// FixedLength, when positive, samples once at that size and skips
	// refinement.
	FixedLength int
	// HappinessCheck names the registered resolution strategy.
	HappinessCheck string
	// Checker, when set, overrides HappinessCheck.
	Checker Checker
	// SampleTest enables the random cross-check of happy verdicts.
	SampleTest bool
	// SamplePoints is the number of cross-check points.
	SamplePoints int
	// SampleSeed seeds the cross-check generator.
	SampleSeed uint64
	// Refinement is "nested" (reuse samples when growing the grid) or
	// "resample" (evaluate every point again).
	Refinement string
	// ExtrapolateEndpoints avoids evaluating the operator at ±1.
	ExtrapolateEndpoints bool
	// Splitting enables recursive bisection of pieces that do not resolve.
	Splitting bool
	// SplitLength is the per-piece length limit while splitting.
	SplitLength int
	// SplitMaxLength bounds the total length of a split function.
	SplitMaxLength int
	// Domain is the default breakpoint vector.
	Domain []float64
}

// DefaultPreferences returns the standard configuration: Chebyshev basis,
// machine precision, 17 initial samples, the standard strategy with the
// sample test enabled, on [-1, 1].
func DefaultPreferences() Preferences {
	return Preferences{
		Tech:           Chebyshev,
		Eps:            MachineEps,
		MinSamples:     DefaultMinSamples,
		MaxLength:      DefaultMaxLength,
		HappinessCheck: DefaultHappinessCheck,
		SampleTest:     true,
		SamplePoints:   DefaultSamplePoints,
		SampleSeed:     DefaultSampleSeed,
		Refinement:     RefinementNested,
		SplitLength:    DefaultSplitLength,
		SplitMaxLength: DefaultSplitMaxLength,
		Domain:         []float64{-1, 1},
	}
}

// Normalize returns a copy of p with defaults filled in for zero values.
// Boolean switches are left untouched.
func (p Preferences) Normalize() Preferences {
	n := p
	if n.Eps == 0 {
		n.Eps = MachineEps
	}
	if n.MinSamples == 0 {
		n.MinSamples = DefaultMinSamples
	}
	if n.MaxLength == 0 {
		n.MaxLength = DefaultMaxLength
	}
	if n.HappinessCheck == "" {
		n.HappinessCheck = DefaultHappinessCheck
	}
	if n.SamplePoints == 0 {
		n.SamplePoints = DefaultSamplePoints
	}
	if n.SampleSeed == 0 {
		n.SampleSeed = DefaultSampleSeed
	}
	if n.Refinement == "" {
		n.Refinement = RefinementNested
	}
	if n.SplitLength == 0 {
		n.SplitLength = DefaultSplitLength
	}
	if n.SplitMaxLength == 0 {
		n.SplitMaxLength = DefaultSplitMaxLength
	}
	if len(n.Domain) == 0 {
		n.Domain = []float64{-1, 1}
	} else {
		n.Domain = append([]float64(nil), n.Domain...)
	}
	return n
}

// Validate reports the first inconsistent field of p as an error wrapping
// ErrInvalidPreferences. Call it on normalized preferences.
func (p Preferences) Validate() error {
	switch {
	case !(p.Eps > 0 && p.Eps < 1):
		return fmt.Errorf("%w: eps %g must lie in (0, 1)", ErrInvalidPreferences, p.Eps)
	case p.MinSamples < 1:
		return fmt.Errorf("%w: min samples %d must be positive", ErrInvalidPreferences, p.MinSamples)
	case p.MaxLength < p.MinSamples:
		return fmt.Errorf("%w: max length %d is below min samples %d", ErrInvalidPreferences, p.MaxLength, p.MinSamples)
	case p.FixedLength < 0:
		return fmt.Errorf("%w: fixed length %d is negative", ErrInvalidPreferences, p.FixedLength)
	case p.SamplePoints < 0:
		return fmt.Errorf("%w: sample points %d is negative", ErrInvalidPreferences, p.SamplePoints)
	case p.Refinement != RefinementNested && p.Refinement != RefinementResample:
		return fmt.Errorf("%w: refinement %q", ErrInvalidPreferences, p.Refinement)
	case p.SplitLength < 2 || p.SplitMaxLength < p.SplitLength:
		return fmt.Errorf("%w: split lengths %d/%d", ErrInvalidPreferences, p.SplitLength, p.SplitMaxLength)
	case p.Tech != Chebyshev && p.Tech != Fourier:
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, p.Tech)
	}
	return ValidateDomain(p.Domain)
}

// ValidateDomain checks that d holds at least two finite, strictly
// increasing breakpoints.
func ValidateDomain(d []float64) error {
	if len(d) < 2 {
		return fmt.Errorf("%w: need at least two breakpoints, got %d", ErrDomainShape, len(d))
	}
	for i, x := range d {
		if math.IsNaN(x) {
			return fmt.Errorf("%w: breakpoint %d is NaN", ErrDomainShape, i)
		}
		if math.IsInf(x, 0) {
			return fmt.Errorf("%w: breakpoint %d is %v", ErrUnboundedDomain, i, x)
		}
		if i > 0 && !(x > d[i-1]) {
			return fmt.Errorf("%w: breakpoints must be strictly increasing (%g after %g)", ErrDomainShape, x, d[i-1])
		}
	}
	return nil
}
