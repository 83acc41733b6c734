// Package tech implements spectral representations of functions on the
// canonical interval [-1, 1]: ChebTech in the Chebyshev basis and TrigTech
// in the Fourier basis.
//
// Values and coefficients are kept mutually consistent: every constructor
// derives one from the other, and every operation returns a new instance.
package tech

import (
	"fmt"
	"math"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/happiness"
	"github.com/agbru/chebgo/internal/transform"
)

// Tech is a spectral representation with its calculus. Both ChebTech and
// TrigTech implement it.
type Tech interface {
	core.Representation

	// Values returns a copy of the samples on the canonical grid, one slice
	// per column.
	Values() [][]float64
	// Epslevel returns the relative accuracy the representation was
	// resolved to.
	Epslevel() float64
	// WithVerdict returns a copy truncated to v.Cutoff and stamped with the
	// verdict's happiness and epslevel.
	WithVerdict(v core.Verdict) Tech
	// Prolong returns a copy with n coefficients, padding with zeros or
	// truncating.
	Prolong(n int) Tech
	// Simplify drops trailing coefficients that lie below the noise floor.
	Simplify(p core.Preferences) (Tech, error)
	// Extract returns the selected columns, in the given order. Indices are
	// zero based.
	Extract(cols []int) (Tech, error)
	// Diff returns the k-th derivative on [-1, 1].
	Diff(k int) Tech
	// Cumsum returns the indefinite integral vanishing at -1.
	Cumsum() (Tech, error)
	// Sum returns the definite integral over [-1, 1] per column.
	Sum() []float64
	// Roots returns the sorted real roots in [-1, 1] of each column.
	Roots() [][]float64
	// Scale multiplies every column by a.
	Scale(a float64) Tech
	// Plus returns the sum of two representations of the same basis.
	Plus(o Tech) (Tech, error)
	// Times returns the pointwise product of two representations of the
	// same basis and width.
	Times(o Tech) (Tech, error)
}

// Points returns the canonical grid of size n for the given basis.
func Points(kind core.Kind, n int) []float64 {
	if kind == core.Fourier {
		return transform.TrigPoints(n)
	}
	return transform.ChebPoints(n)
}

// FromValues builds an unresolved representation from samples on the
// canonical grid of the given basis, one slice per column.
func FromValues(kind core.Kind, values [][]float64) (Tech, error) {
	if err := checkRectangular(values); err != nil {
		return nil, err
	}
	if kind == core.Fourier {
		return NewTrigFromValues(values), nil
	}
	return NewChebFromValues(values), nil
}

// base holds the state shared by both bases.
type base struct {
	values   [][]float64
	vscales  []float64
	happy    bool
	epslevel float64
}

func newBase(values [][]float64) base {
	b := base{values: values, epslevel: core.MachineEps}
	b.vscales = make([]float64, len(values))
	for i, col := range values {
		for _, v := range col {
			if a := math.Abs(v); a > b.vscales[i] {
				b.vscales[i] = a
			}
		}
	}
	return b
}

func (b *base) Columns() int { return len(b.values) }

func (b *base) Len() int {
	if len(b.values) == 0 {
		return 0
	}
	return len(b.values[0])
}

func (b *base) Values() [][]float64 { return copyMatrix(b.values) }

func (b *base) ColumnVscales() []float64 { return append([]float64(nil), b.vscales...) }

func (b *base) Vscale() float64 {
	m := 0.0
	for _, v := range b.vscales {
		m = math.Max(m, v)
	}
	return m
}

func (b *base) IsHappy() bool { return b.happy }

func (b *base) Epslevel() float64 { return b.epslevel }

func (b *base) stamp(happy bool, epslevel float64) {
	b.happy = happy
	b.epslevel = max(epslevel, core.MachineEps)
}

func simplify(t Tech, p core.Preferences) (Tech, error) {
	p = p.Normalize()
	p.Checker = nil
	p.SampleTest = false
	if p.HappinessCheck == "strict" || p.HappinessCheck == "loose" {
		p.HappinessCheck = core.DefaultHappinessCheck
	}
	marked := t.WithVerdict(core.Verdict{Happy: true, Epslevel: t.Epslevel(), Cutoff: t.Len()})
	v, err := happiness.Check(marked, nil, nil, core.Data{}, p)
	if err != nil {
		return nil, err
	}
	if !v.Happy {
		return t, nil
	}
	v.Happy = t.IsHappy()
	v.Epslevel = max(v.Epslevel, t.Epslevel())
	return t.WithVerdict(v), nil
}

func checkRectangular(values [][]float64) error {
	if len(values) == 0 || len(values[0]) == 0 {
		return core.ErrEmpty
	}
	for i, col := range values {
		if len(col) != len(values[0]) {
			return fmt.Errorf("%w: column %d has %d samples, want %d", core.ErrDimension, i, len(col), len(values[0]))
		}
	}
	return nil
}

func extractColumns[T any](cols [][]T, idx []int) ([][]T, error) {
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: no columns selected", core.ErrDimension)
	}
	out := make([][]T, len(idx))
	for i, j := range idx {
		if j < 0 || j >= len(cols) {
			return nil, fmt.Errorf("%w: column %d out of range [0, %d)", core.ErrDimension, j, len(cols))
		}
		out[i] = append([]T(nil), cols[j]...)
	}
	return out, nil
}

func copyMatrix[T any](m [][]T) [][]T {
	out := make([][]T, len(m))
	for i, row := range m {
		out[i] = append([]T(nil), row...)
	}
	return out
}
