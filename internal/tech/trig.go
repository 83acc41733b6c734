package tech

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/happiness"
	"github.com/agbru/chebgo/internal/transform"
)

// TrigTech represents a real periodic function on [-1, 1) by its values at
// equispaced points and the matching Fourier coefficients, ordered by
// increasing wave number.
type TrigTech struct {
	base
	coeffs [][]complex128
}

var _ Tech = (*TrigTech)(nil)

// NewTrigFromValues builds a TrigTech from samples at TrigPoints(n), one
// slice per column. The slices are copied.
func NewTrigFromValues(values [][]float64) *TrigTech {
	vals := copyMatrix(values)
	coeffs := make([][]complex128, len(vals))
	for i, v := range vals {
		coeffs[i] = transform.TrigVals2Coeffs(toComplex(v))
	}
	return &TrigTech{base: newBase(vals), coeffs: coeffs}
}

// NewTrigFromCoeffs builds a TrigTech from Fourier coefficients ordered as
// transform.TrigWaveNumbers. Only the real part of the synthesized values
// is kept, so the stored coefficients are the conjugate-symmetric part of
// the input.
func NewTrigFromCoeffs(coeffs [][]complex128) *TrigTech {
	vals := make([][]float64, len(coeffs))
	for i, c := range coeffs {
		vals[i] = realParts(transform.TrigCoeffs2Vals(c))
	}
	return NewTrigFromValues(vals)
}

func (t *TrigTech) derived(coeffs [][]complex128) *TrigTech {
	out := NewTrigFromCoeffs(coeffs)
	out.stamp(t.happy, t.epslevel)
	return out
}

// Kind returns core.Fourier.
func (t *TrigTech) Kind() core.Kind { return core.Fourier }

// Coeffs returns a copy of the Fourier coefficients.
func (t *TrigTech) Coeffs() [][]complex128 { return copyMatrix(t.coeffs) }

// Coefficients returns a copy of the Fourier coefficients.
func (t *TrigTech) Coefficients() [][]complex128 { return copyMatrix(t.coeffs) }

// Feval evaluates every column at x. Points outside [-1, 1) are reduced
// by periodicity.
func (t *TrigTech) Feval(x float64) []float64 {
	out := make([]float64, len(t.coeffs))
	for i, c := range t.coeffs {
		out[i] = real(transform.TrigEval(c, x))
	}
	return out
}

// WithVerdict truncates to v.Cutoff and records the verdict.
func (t *TrigTech) WithVerdict(v core.Verdict) Tech {
	n := t.Len()
	if v.Cutoff > 0 && v.Cutoff < n {
		n = v.Cutoff
	}
	out := t.prolong(n)
	out.stamp(v.Happy, v.Epslevel)
	return out
}

// Prolong changes the number of coefficients to n, keeping the wave
// numbers the two lengths share. The unpaired mode of an even length is
// split between ±m when growing and folded back when shrinking.
func (t *TrigTech) Prolong(n int) Tech { return t.prolong(n) }

func (t *TrigTech) prolong(n int) *TrigTech {
	n = max(n, 1)
	if n == t.Len() {
		out := &TrigTech{base: t.base, coeffs: copyMatrix(t.coeffs)}
		out.values = copyMatrix(t.values)
		out.vscales = append([]float64(nil), t.vscales...)
		return out
	}
	c := make([][]complex128, len(t.coeffs))
	for i, col := range t.coeffs {
		c[i] = resizeTrig(col, n)
	}
	return t.derived(c)
}

func resizeTrig(c []complex128, n int) []complex128 {
	old := len(c)
	src := append([]complex128(nil), c...)
	oldMid := old / 2
	if old%2 == 0 && n > old {
		// Split the unpaired mode -m before extending.
		half := src[0] / 2
		src[0] = half
		src = append(src, half)
		old++
	}
	out := make([]complex128, n)
	mid := n / 2
	for i := range old {
		k := i - oldMid
		j := k + mid
		switch {
		case j >= 0 && j < n:
			out[j] += src[i]
		case n%2 == 0 && k == mid:
			// +m folds onto -m at even lengths.
			out[0] += src[i]
		}
	}
	return out
}

// Simplify chops trailing Fourier modes below the noise floor.
func (t *TrigTech) Simplify(p core.Preferences) (Tech, error) { return simplify(t, p) }

// Extract returns the selected columns.
func (t *TrigTech) Extract(cols []int) (Tech, error) {
	c, err := extractColumns(t.coeffs, cols)
	if err != nil {
		return nil, err
	}
	return t.derived(c), nil
}

// Diff returns the k-th derivative. For even lengths the unpaired mode is
// dropped on odd derivatives, as its derivative is not real.
func (t *TrigTech) Diff(k int) Tech {
	c := copyMatrix(t.coeffs)
	waves := transform.TrigWaveNumbers(t.Len())
	for i := range c {
		for j, w := range waves {
			f := complex(1, 0)
			for range k {
				f *= complex(0, math.Pi*float64(w))
			}
			c[i][j] *= f
		}
		if t.Len()%2 == 0 && k%2 == 1 {
			c[i][0] = 0
		}
	}
	return t.derived(c)
}

// Cumsum returns the periodic indefinite integral vanishing at -1. It fails
// with core.ErrNotPeriodic when a column has a nonzero mean.
func (t *TrigTech) Cumsum() (Tech, error) {
	src := t
	if t.Len()%2 == 0 {
		src = t.prolong(t.Len() + 1)
	}
	waves := transform.TrigWaveNumbers(src.Len())
	mid := src.Len() / 2
	c := copyMatrix(src.coeffs)
	for i := range c {
		top := 0.0
		for _, z := range c[i] {
			top = math.Max(top, cmplx.Abs(z))
		}
		if cmplx.Abs(c[i][mid]) > 1e3*core.MachineEps*top {
			return nil, fmt.Errorf("%w: column %d has mean %g", core.ErrNotPeriodic, i, real(c[i][mid]))
		}
		var c0 complex128
		for j, w := range waves {
			if w == 0 {
				continue
			}
			c[i][j] /= complex(0, math.Pi*float64(w))
			if w%2 == 0 {
				c0 -= c[i][j]
			} else {
				c0 += c[i][j]
			}
		}
		c[i][mid] = c0
	}
	return src.derived(c), nil
}

// Sum integrates each column over one period.
func (t *TrigTech) Sum() []float64 {
	out := make([]float64, len(t.coeffs))
	mid := t.Len() / 2
	for i, c := range t.coeffs {
		out[i] = 2 * real(c[mid])
	}
	return out
}

// Roots finds the roots of each column through a Chebyshev
// representation of the same function.
func (t *TrigTech) Roots() [][]float64 {
	c, err := t.ToChebyshev(core.DefaultPreferences())
	if err != nil {
		return make([][]float64, t.Columns())
	}
	return c.Roots()
}

// ToChebyshev resamples t on Chebyshev grids of growing size until the
// standard check resolves it.
func (t *TrigTech) ToChebyshev(p core.Preferences) (*ChebTech, error) {
	p = p.Normalize()
	p.Checker = nil
	p.SampleTest = false
	p.HappinessCheck = core.DefaultHappinessCheck

	var last *ChebTech
	for n := 17; n <= p.MaxLength; n = 2*n - 1 {
		x := transform.ChebPoints(n)
		vals := make([][]float64, t.Columns())
		for i := range vals {
			vals[i] = make([]float64, n)
		}
		for j, xj := range x {
			for i, v := range t.Feval(xj) {
				vals[i][j] = v
			}
		}
		last = NewChebFromValues(vals)
		v, err := happiness.Check(last, nil, nil, core.Data{}, p)
		if err != nil {
			return nil, err
		}
		if v.Happy {
			v.Happy = t.happy
			v.Epslevel = max(v.Epslevel, t.epslevel)
			return last.WithVerdict(v).(*ChebTech), nil
		}
	}
	return last, nil
}

// Scale multiplies every column by a.
func (t *TrigTech) Scale(a float64) Tech {
	c := copyMatrix(t.coeffs)
	v := copyMatrix(t.values)
	for i := range c {
		for j := range c[i] {
			c[i][j] *= complex(a, 0)
			v[i][j] *= a
		}
	}
	out := &TrigTech{base: newBase(v), coeffs: c}
	out.stamp(t.happy, t.epslevel)
	return out
}

// Plus adds o, which must be a TrigTech of the same width.
func (t *TrigTech) Plus(o Tech) (Tech, error) {
	u, err := t.compatible(o)
	if err != nil {
		return nil, err
	}
	n := max(t.Len(), u.Len())
	a, b := t.prolong(n), u.prolong(n)
	vals := make([][]float64, len(a.values))
	for i := range vals {
		vals[i] = make([]float64, n)
		for j := range vals[i] {
			vals[i][j] = a.values[i][j] + b.values[i][j]
		}
	}
	out := NewTrigFromValues(vals)
	out.stamp(t.happy && u.happy, max(t.epslevel, u.epslevel))
	return out, nil
}

// Times multiplies pointwise by o on a grid long enough to avoid aliasing.
func (t *TrigTech) Times(o Tech) (Tech, error) {
	u, err := t.compatible(o)
	if err != nil {
		return nil, err
	}
	n := t.Len() + u.Len() - 1
	if n%2 == 0 {
		n++
	}
	a, b := t.prolong(n), u.prolong(n)
	vals := make([][]float64, len(a.values))
	for i := range vals {
		vals[i] = make([]float64, n)
		for j := range vals[i] {
			vals[i][j] = a.values[i][j] * b.values[i][j]
		}
	}
	out := NewTrigFromValues(vals)
	out.stamp(t.happy && u.happy, max(t.epslevel, u.epslevel))
	return out, nil
}

func (t *TrigTech) compatible(o Tech) (*TrigTech, error) {
	u, ok := o.(*TrigTech)
	if !ok {
		return nil, fmt.Errorf("%w: cannot combine %v with %v", core.ErrKindMismatch, t.Kind(), o.Kind())
	}
	if u.Columns() != t.Columns() {
		return nil, fmt.Errorf("%w: %d columns against %d", core.ErrDimension, t.Columns(), u.Columns())
	}
	return u, nil
}

func toComplex(v []float64) []complex128 {
	out := make([]complex128, len(v))
	for i, x := range v {
		out[i] = complex(x, 0)
	}
	return out
}

func realParts(v []complex128) []float64 {
	out := make([]float64, len(v))
	for i, z := range v {
		out[i] = real(z)
	}
	return out
}
