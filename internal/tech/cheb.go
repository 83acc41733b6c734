package tech

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/transform"
)

// ChebTech represents a function on [-1, 1] by its values at Chebyshev
// points of the second kind and the matching Chebyshev coefficients.
type ChebTech struct {
	base
	coeffs [][]float64
}

var _ Tech = (*ChebTech)(nil)

// NewChebFromValues builds a ChebTech from samples at ChebPoints(n), one
// slice per column. The slices are copied.
func NewChebFromValues(values [][]float64) *ChebTech {
	vals := copyMatrix(values)
	coeffs := make([][]float64, len(vals))
	for i, v := range vals {
		coeffs[i] = transform.ChebVals2Coeffs(v)
	}
	return &ChebTech{base: newBase(vals), coeffs: coeffs}
}

// NewChebFromCoeffs builds a ChebTech from Chebyshev coefficients, lowest
// degree first, one slice per column.
func NewChebFromCoeffs(coeffs [][]float64) *ChebTech {
	c := copyMatrix(coeffs)
	vals := make([][]float64, len(c))
	for i, col := range c {
		vals[i] = transform.ChebCoeffs2Vals(col)
	}
	return &ChebTech{base: newBase(vals), coeffs: c}
}

func (t *ChebTech) derived(coeffs [][]float64) *ChebTech {
	out := NewChebFromCoeffs(coeffs)
	out.stamp(t.happy, t.epslevel)
	return out
}

// Kind returns core.Chebyshev.
func (t *ChebTech) Kind() core.Kind { return core.Chebyshev }

// Coeffs returns a copy of the Chebyshev coefficients.
func (t *ChebTech) Coeffs() [][]float64 { return copyMatrix(t.coeffs) }

// Coefficients returns the coefficients as complex numbers with zero
// imaginary part.
func (t *ChebTech) Coefficients() [][]complex128 {
	out := make([][]complex128, len(t.coeffs))
	for i, col := range t.coeffs {
		out[i] = make([]complex128, len(col))
		for k, c := range col {
			out[i][k] = complex(c, 0)
		}
	}
	return out
}

// Feval evaluates every column at x with the Clenshaw recurrence.
func (t *ChebTech) Feval(x float64) []float64 {
	out := make([]float64, len(t.coeffs))
	for i, c := range t.coeffs {
		out[i] = transform.Clenshaw(c, x)
	}
	return out
}

// WithVerdict truncates to v.Cutoff and records the verdict.
func (t *ChebTech) WithVerdict(v core.Verdict) Tech {
	n := t.Len()
	if v.Cutoff > 0 && v.Cutoff < n {
		n = v.Cutoff
	}
	out := t.prolong(n)
	out.stamp(v.Happy, v.Epslevel)
	return out
}

// Prolong pads with zero coefficients or truncates to n.
func (t *ChebTech) Prolong(n int) Tech { return t.prolong(n) }

func (t *ChebTech) prolong(n int) *ChebTech {
	n = max(n, 1)
	if n == t.Len() {
		out := &ChebTech{base: t.base, coeffs: copyMatrix(t.coeffs)}
		out.values = copyMatrix(t.values)
		out.vscales = append([]float64(nil), t.vscales...)
		return out
	}
	c := make([][]float64, len(t.coeffs))
	for i, col := range t.coeffs {
		c[i] = make([]float64, n)
		copy(c[i], col)
	}
	return t.derived(c)
}

// Simplify chops trailing coefficients below the noise floor using the
// strategy named in p.
func (t *ChebTech) Simplify(p core.Preferences) (Tech, error) { return simplify(t, p) }

// Extract returns the selected columns.
func (t *ChebTech) Extract(cols []int) (Tech, error) {
	c, err := extractColumns(t.coeffs, cols)
	if err != nil {
		return nil, err
	}
	return t.derived(c), nil
}

// Diff returns the k-th derivative. Each differentiation shortens the
// representation by one coefficient.
func (t *ChebTech) Diff(k int) Tech {
	c := copyMatrix(t.coeffs)
	for range k {
		for i := range c {
			c[i] = chebDiff(c[i])
		}
	}
	return t.derived(c)
}

// chebDiff differentiates a Chebyshev series.
func chebDiff(c []float64) []float64 {
	n := len(c)
	if n <= 1 {
		return []float64{0}
	}
	d := make([]float64, n+1)
	for k := n - 1; k >= 1; k-- {
		d[k-1] = d[k+1] + 2*float64(k)*c[k]
	}
	d[0] /= 2
	return d[:n-1]
}

// Cumsum returns the indefinite integral vanishing at -1. The result has
// one more coefficient than t.
func (t *ChebTech) Cumsum() (Tech, error) {
	c := make([][]float64, len(t.coeffs))
	for i, col := range t.coeffs {
		c[i] = chebCumsum(col)
	}
	return t.derived(c), nil
}

func chebCumsum(c []float64) []float64 {
	n := len(c)
	ext := make([]float64, n+2)
	copy(ext, c)

	b := make([]float64, n+1)
	b[1] = ext[0] - ext[2]/2
	for k := 2; k <= n; k++ {
		b[k] = (ext[k-1] - ext[k+1]) / (2 * float64(k))
	}
	sign := 1.0
	for k := 1; k <= n; k++ {
		b[0] += sign * b[k]
		sign = -sign
	}
	return b
}

// Sum integrates each column over [-1, 1].
func (t *ChebTech) Sum() []float64 {
	out := make([]float64, len(t.coeffs))
	for i, col := range t.coeffs {
		out[i] = chebSum(col)
	}
	return out
}

func chebSum(c []float64) float64 {
	s := 0.0
	for k := 0; k < len(c); k += 2 {
		s += 2 * c[k] / float64(1-k*k)
	}
	return s
}

// Roots returns the real roots of each column in [-1, 1].
func (t *ChebTech) Roots() [][]float64 {
	out := make([][]float64, len(t.coeffs))
	for i, col := range t.coeffs {
		out[i] = chebRoots(col)
	}
	return out
}

// Scale multiplies every column by a.
func (t *ChebTech) Scale(a float64) Tech {
	c := copyMatrix(t.coeffs)
	v := copyMatrix(t.values)
	for i := range c {
		floats.Scale(a, c[i])
		floats.Scale(a, v[i])
	}
	out := &ChebTech{base: newBase(v), coeffs: c}
	out.stamp(t.happy, t.epslevel)
	return out
}

// Plus adds o, which must be a ChebTech of the same width.
func (t *ChebTech) Plus(o Tech) (Tech, error) {
	u, err := t.compatible(o)
	if err != nil {
		return nil, err
	}
	n := max(t.Len(), u.Len())
	c := make([][]float64, len(t.coeffs))
	for i := range c {
		c[i] = make([]float64, n)
		copy(c[i], t.coeffs[i])
		floats.Add(c[i][:u.Len()], u.coeffs[i])
	}
	out := NewChebFromCoeffs(c)
	out.stamp(t.happy && u.happy, max(t.epslevel, u.epslevel))
	return out, nil
}

// Times multiplies pointwise by o on a grid long enough to hold the
// product exactly.
func (t *ChebTech) Times(o Tech) (Tech, error) {
	u, err := t.compatible(o)
	if err != nil {
		return nil, err
	}
	n := t.Len() + u.Len() - 1
	a, b := t.prolong(n), u.prolong(n)
	vals := make([][]float64, len(a.values))
	for i := range vals {
		vals[i] = make([]float64, n)
		floats.MulTo(vals[i], a.values[i], b.values[i])
	}
	out := NewChebFromValues(vals)
	out.stamp(t.happy && u.happy, max(t.epslevel, u.epslevel))
	return out, nil
}

func (t *ChebTech) compatible(o Tech) (*ChebTech, error) {
	u, ok := o.(*ChebTech)
	if !ok {
		return nil, fmt.Errorf("%w: cannot combine %v with %v", core.ErrKindMismatch, t.Kind(), o.Kind())
	}
	if u.Columns() != t.Columns() {
		return nil, fmt.Errorf("%w: %d columns against %d", core.ErrDimension, t.Columns(), u.Columns())
	}
	return u, nil
}

// Restrict returns the representation of t on the subinterval [a, b] of
// [-1, 1], rescaled to [-1, 1] and simplified.
func (t *ChebTech) Restrict(a, b float64, p core.Preferences) (*ChebTech, error) {
	if !(a < b) || a < -1 || b > 1 {
		return nil, fmt.Errorf("%w: [%g, %g] is not inside [-1, 1]", core.ErrDomainShape, a, b)
	}
	n := t.Len()
	x := transform.ChebPoints(n)
	vals := make([][]float64, len(t.coeffs))
	for i, c := range t.coeffs {
		vals[i] = make([]float64, n)
		for j, xj := range x {
			vals[i][j] = transform.Clenshaw(c, 0.5*(b-a)*xj+0.5*(a+b))
		}
	}
	out := NewChebFromValues(vals)
	out.stamp(t.happy, t.epslevel)
	s, err := out.Simplify(p)
	if err != nil {
		return nil, err
	}
	return s.(*ChebTech), nil
}
