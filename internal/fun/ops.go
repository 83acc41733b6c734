package fun

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/chebgo/internal/construct"
	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/tech"
)

// ─────────────────────────────────────────────────────────────────────────────
// Calculus
// ─────────────────────────────────────────────────────────────────────────────

// Sum returns the definite integral of every column over the domain.
func (f *Function) Sum() []float64 {
	out := make([]float64, f.Columns())
	for i, t := range f.pieces {
		h := 0.5 * (f.breaks[i+1] - f.breaks[i])
		for c, s := range t.Sum() {
			out[c] += h * s
		}
	}
	return out
}

// Diff returns the k-th derivative. Breakpoint values are the averages of
// the one-sided limits of the derivative.
func (f *Function) Diff(k int) *Function {
	pieces := make([]tech.Tech, len(f.pieces))
	for i, t := range f.pieces {
		pieces[i] = t.Diff(k).Scale(math.Pow(2/(f.breaks[i+1]-f.breaks[i]), float64(k)))
	}
	return f.derive(f.breaks, pieces, nil)
}

// Cumsum returns the indefinite integral vanishing at the left end of the
// domain. A Fourier function must have zero mean, otherwise
// core.ErrNotPeriodic is returned.
func (f *Function) Cumsum() (*Function, error) {
	pieces := make([]tech.Tech, len(f.pieces))
	offset := make([]float64, f.Columns())
	for i, t := range f.pieces {
		c, err := t.Cumsum()
		if err != nil {
			return nil, err
		}
		c = c.Scale(0.5 * (f.breaks[i+1] - f.breaks[i]))
		if c, err = addConstants(c, offset); err != nil {
			return nil, err
		}
		pieces[i] = c
		copy(offset, c.Feval(1))
	}
	return f.derive(f.breaks, pieces, nil), nil
}

// addConstants adds cs[i] to column i of t.
func addConstants(t tech.Tech, cs []float64) (tech.Tech, error) {
	vals := make([][]float64, len(cs))
	nonzero := false
	for i, c := range cs {
		vals[i] = []float64{c}
		nonzero = nonzero || c != 0
	}
	if !nonzero {
		return t, nil
	}
	k, err := tech.FromValues(t.Kind(), vals)
	if err != nil {
		return nil, err
	}
	return t.Plus(k.WithVerdict(core.Verdict{Happy: true, Cutoff: 1}))
}

// Roots returns the sorted roots of every column. Breakpoints where the
// stored value vanishes are included.
func (f *Function) Roots() [][]float64 {
	out := make([][]float64, f.Columns())
	tol := f.rootTol()
	for i, t := range f.pieces {
		lo, hi := f.breaks[i], f.breaks[i+1]
		for c, rs := range t.Roots() {
			for _, r := range rs {
				out[c] = append(out[c], toGlobal(r, lo, hi))
			}
		}
	}
	vscales := f.columnVscales()
	for k, x := range f.breaks {
		for c, v := range f.points[k] {
			if math.Abs(v) <= 100*core.MachineEps*vscales[c] {
				out[c] = append(out[c], x)
			}
		}
	}
	for c := range out {
		sort.Float64s(out[c])
		out[c] = merge(out[c], tol)
	}
	return out
}

func (f *Function) rootTol() float64 { return 1e3 * core.MachineEps * f.Hscale() }

func (f *Function) columnVscales() []float64 {
	out := make([]float64, f.Columns())
	for _, t := range f.pieces {
		for c, v := range t.ColumnVscales() {
			out[c] = math.Max(out[c], v)
		}
	}
	return out
}

// merge drops entries of a sorted slice closer than tol to their
// predecessor.
func merge(x []float64, tol float64) []float64 {
	if len(x) == 0 {
		return x
	}
	out := x[:1]
	for _, v := range x[1:] {
		if v-out[len(out)-1] > tol {
			out = append(out, v)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Arithmetic
// ─────────────────────────────────────────────────────────────────────────────

// Scale multiplies every column by a.
func (f *Function) Scale(a float64) *Function {
	pieces := make([]tech.Tech, len(f.pieces))
	for i, t := range f.pieces {
		pieces[i] = t.Scale(a)
	}
	points := f.PointValues()
	for _, row := range points {
		for c := range row {
			row[c] *= a
		}
	}
	return f.derive(f.breaks, pieces, points)
}

// Plus returns f + g. Both functions must share the basis, the number of
// columns and the domain end points; the result is defined on the union of
// their breakpoints.
func (f *Function) Plus(g *Function) (*Function, error) {
	return f.combine(g, tech.Tech.Plus, func(a, b float64) float64 { return a + b })
}

// Minus returns f - g.
func (f *Function) Minus(g *Function) (*Function, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil operand", core.ErrEmpty)
	}
	return f.Plus(g.Scale(-1))
}

// Times returns the pointwise product f * g.
func (f *Function) Times(g *Function) (*Function, error) {
	return f.combine(g, tech.Tech.Times, func(a, b float64) float64 { return a * b })
}

func (f *Function) combine(g *Function, op func(a, b tech.Tech) (tech.Tech, error), point func(a, b float64) float64) (*Function, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil operand", core.ErrEmpty)
	}
	if f.kind != g.kind {
		return nil, fmt.Errorf("%w: %v and %v", core.ErrKindMismatch, f.kind, g.kind)
	}
	if f.Columns() != g.Columns() {
		return nil, fmt.Errorf("%w: %d columns against %d", core.ErrDimension, f.Columns(), g.Columns())
	}
	tol := 4 * core.MachineEps * math.Max(f.Hscale(), g.Hscale())
	fa, fb := f.breaks[0], f.breaks[len(f.breaks)-1]
	ga, gb := g.breaks[0], g.breaks[len(g.breaks)-1]
	if math.Abs(fa-ga) > tol || math.Abs(fb-gb) > tol {
		return nil, fmt.Errorf("%w: domains [%g, %g] and [%g, %g] differ", core.ErrDomainShape, fa, fb, ga, gb)
	}

	all := append(append([]float64(nil), f.breaks...), g.breaks[1:len(g.breaks)-1]...)
	sort.Float64s(all)
	breaks := merge(all, tol)

	pieces := make([]tech.Tech, len(breaks)-1)
	for i := range pieces {
		lo, hi := breaks[i], breaks[i+1]
		a, err := f.pieceOn(lo, hi)
		if err != nil {
			return nil, err
		}
		b, err := g.pieceOn(lo, hi)
		if err != nil {
			return nil, err
		}
		r, err := op(a, b)
		if err != nil {
			return nil, err
		}
		if r, err = r.Simplify(f.prefs); err != nil {
			return nil, err
		}
		pieces[i] = r
	}

	points := make([][]float64, len(breaks))
	for k, x := range breaks {
		a, b := f.Feval(x), g.Feval(x)
		points[k] = make([]float64, len(a))
		for c := range a {
			points[k][c] = point(a[c], b[c])
		}
	}
	return f.derive(breaks, pieces, points), nil
}

// pieceOn returns the representation of f on [lo, hi], which must lie
// inside a single piece. Fourier pieces are converted to Chebyshev when
// the interval is a proper subinterval.
func (f *Function) pieceOn(lo, hi float64) (tech.Tech, error) {
	lo = math.Max(lo, f.breaks[0])
	hi = math.Min(hi, f.breaks[len(f.breaks)-1])
	i := sort.SearchFloat64s(f.breaks, hi)
	if i == len(f.breaks) || i == 0 {
		return nil, fmt.Errorf("%w: [%g, %g] is outside the domain", core.ErrDomainShape, lo, hi)
	}
	i--
	a, b := f.breaks[i], f.breaks[i+1]
	t := f.pieces[i]
	if lo == a && hi == b {
		return t, nil
	}
	if a-lo > 4*core.MachineEps*f.Hscale() {
		return nil, fmt.Errorf("%w: [%g, %g] crosses breakpoint %g", core.ErrDomainShape, lo, hi, a)
	}
	var cheb *tech.ChebTech
	switch v := t.(type) {
	case *tech.ChebTech:
		cheb = v
	case *tech.TrigTech:
		c, err := v.ToChebyshev(f.prefs)
		if err != nil {
			return nil, err
		}
		cheb = c
	default:
		return nil, fmt.Errorf("%w: cannot restrict %T", core.ErrKindMismatch, t)
	}
	r, err := cheb.Restrict(toLocal(lo, a, b), toLocal(hi, a, b), f.prefs)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Restrict returns f on [a, b], which must lie inside the domain. A
// Fourier function restricted to a proper subinterval becomes a Chebyshev
// function.
func (f *Function) Restrict(a, b float64) (*Function, error) {
	lo, hi := f.breaks[0], f.breaks[len(f.breaks)-1]
	if !(a < b) || a < lo || b > hi {
		return nil, fmt.Errorf("%w: [%g, %g] is not inside [%g, %g]", core.ErrDomainShape, a, b, lo, hi)
	}
	tol := 4 * core.MachineEps * f.Hscale()
	breaks := []float64{a}
	for _, x := range f.breaks {
		if x > a+tol && x < b-tol {
			breaks = append(breaks, x)
		}
	}
	breaks = append(breaks, b)

	pieces := make([]tech.Tech, len(breaks)-1)
	for i := range pieces {
		t, err := f.pieceOn(breaks[i], breaks[i+1])
		if err != nil {
			return nil, err
		}
		pieces[i] = t
	}
	points := make([][]float64, len(breaks))
	for k, x := range breaks {
		points[k] = f.Feval(x)
	}
	return f.derive(breaks, pieces, points), nil
}

// Compose constructs g∘f adaptively on every piece, concurrently. g
// receives the values of all columns of f at a point.
func (f *Function) Compose(ctx context.Context, g func(v []float64) []float64, p core.Preferences) (*Function, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil function", core.ErrEmpty)
	}
	pieces := make([]tech.Tech, len(f.pieces))
	eg, gctx := errgroup.WithContext(ctx)
	for i, t := range f.pieces {
		eg.Go(func() error {
			res, err := construct.Compose(gctx, t, g, p)
			if err != nil {
				return err
			}
			pieces[i] = res.Tech
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	points := make([][]float64, len(f.points))
	for k, row := range f.points {
		points[k] = g(row)
		if len(points[k]) != pieces[0].Columns() {
			return nil, fmt.Errorf("%w: composed function returned %d values, want %d", core.ErrDimension, len(points[k]), pieces[0].Columns())
		}
	}
	return f.derive(f.breaks, pieces, points), nil
}
