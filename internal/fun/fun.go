// Package fun assembles spectral representations into piecewise functions
// on arbitrary finite domains.
//
// A Function holds an ordered set of breakpoints, one tech.Tech per
// interval between consecutive breakpoints (each living on the canonical
// interval [-1, 1]), and the function value at every breakpoint. All
// operations return new Functions.
package fun

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/chebgo/internal/construct"
	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/tech"
)

// Function is a piecewise spectral representation of an array-valued
// function of one variable.
type Function struct {
	kind   core.Kind
	breaks []float64
	pieces []tech.Tech
	// points[k] holds the value of every column at breaks[k].
	points [][]float64
	prefs  core.Preferences
}

// New assembles a Function from one representation per interval of
// domain. The breakpoint values are taken as the average of the one-sided
// limits.
func New(domain []float64, pieces []tech.Tech, p core.Preferences) (*Function, error) {
	if err := core.ValidateDomain(domain); err != nil {
		return nil, err
	}
	if len(pieces) != len(domain)-1 {
		return nil, fmt.Errorf("%w: %d pieces for %d intervals", core.ErrDomainShape, len(pieces), len(domain)-1)
	}
	for i, t := range pieces {
		if t == nil || t.Len() == 0 {
			return nil, fmt.Errorf("%w: piece %d", core.ErrEmpty, i)
		}
		if t.Kind() != pieces[0].Kind() {
			return nil, fmt.Errorf("%w: piece %d is %v, piece 0 is %v", core.ErrKindMismatch, i, t.Kind(), pieces[0].Kind())
		}
		if t.Columns() != pieces[0].Columns() {
			return nil, fmt.Errorf("%w: piece %d has %d columns, piece 0 has %d", core.ErrDimension, i, t.Columns(), pieces[0].Columns())
		}
	}
	kind := pieces[0].Kind()
	if kind == core.Fourier && len(pieces) > 1 {
		return nil, fmt.Errorf("%w: a Fourier representation needs a single interval", core.ErrDomainShape)
	}
	f := &Function{
		kind:   kind,
		breaks: append([]float64(nil), domain...),
		pieces: append([]tech.Tech(nil), pieces...),
		prefs:  p.Normalize(),
	}
	f.points = f.limitValues()
	return f, nil
}

// Build constructs op on domain. See BuildWithObservers.
func Build(ctx context.Context, op core.Op, domain []float64, data core.Data, p core.Preferences) (*Function, error) {
	return BuildWithObservers(ctx, nil, op, domain, data, p)
}

// BuildWithObservers constructs op on every interval of domain
// concurrently, reporting attempts to subject tagged with the interval
// index. A nil domain means p.Domain.
//
// With p.Splitting set, an interval that does not resolve within
// p.SplitLength points is bisected until its halves resolve, the interval
// becomes negligible, or the length of its pieces exceeds
// p.SplitMaxLength. Halves are built left before right, so the result does
// not depend on scheduling. Splitting is ignored for the Fourier basis,
// which needs a single interval.
//
// When data.Vscale is zero and the function has several pieces, it is
// seeded from a coarse sample of op over the whole domain, so every piece
// is judged against the global vertical scale.
//
// The breakpoint values are evaluated from op; non-finite values are
// replaced by the average of the one-sided limits.
func BuildWithObservers(ctx context.Context, subject *construct.Subject, op core.Op, domain []float64, data core.Data, p core.Preferences) (*Function, error) {
	p = p.Normalize()
	if domain == nil {
		domain = p.Domain
	}
	if err := core.ValidateDomain(domain); err != nil {
		return nil, err
	}
	p.Domain = append([]float64(nil), domain...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: nil operator", core.ErrEmpty)
	}
	if p.Tech == core.Fourier && len(domain) > 2 {
		return nil, fmt.Errorf("%w: a Fourier representation needs a single interval", core.ErrDomainShape)
	}

	ctx, span := otel.Tracer("fun").Start(ctx, "Build")
	defer span.End()
	span.SetAttributes(
		attribute.String("tech", p.Tech.String()),
		attribute.Float64Slice("domain", domain),
	)

	if data.Hscale == 0 {
		data.Hscale = hscale(domain)
	}
	split := p.Splitting && p.Tech == core.Chebyshev
	if data.Vscale == 0 && (split || len(domain) > 2) {
		data.Vscale = coarseVscale(op, domain)
	}
	b := &builder{op: op, p: p, split: split, subject: subject}

	parts := make([][]piece, len(domain)-1)
	g, gctx := errgroup.WithContext(ctx)
	for i := range parts {
		g.Go(func() error {
			budget := p.SplitMaxLength
			ps, err := b.interval(gctx, i, domain[i], domain[i+1], data, &budget)
			if err != nil {
				return fmt.Errorf("interval [%g, %g]: %w", domain[i], domain[i+1], err)
			}
			parts[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breaks := []float64{domain[0]}
	var pieces []tech.Tech
	for _, ps := range parts {
		for _, pc := range ps {
			pieces = append(pieces, pc.t)
			breaks = append(breaks, pc.hi)
		}
	}
	f, err := New(breaks, pieces, p)
	if err != nil {
		return nil, err
	}
	if err := f.samplePoints(op); err != nil {
		return nil, err
	}
	if !f.Resolved() {
		zerolog.Ctx(ctx).Warn().
			Floats64("domain", domain).
			Int("pieces", len(pieces)).
			Msg("function is not resolved")
	}
	return f, nil
}

type piece struct {
	lo, hi float64
	t      tech.Tech
}

// builder carries the state shared by the constructions of one Build.
type builder struct {
	op      core.Op
	p       core.Preferences
	split   bool
	subject *construct.Subject
}

// interval builds op on [lo, hi], bisecting while splitting is enabled.
// budget is the length still available to the pieces of the enclosing
// domain interval; it is only touched by one goroutine.
func (b *builder) interval(ctx context.Context, idx int, lo, hi float64, data core.Data, budget *int) ([]piece, error) {
	p := b.p
	if b.split {
		p.MaxLength = max(min(p.SplitLength, p.MaxLength), p.MinSamples)
	}
	res, err := construct.BuildWithObservers(ctx, b.subject, idx, mapOp(b.op, lo, hi), data, p)
	if err != nil {
		return nil, err
	}
	n := res.Tech.Len()
	if res.Resolved || !b.split || hi-lo < 4*p.Eps*data.Hscale || n > *budget {
		*budget -= n
		return []piece{{lo: lo, hi: hi, t: res.Tech}}, nil
	}

	data.Vscale = math.Max(data.Vscale, res.Tech.Vscale())
	mid := lo + (hi-lo)/2
	left, err := b.interval(ctx, idx, lo, mid, data, budget)
	if err != nil {
		return nil, err
	}
	right, err := b.interval(ctx, idx, mid, hi, data, budget)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// coarseSamples is the number of Chebyshev points per interval used to
// estimate the vertical scale before construction.
const coarseSamples = 17

// coarseVscale returns the largest finite magnitude of op on a coarse
// Chebyshev grid of every interval of domain.
func coarseVscale(op core.Op, domain []float64) float64 {
	x := tech.Points(core.Chebyshev, coarseSamples)
	v := 0.0
	for i := 0; i+1 < len(domain); i++ {
		for _, xj := range x {
			for _, y := range op(toGlobal(xj, domain[i], domain[i+1])) {
				if !math.IsNaN(y) && !math.IsInf(y, 0) {
					v = math.Max(v, math.Abs(y))
				}
			}
		}
	}
	return v
}

// mapOp restricts op to [lo, hi] expressed on [-1, 1].
func mapOp(op core.Op, lo, hi float64) core.Op {
	return func(x float64) []float64 { return op(toGlobal(x, lo, hi)) }
}

// toGlobal maps x in [-1, 1] to [lo, hi], hitting both ends exactly.
func toGlobal(x, lo, hi float64) float64 {
	switch x {
	case -1:
		return lo
	case 1:
		return hi
	}
	return 0.5*(hi-lo)*x + 0.5*(hi+lo)
}

// toLocal is the inverse of toGlobal, clamped to [-1, 1].
func toLocal(y, lo, hi float64) float64 {
	switch y {
	case lo:
		return -1
	case hi:
		return 1
	}
	return math.Max(-1, math.Min(1, (2*y-lo-hi)/(hi-lo)))
}

func hscale(domain []float64) float64 {
	h := 0.0
	for _, x := range domain {
		h = math.Max(h, math.Abs(x))
	}
	return h
}

// ─────────────────────────────────────────────────────────────────────────────
// Breakpoint values
// ─────────────────────────────────────────────────────────────────────────────

// limitValues returns the breakpoint values implied by the pieces: the
// one-sided limit at the domain ends and the average of both limits
// inside.
func (f *Function) limitValues() [][]float64 {
	out := make([][]float64, len(f.breaks))
	for k := range f.breaks {
		left, right := f.limits(k)
		switch {
		case left == nil:
			out[k] = right
		case right == nil:
			out[k] = left
		default:
			out[k] = make([]float64, len(left))
			for c := range left {
				out[k][c] = 0.5 * (left[c] + right[c])
			}
		}
	}
	return out
}

// limits returns the values of the pieces on either side of breaks[k], nil
// where there is no piece.
func (f *Function) limits(k int) (left, right []float64) {
	if k > 0 {
		left = f.pieces[k-1].Feval(1)
	}
	if k < len(f.pieces) {
		right = f.pieces[k].Feval(-1)
	}
	return left, right
}

// samplePoints replaces the breakpoint values by values of op, keeping the
// limit values where op is not finite.
func (f *Function) samplePoints(op core.Op) error {
	for k, x := range f.breaks {
		y := op(x)
		if len(y) != f.Columns() {
			return fmt.Errorf("%w: operator returned %d values at %g, want %d", core.ErrDimension, len(y), x, f.Columns())
		}
		for c, v := range y {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				f.points[k][c] = v
			}
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// Kind returns the basis of the pieces.
func (f *Function) Kind() core.Kind { return f.kind }

// Domain returns a copy of the breakpoints.
func (f *Function) Domain() []float64 { return append([]float64(nil), f.breaks...) }

// NumPieces returns the number of intervals.
func (f *Function) NumPieces() int { return len(f.pieces) }

// Piece returns the representation on interval i, on [-1, 1].
func (f *Function) Piece(i int) (tech.Tech, error) {
	if i < 0 || i >= len(f.pieces) {
		return nil, fmt.Errorf("%w: piece %d out of range [0, %d)", core.ErrDimension, i, len(f.pieces))
	}
	return f.pieces[i], nil
}

// Columns returns the number of output components.
func (f *Function) Columns() int { return f.pieces[0].Columns() }

// PointValues returns a copy of the breakpoint value table, one row per
// breakpoint.
func (f *Function) PointValues() [][]float64 {
	out := make([][]float64, len(f.points))
	for k, row := range f.points {
		out[k] = append([]float64(nil), row...)
	}
	return out
}

// Coefficients returns the coefficients of piece i, one slice per column.
func (f *Function) Coefficients(i int) ([][]complex128, error) {
	t, err := f.Piece(i)
	if err != nil {
		return nil, err
	}
	return t.Coefficients(), nil
}

// Vscale returns the largest vertical scale of the pieces.
func (f *Function) Vscale() float64 {
	v := 0.0
	for _, t := range f.pieces {
		v = math.Max(v, t.Vscale())
	}
	return v
}

// Hscale returns the largest absolute breakpoint.
func (f *Function) Hscale() float64 { return hscale(f.breaks) }

// Epslevel returns the worst epslevel of the pieces.
func (f *Function) Epslevel() float64 {
	e := 0.0
	for _, t := range f.pieces {
		e = math.Max(e, t.Epslevel())
	}
	return e
}

// Resolved reports whether every piece is happy.
func (f *Function) Resolved() bool {
	for _, t := range f.pieces {
		if !t.IsHappy() {
			return false
		}
	}
	return true
}

// Length returns the total number of coefficients per column.
func (f *Function) Length() int {
	n := 0
	for _, t := range f.pieces {
		n += t.Len()
	}
	return n
}

// Feval evaluates every column at x. Breakpoints return their stored
// values; points outside the domain return NaN.
func (f *Function) Feval(x float64) []float64 {
	last := len(f.breaks) - 1
	if math.IsNaN(x) || x < f.breaks[0] || x > f.breaks[last] {
		out := make([]float64, f.Columns())
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	k := sort.SearchFloat64s(f.breaks, x)
	if f.breaks[k] == x {
		return append([]float64(nil), f.points[k]...)
	}
	lo, hi := f.breaks[k-1], f.breaks[k]
	return f.pieces[k-1].Feval(toLocal(x, lo, hi))
}

// ExtractColumns returns the function made of the selected columns, in the
// given order, applied identically to every piece and to the breakpoint
// values. Indices are zero based.
func (f *Function) ExtractColumns(idx []int) (*Function, error) {
	pieces := make([]tech.Tech, len(f.pieces))
	for i, t := range f.pieces {
		e, err := t.Extract(idx)
		if err != nil {
			return nil, err
		}
		pieces[i] = e
	}
	points := make([][]float64, len(f.points))
	for k, row := range f.points {
		points[k] = make([]float64, len(idx))
		for i, j := range idx {
			points[k][i] = row[j]
		}
	}
	return f.derive(f.breaks, pieces, points), nil
}

// derive builds a Function sharing f's basis and preferences. A nil points
// table is recomputed from the pieces.
func (f *Function) derive(breaks []float64, pieces []tech.Tech, points [][]float64) *Function {
	g := &Function{
		kind:   pieces[0].Kind(),
		breaks: append([]float64(nil), breaks...),
		pieces: pieces,
		prefs:  f.prefs,
	}
	if points == nil {
		points = g.limitValues()
	}
	g.points = points
	return g
}
