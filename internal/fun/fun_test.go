package fun

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/chebgo/internal/construct"
	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/tech"
	"github.com/agbru/chebgo/internal/testutil"
)

func build(t *testing.T, op core.Op, domain []float64, mod func(p *core.Preferences)) *Function {
	t.Helper()
	p := core.DefaultPreferences()
	if mod != nil {
		mod(&p)
	}
	f, err := Build(context.Background(), op, domain, core.Data{}, p)
	require.NoError(t, err)
	return f
}

func TestBuildOnInterval(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(math.Exp), []float64{0, 2}, nil)

	require.True(t, f.Resolved())
	assert.Equal(t, []float64{0, 2}, f.Domain())
	assert.Equal(t, 1, f.NumPieces())
	assert.Equal(t, 2.0, f.Hscale())
	assert.InDelta(t, math.Exp(2), f.Vscale(), 1e-14)
	assert.InDelta(t, math.Exp(1.3), f.Feval(1.3)[0], 1e-13)
	assert.Equal(t, math.Exp(2), f.Feval(2)[0])
	assert.GreaterOrEqual(t, f.Epslevel(), core.MachineEps)
	assert.True(t, math.IsNaN(f.Feval(2.5)[0]))
	assert.True(t, math.IsNaN(f.Feval(-0.1)[0]))
}

func TestBuildAccuracyOnGrid(t *testing.T) {
	t.Parallel()
	runge := func(x float64) float64 { return 1 / (1 + 25*x*x) }
	tests := []struct {
		name   string
		op     core.Op
		domain []float64
	}{
		{"runge", core.Scalar(runge), []float64{-1, 1}},
		{"sin on two pieces", core.Scalar(math.Sin), []float64{0, 1, 3}},
		{"three columns", core.Columns(math.Sin, math.Cos, math.Exp), []float64{-1, 0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := build(t, tt.op, tt.domain, nil)
			require.True(t, f.Resolved())
			xs := testutil.Grid(tt.domain[0], tt.domain[len(tt.domain)-1], 201)
			assert.Less(t, testutil.MaxError(f.Feval, tt.op, xs), 1e-12)
		})
	}
}

func TestBuildUsesPreferenceDomain(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(math.Sin), nil, func(p *core.Preferences) { p.Domain = []float64{-3, 1} })
	assert.Equal(t, []float64{-3, 1}, f.Domain())
}

func TestBuildDomainErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		domain []float64
		kind   core.Kind
		want   error
	}{
		{"single point", []float64{1}, core.Chebyshev, core.ErrDomainShape},
		{"empty interval", []float64{0, 0}, core.Chebyshev, core.ErrDomainShape},
		{"decreasing", []float64{0, 2, 1}, core.Chebyshev, core.ErrDomainShape},
		{"NaN", []float64{0, math.NaN()}, core.Chebyshev, core.ErrDomainShape},
		{"unbounded", []float64{0, math.Inf(1)}, core.Chebyshev, core.ErrUnboundedDomain},
		{"fourier breakpoints", []float64{-1, 0, 1}, core.Fourier, core.ErrDomainShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := core.DefaultPreferences()
			p.Tech = tt.kind
			_, err := Build(context.Background(), core.Scalar(math.Cos), tt.domain, core.Data{}, p)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildPiecesConcurrently(t *testing.T) {
	t.Parallel()
	domain := []float64{-4, -3, -2, -1, 0, 1, 2, 3, 4}
	rec := &construct.RecordingObserver{}
	f, err := BuildWithObservers(context.Background(), construct.NewSubject(rec),
		core.Scalar(func(x float64) float64 { return math.Sin(3 * x) }), domain, core.Data{}, core.DefaultPreferences())
	require.NoError(t, err)

	assert.Equal(t, len(domain)-1, f.NumPieces())
	assert.True(t, f.Resolved())
	seen := map[int]bool{}
	for _, e := range rec.Events() {
		seen[e.Piece] = true
	}
	assert.Len(t, seen, len(domain)-1)
	for _, x := range []float64{-3.7, -0.2, 2, 3.9} {
		assert.InDelta(t, math.Sin(3*x), f.Feval(x)[0], 1e-13, "x=%g", x)
	}
}

func TestExtractColumns(t *testing.T) {
	t.Parallel()
	cols := []func(float64) float64{math.Sin, math.Cos, math.Exp}
	f := build(t, core.Columns(cols...), []float64{-1, 0, 1}, nil)
	require.Equal(t, 3, f.Columns())

	g, err := f.ExtractColumns([]int{2, 0})
	require.NoError(t, err)
	require.Equal(t, 2, g.Columns())
	assert.Equal(t, f.Domain(), g.Domain())
	for _, x := range []float64{-0.7, 0, 0.4, 1} {
		got := g.Feval(x)
		assert.InDelta(t, math.Exp(x), got[0], 1e-14, "x=%g", x)
		assert.InDelta(t, math.Sin(x), got[1], 1e-14, "x=%g", x)
	}
	for k, row := range g.PointValues() {
		assert.Equal(t, f.PointValues()[k][2], row[0])
		assert.Equal(t, f.PointValues()[k][0], row[1])
	}

	_, err = f.ExtractColumns([]int{3})
	require.ErrorIs(t, err, core.ErrDimension)
	_, err = f.ExtractColumns(nil)
	require.ErrorIs(t, err, core.ErrDimension)
}

func TestScales(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(func(x float64) float64 { return x }), []float64{-1, 0, 3}, nil)
	assert.Equal(t, 3.0, f.Vscale())
	assert.Equal(t, 3.0, f.Hscale())
	assert.Equal(t, 2, f.NumPieces())

	_, err := f.Coefficients(2)
	require.ErrorIs(t, err, core.ErrDimension)
	c, err := f.Coefficients(1)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.LessOrEqual(t, len(c[0]), 2)
}

func TestSplitting(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(math.Abs), nil, func(p *core.Preferences) { p.Splitting = true })
	require.True(t, f.Resolved())
	assert.Equal(t, []float64{-1, 0, 1}, f.Domain())
	assert.InDelta(t, 0.3, f.Feval(-0.3)[0], 1e-15)

	g := build(t, core.Scalar(math.Abs), nil, func(p *core.Preferences) { p.MaxLength = 257 })
	assert.False(t, g.Resolved())
	assert.Equal(t, 1, g.NumPieces())
}

func TestSplittingOffMidpoint(t *testing.T) {
	t.Parallel()
	kink := core.Scalar(func(x float64) float64 { return math.Abs(x - 0.3) })
	f := build(t, kink, nil, func(p *core.Preferences) { p.Splitting = true })
	require.True(t, f.Resolved())
	assert.Less(t, f.NumPieces(), 60)
	assert.InDelta(t, 1.3, f.Vscale(), 1e-14)
	for _, x := range []float64{-1, -0.4, 0.25, 0.3, 0.31, 0.9} {
		assert.InDelta(t, math.Abs(x-0.3), f.Feval(x)[0], 1e-13, "x=%g", x)
	}
}

func TestSplittingIsDeterministic(t *testing.T) {
	t.Parallel()
	op := core.Scalar(func(x float64) float64 { return math.Abs(math.Sin(7 * x)) })
	domain := []float64{-1, -0.5, 0, 0.5, 1}
	limit := func(p *core.Preferences) {
		p.Splitting = true
		p.SplitMaxLength = 400
	}
	want := build(t, op, domain, limit)
	for range 20 {
		got := build(t, op, domain, limit)
		require.Equal(t, want.Domain(), got.Domain())
		require.Equal(t, want.Length(), got.Length())
	}
}

func TestSumAndCumsum(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(math.Sin), []float64{0, math.Pi / 2, math.Pi}, nil)
	assert.InDelta(t, 2.0, f.Sum()[0], 1e-14)

	g := build(t, core.Scalar(math.Cos), []float64{-1, 0.5, 2}, nil)
	G, err := g.Cumsum()
	require.NoError(t, err)
	for _, x := range []float64{-1, 0.2, 0.5, 1.7, 2} {
		assert.InDelta(t, math.Sin(x)-math.Sin(-1), G.Feval(x)[0], 1e-13, "x=%g", x)
	}
}

func TestFourierCumsum(t *testing.T) {
	t.Parallel()
	fourier := func(p *core.Preferences) { p.Tech = core.Fourier }
	f := build(t, core.Scalar(func(x float64) float64 { return math.Cos(math.Pi * x) }), nil, fourier)
	F, err := f.Cumsum()
	require.NoError(t, err)
	assert.Equal(t, core.Fourier, F.Kind())
	assert.InDelta(t, math.Sin(0.3*math.Pi)/math.Pi, F.Feval(0.3)[0], 1e-14)

	g := build(t, core.Scalar(func(x float64) float64 { return 1 + math.Cos(math.Pi*x) }), nil, fourier)
	_, err = g.Cumsum()
	require.ErrorIs(t, err, core.ErrNotPeriodic)
}

func TestDiff(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(func(x float64) float64 { return math.Sin(2 * x) }), []float64{0, 1, 3}, nil)
	d := f.Diff(1)
	for _, x := range []float64{0.3, 1, 2.2} {
		assert.InDelta(t, 2*math.Cos(2*x), d.Feval(x)[0], 1e-11, "x=%g", x)
	}
	d2 := f.Diff(2)
	assert.InDelta(t, -4*math.Sin(2*2.2), d2.Feval(2.2)[0], 1e-9)
}

func TestRoots(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(func(x float64) float64 { return math.Sin(math.Pi * x) }), []float64{-2, 0.3, 2}, nil)
	roots := f.Roots()
	require.Len(t, roots, 1)
	require.Len(t, roots[0], 5, "roots %v", roots[0])
	for i, want := range []float64{-2, -1, 0, 1, 2} {
		assert.InDelta(t, want, roots[0][i], 1e-12)
	}
}

func TestGlobalExtrema(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(func(x float64) float64 { return x * math.Exp(-x*x) }), []float64{-2, 2}, nil)
	want := math.Sqrt(0.5) * math.Exp(-0.5)

	hi := f.GlobalMax()
	require.Len(t, hi, 1)
	assert.InDelta(t, math.Sqrt(0.5), hi[0].X, 1e-10)
	assert.InDelta(t, want, hi[0].Value, 1e-14)

	lo := f.GlobalMin()
	assert.InDelta(t, -math.Sqrt(0.5), lo[0].X, 1e-10)
	assert.InDelta(t, -want, lo[0].Value, 1e-14)
}

func TestLocalExtrema(t *testing.T) {
	t.Parallel()

	t.Run("smooth", func(t *testing.T) {
		t.Parallel()
		f := build(t, core.Scalar(func(x float64) float64 { return math.Cos(2 * math.Pi * x) }), nil, nil)
		assertLocations(t, []float64{-1, 0, 1}, f.LocalMaxima()[0])
		assertLocations(t, []float64{-0.5, 0.5}, f.LocalMinima()[0])
	})

	t.Run("breakpoint", func(t *testing.T) {
		t.Parallel()
		f := build(t, core.Scalar(math.Abs), []float64{-1, 0, 1}, nil)
		assertLocations(t, []float64{-1, 1}, f.LocalMaxima()[0])
		minima := f.LocalMinima()[0]
		assertLocations(t, []float64{0}, minima)
		assert.Equal(t, 0.0, minima[0].Value)
	})

	t.Run("monotone", func(t *testing.T) {
		t.Parallel()
		f := build(t, core.Scalar(math.Exp), nil, nil)
		assertLocations(t, []float64{1}, f.LocalMaxima()[0])
		assertLocations(t, []float64{-1}, f.LocalMinima()[0])
	})
}

func assertLocations(t *testing.T, want []float64, got []Extremum) {
	t.Helper()
	require.Len(t, got, len(want), "extrema %+v", got)
	for i := range want {
		assert.InDelta(t, want[i], got[i].X, 1e-10)
	}
}

func TestArithmetic(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(math.Sin), []float64{-1, 0, 1}, nil)
	g := build(t, core.Scalar(math.Cos), []float64{-1, 0.5, 1}, nil)

	sum, err := f.Plus(g)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 0.5, 1}, sum.Domain())
	prod, err := f.Times(g)
	require.NoError(t, err)
	diff, err := f.Minus(f)
	require.NoError(t, err)
	for _, x := range []float64{-0.8, 0, 0.3, 0.5, 0.9} {
		assert.InDelta(t, math.Sin(x)+math.Cos(x), sum.Feval(x)[0], 1e-14, "x=%g", x)
		assert.InDelta(t, math.Sin(x)*math.Cos(x), prod.Feval(x)[0], 1e-14, "x=%g", x)
		assert.InDelta(t, 0, diff.Feval(x)[0], 1e-15, "x=%g", x)
	}

	scaled := f.Scale(-2)
	assert.InDelta(t, -2*math.Sin(0.4), scaled.Feval(0.4)[0], 1e-14)
	assert.InDelta(t, 2*f.Vscale(), scaled.Vscale(), 1e-15)

	other := build(t, core.Scalar(math.Sin), []float64{-1, 2}, nil)
	_, err = f.Plus(other)
	require.ErrorIs(t, err, core.ErrDomainShape)

	trig := build(t, core.Scalar(math.Sin), nil, func(p *core.Preferences) { p.Tech = core.Fourier; p.MaxLength = 64 })
	_, err = f.Times(trig)
	require.ErrorIs(t, err, core.ErrKindMismatch)

	wide := build(t, core.Columns(math.Sin, math.Cos), []float64{-1, 1}, nil)
	_, err = f.Plus(wide)
	require.ErrorIs(t, err, core.ErrDimension)
}

func TestRestrict(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(math.Exp), []float64{-1, 0.2, 1}, nil)

	r, err := f.Restrict(0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.2, 0.5}, r.Domain())
	assert.InDelta(t, math.Exp(0.35), r.Feval(0.35)[0], 1e-14)
	assert.Equal(t, f.Feval(0.2), r.Feval(0.2))

	_, err = f.Restrict(0.5, 0)
	require.ErrorIs(t, err, core.ErrDomainShape)
	_, err = f.Restrict(-2, 0)
	require.ErrorIs(t, err, core.ErrDomainShape)

	periodic := build(t, core.Scalar(func(x float64) float64 { return math.Sin(math.Pi * x) }), nil,
		func(p *core.Preferences) { p.Tech = core.Fourier })
	pr, err := periodic.Restrict(-0.5, 0.25)
	require.NoError(t, err)
	assert.Equal(t, core.Chebyshev, pr.Kind())
	assert.InDelta(t, math.Sin(-0.1*math.Pi), pr.Feval(-0.1)[0], 1e-13)
}

func TestCompose(t *testing.T) {
	t.Parallel()
	f := build(t, core.Scalar(func(x float64) float64 { return x }), []float64{-1, 0, 1}, nil)
	g, err := f.Compose(context.Background(), func(v []float64) []float64 { return []float64{math.Exp(v[0])} }, core.DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, f.Domain(), g.Domain())
	assert.InDelta(t, math.Exp(-0.4), g.Feval(-0.4)[0], 1e-14)
	assert.Equal(t, 1.0, g.Feval(0)[0])
}

func TestNewValidatesPieces(t *testing.T) {
	t.Parallel()
	cheb := tech.NewChebFromCoeffs([][]float64{{1, 2}})
	trig := tech.NewTrigFromValues([][]float64{{1, 1, 1}})
	p := core.DefaultPreferences()

	_, err := New([]float64{0, 1, 2}, []tech.Tech{cheb}, p)
	require.ErrorIs(t, err, core.ErrDomainShape)
	_, err = New([]float64{0, 1, 2}, []tech.Tech{cheb, trig}, p)
	require.ErrorIs(t, err, core.ErrKindMismatch)
	_, err = New([]float64{0, 1, 2}, []tech.Tech{trig, trig}, p)
	require.ErrorIs(t, err, core.ErrDomainShape)

	f, err := New([]float64{0, 1, 2}, []tech.Tech{cheb, cheb.Scale(-1)}, p)
	require.NoError(t, err)
	// The jump at 1 is averaged: limits 3 and 1.
	assert.Equal(t, 2.0, f.Feval(1)[0])
	assert.Equal(t, -1.0, f.Feval(0)[0])
	assert.False(t, f.Resolved())
}
