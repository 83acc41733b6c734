package tech

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/agbru/chebgo/internal/core"
)

func sample(kind core.Kind, n int, fs ...func(float64) float64) Tech {
	x := Points(kind, n)
	vals := make([][]float64, len(fs))
	for i, f := range fs {
		vals[i] = make([]float64, n)
		for j, xj := range x {
			vals[i][j] = f(xj)
		}
	}
	t, err := FromValues(kind, vals)
	if err != nil {
		panic(err)
	}
	return t
}

// resolved samples and chops the noise tail, so that derivatives do not
// amplify rounding in the discarded coefficients.
func resolved(kind core.Kind, n int, fs ...func(float64) float64) Tech {
	t, err := sample(kind, n, fs...).Simplify(core.DefaultPreferences())
	if err != nil {
		panic(err)
	}
	return t
}

func approx(tol float64) cmp.Option { return cmpopts.EquateApprox(0, tol) }

// ─────────────────────────────────────────────────────────────────────────────
// Chebyshev
// ─────────────────────────────────────────────────────────────────────────────

func TestChebFevalAndCoefficients(t *testing.T) {
	t.Parallel()
	cube := func(x float64) float64 { return x * x * x }
	c := sample(core.Chebyshev, 4, cube).(*ChebTech)

	// x^3 = (3 T_1 + T_3) / 4
	if got := c.Coeffs()[0]; !cmp.Equal(got, []float64{0, 0.75, 0, 0.25}, approx(1e-15)) {
		t.Fatalf("coeffs = %v", got)
	}
	if got := c.Feval(0.3)[0]; math.Abs(got-0.027) > 1e-15 {
		t.Fatalf("Feval(0.3) = %v", got)
	}
	if got := c.Coefficients()[0]; len(got) != 4 || imag(got[1]) != 0 {
		t.Fatalf("Coefficients() = %v", got)
	}
}

func TestChebCalculus(t *testing.T) {
	t.Parallel()
	e := sample(core.Chebyshev, 33, math.Exp)

	t.Run("sum", func(t *testing.T) {
		t.Parallel()
		if got := e.Sum()[0]; math.Abs(got-(math.E-1/math.E)) > 1e-14 {
			t.Fatalf("Sum(exp) = %v", got)
		}
	})

	t.Run("diff", func(t *testing.T) {
		t.Parallel()
		s := resolved(core.Chebyshev, 33, math.Sin)
		d := s.Diff(1)
		if d.Len() != s.Len()-1 {
			t.Fatalf("Len = %d, want %d", d.Len(), s.Len()-1)
		}
		for _, x := range []float64{-0.9, 0, 0.4} {
			if got := d.Feval(x)[0]; math.Abs(got-math.Cos(x)) > 1e-13 {
				t.Errorf("sin'(%v) = %v", x, got)
			}
		}
		second := resolved(core.Chebyshev, 33, math.Exp).Diff(2)
		if got := second.Feval(0.5)[0]; math.Abs(got-math.Exp(0.5)) > 1e-11 {
			t.Errorf("exp''(0.5) = %v", got)
		}
	})

	t.Run("cumsum", func(t *testing.T) {
		t.Parallel()
		f, err := sample(core.Chebyshev, 33, math.Cos).Cumsum()
		if err != nil {
			t.Fatal(err)
		}
		if got := f.Feval(-1)[0]; math.Abs(got) > 1e-15 {
			t.Errorf("F(-1) = %v", got)
		}
		for _, x := range []float64{-0.5, 0.2, 1} {
			want := math.Sin(x) + math.Sin(1)
			if got := f.Feval(x)[0]; math.Abs(got-want) > 1e-14 {
				t.Errorf("F(%v) = %v, want %v", x, got, want)
			}
		}
	})

	t.Run("cumsum of a constant", func(t *testing.T) {
		t.Parallel()
		f, err := NewChebFromCoeffs([][]float64{{2}}).Cumsum()
		if err != nil {
			t.Fatal(err)
		}
		if got := f.Feval(1)[0]; got != 4 {
			t.Errorf("F(1) = %v, want 4", got)
		}
	})
}

func TestChebRoots(t *testing.T) {
	t.Parallel()

	t.Run("T5", func(t *testing.T) {
		t.Parallel()
		c := NewChebFromCoeffs([][]float64{{0, 0, 0, 0, 0, 1}})
		want := make([]float64, 5)
		for k := range want {
			want[k] = -math.Cos(float64(2*k+1) * math.Pi / 10)
		}
		if got := c.Roots()[0]; !cmp.Equal(got, want, approx(1e-14)) {
			t.Fatalf("roots = %v, want %v", got, want)
		}
	})

	t.Run("linear", func(t *testing.T) {
		t.Parallel()
		c := NewChebFromCoeffs([][]float64{{0.25, 1}})
		if got := c.Roots()[0]; !cmp.Equal(got, []float64{-0.25}, approx(1e-15)) {
			t.Fatalf("roots = %v", got)
		}
	})

	t.Run("no roots", func(t *testing.T) {
		t.Parallel()
		if got := sample(core.Chebyshev, 33, math.Exp).Roots()[0]; len(got) != 0 {
			t.Fatalf("exp has roots %v", got)
		}
		if got := NewChebFromCoeffs([][]float64{{0, 0, 0}}).Roots()[0]; len(got) != 0 {
			t.Fatalf("zero has roots %v", got)
		}
	})

	t.Run("high degree subdivides", func(t *testing.T) {
		t.Parallel()
		f := func(x float64) float64 { return math.Sin(30 * x) }
		c, err := sample(core.Chebyshev, 129, f).Simplify(core.DefaultPreferences())
		if err != nil {
			t.Fatal(err)
		}
		if c.Len() <= maxEigDegree+1 {
			t.Fatalf("expected a long series, got %d coefficients", c.Len())
		}
		got := c.Roots()[0]
		want := make([]float64, 0, 19)
		for k := -9; k <= 9; k++ {
			want = append(want, float64(k)*math.Pi/30)
		}
		if !cmp.Equal(got, want, approx(1e-12)) {
			t.Fatalf("roots = %v, want %v", got, want)
		}
	})
}

func TestChebArithmetic(t *testing.T) {
	t.Parallel()
	s := sample(core.Chebyshev, 17, math.Sin)
	c := sample(core.Chebyshev, 25, math.Cos)

	sum, err := s.Plus(c)
	if err != nil {
		t.Fatal(err)
	}
	prod, err := s.Times(c)
	if err != nil {
		t.Fatal(err)
	}
	if prod.Len() != 41 {
		t.Errorf("product length = %d, want 41", prod.Len())
	}
	for _, x := range []float64{-0.7, 0.1, 0.9} {
		if got := sum.Feval(x)[0]; math.Abs(got-math.Sin(x)-math.Cos(x)) > 1e-13 {
			t.Errorf("(sin+cos)(%v) = %v", x, got)
		}
		if got := prod.Feval(x)[0]; math.Abs(got-math.Sin(2*x)/2) > 1e-13 {
			t.Errorf("(sin*cos)(%v) = %v", x, got)
		}
	}

	neg := c.Scale(-2)
	if got := neg.Feval(0)[0]; math.Abs(got+2) > 1e-15 {
		t.Errorf("(-2 cos)(0) = %v", got)
	}
	if neg.Vscale() != 2*c.Vscale() {
		t.Errorf("vscale = %v, want %v", neg.Vscale(), 2*c.Vscale())
	}

	if _, err := s.Plus(sample(core.Fourier, 16, math.Sin)); !errors.Is(err, core.ErrKindMismatch) {
		t.Errorf("Plus across bases: %v", err)
	}
	if _, err := s.Times(sample(core.Chebyshev, 17, math.Sin, math.Cos)); !errors.Is(err, core.ErrDimension) {
		t.Errorf("Times across widths: %v", err)
	}
}

func TestChebProlongSimplify(t *testing.T) {
	t.Parallel()
	c := sample(core.Chebyshev, 65, math.Cos)

	long := c.Prolong(129)
	if long.Len() != 129 || math.Abs(long.Feval(0.3)[0]-math.Cos(0.3)) > 1e-14 {
		t.Fatalf("Prolong(129): len %d, f(0.3) = %v", long.Len(), long.Feval(0.3)[0])
	}

	s, err := long.Simplify(core.DefaultPreferences())
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() >= 33 || s.Len() < 10 {
		t.Fatalf("Simplify kept %d coefficients", s.Len())
	}
	if math.Abs(s.Feval(0.3)[0]-math.Cos(0.3)) > 1e-14 {
		t.Fatalf("simplified f(0.3) = %v", s.Feval(0.3)[0])
	}
	if s.IsHappy() {
		t.Error("Simplify must not mark an unresolved representation happy")
	}
}

func TestChebRestrict(t *testing.T) {
	t.Parallel()
	c := sample(core.Chebyshev, 33, math.Exp).(*ChebTech)
	r, err := c.Restrict(0, 1, core.DefaultPreferences())
	if err != nil {
		t.Fatal(err)
	}
	// r(s) = exp((s + 1) / 2)
	for _, s := range []float64{-1, 0, 1} {
		if got := r.Feval(s)[0]; math.Abs(got-math.Exp((s+1)/2)) > 1e-14 {
			t.Errorf("restricted(%v) = %v", s, got)
		}
	}
	if r.Len() >= c.Len() {
		t.Errorf("restriction did not shorten: %d", r.Len())
	}
	if _, err := c.Restrict(0.5, 0.5, core.DefaultPreferences()); !errors.Is(err, core.ErrDomainShape) {
		t.Errorf("empty interval: %v", err)
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()
	three := sample(core.Chebyshev, 17, math.Sin, math.Cos, math.Exp)

	two, err := three.Extract([]int{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if two.Columns() != 2 {
		t.Fatalf("Columns = %d", two.Columns())
	}
	want := []float64{three.Feval(0.4)[2], three.Feval(0.4)[0]}
	if got := two.Feval(0.4); !cmp.Equal(got, want, approx(1e-15)) {
		t.Fatalf("Feval = %v, want %v", got, want)
	}

	for _, idx := range [][]int{{3}, {-1}, {}} {
		if _, err := three.Extract(idx); !errors.Is(err, core.ErrDimension) {
			t.Errorf("Extract(%v) = %v", idx, err)
		}
	}
}

func TestFromValuesRejectsRaggedInput(t *testing.T) {
	t.Parallel()
	if _, err := FromValues(core.Chebyshev, [][]float64{{1, 2}, {1}}); !errors.Is(err, core.ErrDimension) {
		t.Errorf("ragged: %v", err)
	}
	if _, err := FromValues(core.Fourier, nil); !errors.Is(err, core.ErrEmpty) {
		t.Errorf("empty: %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Fourier
// ─────────────────────────────────────────────────────────────────────────────

func TestTrigCalculus(t *testing.T) {
	t.Parallel()
	sinpi := func(x float64) float64 { return math.Sin(math.Pi * x) }
	s := sample(core.Fourier, 16, sinpi)

	d := s.Diff(1)
	if got := d.Feval(0.25)[0]; math.Abs(got-math.Pi*math.Cos(math.Pi/4)) > 1e-13 {
		t.Errorf("diff at 0.25 = %v", got)
	}

	f, err := s.Cumsum()
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{-1, -0.3, 0.5} {
		want := (-math.Cos(math.Pi*x) - 1) / math.Pi
		if got := f.Feval(x)[0]; math.Abs(got-want) > 1e-14 {
			t.Errorf("F(%v) = %v, want %v", x, got, want)
		}
	}

	shifted := sample(core.Fourier, 16, func(x float64) float64 { return 1 + sinpi(x) })
	if _, err := shifted.Cumsum(); !errors.Is(err, core.ErrNotPeriodic) {
		t.Errorf("Cumsum of nonzero mean: %v", err)
	}
	if got := shifted.Sum()[0]; math.Abs(got-2) > 1e-14 {
		t.Errorf("Sum = %v, want 2", got)
	}
}

func TestTrigProlongKeepsFunction(t *testing.T) {
	t.Parallel()
	f := func(x float64) float64 { return math.Cos(math.Pi*x) + 0.5*math.Sin(2*math.Pi*x) }
	even := sample(core.Fourier, 8, f)
	for _, n := range []int{9, 15, 16, 32} {
		p := even.Prolong(n)
		for _, x := range []float64{-0.8, 0.13, 0.6} {
			if got := p.Feval(x)[0]; math.Abs(got-f(x)) > 1e-14 {
				t.Errorf("Prolong(%d) at %v = %v, want %v", n, x, got, f(x))
			}
		}
	}
	short := sample(core.Fourier, 33, f).Prolong(5)
	if got := short.Feval(0.37)[0]; math.Abs(got-f(0.37)) > 1e-14 {
		t.Errorf("Prolong(5) at 0.37 = %v", got)
	}
}

func TestTrigRootsAndProduct(t *testing.T) {
	t.Parallel()
	cospi := func(x float64) float64 { return math.Cos(math.Pi * x) }
	c := sample(core.Fourier, 17, cospi)

	if got := c.Roots()[0]; !cmp.Equal(got, []float64{-0.5, 0.5}, approx(1e-12)) {
		t.Fatalf("roots = %v", got)
	}

	sq, err := c.Times(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := sq.Sum()[0]; math.Abs(got-1) > 1e-14 {
		t.Errorf("integral of cos^2(pi x) = %v, want 1", got)
	}
	if _, err := c.Plus(sample(core.Chebyshev, 17, cospi)); !errors.Is(err, core.ErrKindMismatch) {
		t.Errorf("Plus across bases: %v", err)
	}
}
