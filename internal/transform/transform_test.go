package transform

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// ─────────────────────────────────────────────────────────────────────────────
// Grids
// ─────────────────────────────────────────────────────────────────────────────

func TestChebPoints(t *testing.T) {
	t.Parallel()
	if got := ChebPoints(1); !cmp.Equal(got, []float64{0}) {
		t.Fatalf("ChebPoints(1) = %v", got)
	}
	want := []float64{-1, -math.Sqrt2 / 2, 0, math.Sqrt2 / 2, 1}
	if got := ChebPoints(5); !cmp.Equal(got, want, cmpopts.EquateApprox(0, 1e-15)) {
		t.Fatalf("ChebPoints(5) = %v, want %v", got, want)
	}
	x := ChebPoints(17)
	for j := range x {
		if x[j] != -x[len(x)-1-j] {
			t.Fatalf("ChebPoints(17) not symmetric at %d: %v vs %v", j, x[j], x[len(x)-1-j])
		}
		if j > 0 && x[j] <= x[j-1] {
			t.Fatalf("ChebPoints(17) not ascending at %d", j)
		}
	}
}

func TestTrigPointsAndWaveNumbers(t *testing.T) {
	t.Parallel()
	if got := TrigPoints(4); !cmp.Equal(got, []float64{-1, -0.5, 0, 0.5}) {
		t.Fatalf("TrigPoints(4) = %v", got)
	}
	if got := TrigWaveNumbers(5); !cmp.Equal(got, []int{-2, -1, 0, 1, 2}) {
		t.Fatalf("TrigWaveNumbers(5) = %v", got)
	}
	if got := TrigWaveNumbers(4); !cmp.Equal(got, []int{-2, -1, 0, 1}) {
		t.Fatalf("TrigWaveNumbers(4) = %v", got)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chebyshev transform
// ─────────────────────────────────────────────────────────────────────────────

func TestChebVals2CoeffsKnownSeries(t *testing.T) {
	t.Parallel()
	// f(x) = 1 + 2x + 3 T_2(x) - T_4(x)
	want := []float64{1, 2, 3, 0, -1}
	f := func(x float64) float64 {
		t2 := 2*x*x - 1
		t4 := 8*x*x*x*x - 8*x*x + 1
		return 1 + 2*x + 3*t2 - t4
	}
	x := ChebPoints(5)
	vals := make([]float64, len(x))
	for i, xi := range x {
		vals[i] = f(xi)
	}
	got := ChebVals2Coeffs(vals)
	if !cmp.Equal(got, want, cmpopts.EquateApprox(0, 1e-13)) {
		t.Fatalf("coeffs = %v, want %v", got, want)
	}
	if y := Clenshaw(got, 0.3); math.Abs(y-f(0.3)) > 1e-13 {
		t.Fatalf("Clenshaw(0.3) = %v, want %v", y, f(0.3))
	}
}

func TestChebDegenerateLengths(t *testing.T) {
	t.Parallel()
	if got := ChebVals2Coeffs([]float64{4.5}); !cmp.Equal(got, []float64{4.5}) {
		t.Fatalf("n=1 coeffs = %v", got)
	}
	if got := ChebCoeffs2Vals([]float64{4.5}); !cmp.Equal(got, []float64{4.5}) {
		t.Fatalf("n=1 vals = %v", got)
	}
	// Two points: the line through (-1, 1) and (1, 3) is 2 + x.
	if got := ChebVals2Coeffs([]float64{1, 3}); !cmp.Equal(got, []float64{2, 1}, cmpopts.EquateApprox(0, 1e-15)) {
		t.Fatalf("n=2 coeffs = %v", got)
	}
	if ChebVals2Coeffs(nil) != nil || ChebCoeffs2Vals(nil) != nil {
		t.Fatal("empty input should give nil")
	}
}

func TestChebParity(t *testing.T) {
	t.Parallel()
	x := ChebPoints(33)
	even := make([]float64, len(x))
	odd := make([]float64, len(x))
	for i, xi := range x {
		even[i] = math.Cos(3 * xi)
		odd[i] = math.Sin(3 * xi)
	}
	ce := ChebVals2Coeffs(even)
	co := ChebVals2Coeffs(odd)
	for k := 1; k < len(ce); k += 2 {
		if ce[k] != 0 {
			t.Fatalf("even data has odd coefficient %d = %g", k, ce[k])
		}
	}
	for k := 0; k < len(co); k += 2 {
		if co[k] != 0 {
			t.Fatalf("odd data has even coefficient %d = %g", k, co[k])
		}
	}
}

func TestChebRoundTripProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("coeffs2vals(vals2coeffs(v)) == v", prop.ForAll(
		func(v []float64) bool {
			back := ChebCoeffs2Vals(ChebVals2Coeffs(v))
			return closeSlices(back, v, float64(len(v)+1)*4*0x1p-52*maxAbs(v))
		},
		gen.SliceOf(gen.Float64Range(-1e3, 1e3)).SuchThat(func(v []float64) bool { return len(v) > 0 }),
	))

	properties.Property("complex round trip", prop.ForAll(
		func(re, im []float64) bool {
			n := min(len(re), len(im))
			v := make([]complex128, n)
			scale := 0.0
			for i := range v {
				v[i] = complex(re[i], im[i])
				scale = math.Max(scale, cmplx.Abs(v[i]))
			}
			back := ChebCoeffs2ValsComplex(ChebVals2CoeffsComplex(v))
			for i := range v {
				if cmplx.Abs(back[i]-v[i]) > float64(n+1)*8*0x1p-52*scale {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(40, gen.Float64Range(-10, 10)),
		gen.SliceOfN(40, gen.Float64Range(-10, 10)),
	))

	properties.TestingRun(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fourier transform
// ─────────────────────────────────────────────────────────────────────────────

func TestTrigVals2CoeffsSingleMode(t *testing.T) {
	t.Parallel()
	for _, n := range []int{7, 8} {
		x := TrigPoints(n)
		vals := make([]complex128, n)
		for i, xi := range x {
			vals[i] = complex(math.Cos(2*math.Pi*xi), 0)
		}
		c := TrigVals2Coeffs(vals)
		for i, k := range TrigWaveNumbers(n) {
			want := complex(0, 0)
			if k == 2 || k == -2 {
				want = 0.5
			}
			if cmplx.Abs(c[i]-want) > 1e-14 {
				t.Fatalf("n=%d: c[%d] = %v, want %v", n, k, c[i], want)
			}
		}
		if got := TrigEval(c, 0.1); math.Abs(real(got)-math.Cos(0.2*math.Pi)) > 1e-13 || math.Abs(imag(got)) > 1e-13 {
			t.Fatalf("n=%d: TrigEval(0.1) = %v", n, got)
		}
	}
}

func TestTrigRoundTripProperty(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("trig round trip", prop.ForAll(
		func(re []float64) bool {
			v := make([]complex128, len(re))
			for i, r := range re {
				v[i] = complex(r, -r/2)
			}
			back := TrigCoeffs2Vals(TrigVals2Coeffs(v))
			for i := range v {
				if cmplx.Abs(back[i]-v[i]) > float64(len(v)+1)*8*0x1p-52*(maxAbs(re)+1) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-100, 100)).SuchThat(func(v []float64) bool { return len(v) > 0 }),
	))

	properties.TestingRun(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Barycentric interpolation
// ─────────────────────────────────────────────────────────────────────────────

func TestBaryInterp(t *testing.T) {
	t.Parallel()
	x := ChebPoints(20)
	vals := make([]float64, len(x))
	for i, xi := range x {
		vals[i] = math.Exp(xi)
	}
	got := BaryInterp(x, vals, BaryWeights(len(x)), []float64{x[3], 0.123})
	if got[0] != vals[3] {
		t.Errorf("node value not reproduced exactly: %v vs %v", got[0], vals[3])
	}
	if math.Abs(got[1]-math.Exp(0.123)) > 1e-14 {
		t.Errorf("interp(0.123) = %v, want %v", got[1], math.Exp(0.123))
	}

	// Extrapolation from the interior points to the endpoints.
	w := InteriorBaryWeights(len(x))
	ends := BaryInterp(x[1:len(x)-1], vals[1:len(x)-1], w, []float64{-1, 1})
	if math.Abs(ends[0]-math.Exp(-1)) > 1e-12 || math.Abs(ends[1]-math.E) > 1e-12 {
		t.Errorf("extrapolated endpoints = %v", ends)
	}
}

func closeSlices(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
