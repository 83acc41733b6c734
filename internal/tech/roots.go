package tech

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/happiness"
	"github.com/agbru/chebgo/internal/transform"
)

const (
	// maxEigDegree is the largest degree solved directly by the colleague
	// matrix; longer series are subdivided.
	maxEigDegree = 50
	// splitPoint is slightly left of zero so that roots at the origin are
	// not found on a subdivision boundary.
	splitPoint = -0.004849834917525
	// maxRootDepth bounds the subdivision recursion.
	maxRootDepth = 24
)

var (
	// rootImagTol is the largest imaginary part an eigenvalue may carry and
	// still count as a real root.
	rootImagTol = math.Sqrt(core.MachineEps)
	// rootEdgeTol is how far outside [-1, 1] a root may fall before it is
	// discarded rather than clamped.
	rootEdgeTol = 1e-12
)

// chebRoots returns the sorted real roots in [-1, 1] of a Chebyshev
// series.
func chebRoots(c []float64) []float64 {
	roots := chebRootsRec(c, 0)
	sort.Float64s(roots)
	return dedupe(roots, 100*core.MachineEps)
}

func chebRootsRec(c []float64, depth int) []float64 {
	scale := 0.0
	for _, v := range c {
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		return nil
	}
	d := len(c) - 1
	for d > 0 && math.Abs(c[d]) <= core.MachineEps*scale {
		d--
	}
	if d == 0 {
		return nil
	}
	if d <= maxEigDegree || depth >= maxRootDepth {
		return colleagueRoots(c[:d+1])
	}

	// Subdivide: resample the series on each half and recurse.
	var roots []float64
	for _, half := range [2][2]float64{{-1, splitPoint}, {splitPoint, 1}} {
		a, b := half[0], half[1]
		sub := restrictCoeffs(c[:d+1], a, b)
		for _, r := range chebRootsRec(sub, depth+1) {
			roots = append(roots, 0.5*(b-a)*r+0.5*(a+b))
		}
	}
	return roots
}

// restrictCoeffs returns the Chebyshev coefficients on [-1, 1] of the
// series c restricted to [a, b], chopped to the noise floor.
func restrictCoeffs(c []float64, a, b float64) []float64 {
	n := len(c)
	x := transform.ChebPoints(n)
	vals := make([]float64, n)
	for j, xj := range x {
		vals[j] = transform.Clenshaw(c, 0.5*(b-a)*xj+0.5*(a+b))
	}
	sub := transform.ChebVals2Coeffs(vals)
	if cut, ok := happiness.StandardChop(sub, core.MachineEps); ok && cut < n {
		sub = sub[:cut]
	}
	return sub
}

// colleagueRoots returns the real eigenvalues in [-1, 1] of the colleague
// matrix of the series c, whose leading coefficient is nonzero.
func colleagueRoots(c []float64) []float64 {
	d := len(c) - 1
	if d == 1 {
		r := -c[0] / c[1]
		if math.Abs(r) > 1+rootEdgeTol {
			return nil
		}
		return []float64{clamp(r)}
	}

	m := mat.NewDense(d, d, nil)
	m.Set(0, 1, 1)
	for k := 1; k < d-1; k++ {
		m.Set(k, k-1, 0.5)
		m.Set(k, k+1, 0.5)
	}
	m.Set(d-1, d-2, 0.5)
	lead := 2 * c[d]
	for k := 0; k < d; k++ {
		m.Set(d-1, k, m.At(d-1, k)-c[k]/lead)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return nil
	}
	var roots []float64
	for _, z := range eig.Values(nil) {
		if math.Abs(imag(z)) >= rootImagTol || math.Abs(real(z)) > 1+rootEdgeTol {
			continue
		}
		roots = append(roots, clamp(real(z)))
	}
	return roots
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// dedupe removes neighbours of a sorted slice closer than tol.
func dedupe(x []float64, tol float64) []float64 {
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
