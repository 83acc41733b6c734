package happiness

import (
	"math"
	"math/cmplx"

	"github.com/agbru/chebgo/internal/core"
)

// Strategy is a named resolution check. Strategies only inspect
// coefficients; the sample test is applied by Check.
type Strategy interface {
	core.Checker
	// Name returns the registry key of the strategy.
	Name() string
	// Supports reports whether the strategy can judge the given basis.
	Supports(kind core.Kind) bool
}

type namedStrategy struct {
	name    string
	kinds   []core.Kind
	checker core.Checker
}

// NewStrategy wraps a checker as a Strategy. Without kinds the strategy
// supports every basis.
func NewStrategy(name string, checker core.Checker, kinds ...core.Kind) Strategy {
	return &namedStrategy{name: name, kinds: kinds, checker: checker}
}

func (s *namedStrategy) Name() string { return s.name }

func (s *namedStrategy) Supports(kind core.Kind) bool {
	if len(s.kinds) == 0 {
		return true
	}
	for _, k := range s.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *namedStrategy) Check(rep core.Representation, op core.Op, values [][]float64, data core.Data, p core.Preferences) (core.Verdict, error) {
	return s.checker.Check(rep, op, values, data, p)
}

// builtinStrategies returns the strategies every registry starts with.
func builtinStrategies() []Strategy {
	return []Strategy{
		NewStrategy("standard", core.CheckerFunc(standardCheck)),
		NewStrategy("classic", tailCheck{minTest: 5, divisor: 8, chop: true, tolerance: classicTolerance}),
		NewStrategy("strict", tailCheck{minTest: 5, divisor: 8, tolerance: strictTolerance}, core.Chebyshev),
		NewStrategy("loose", tailCheck{minTest: 3, divisor: 16, chop: true, tolerance: looseTolerance}, core.Chebyshev),
		NewStrategy("plateau", core.CheckerFunc(plateauCheck)),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Column preparation
// ─────────────────────────────────────────────────────────────────────────────

// column is one output component prepared for a tail test.
type column struct {
	// mags are coefficient magnitudes by increasing degree. Fourier
	// coefficients are folded so that mags[j] = |c_j| + |c_-j|.
	mags []float64
	// tol is the relative tolerance for this column, loosened when the
	// column is small compared to the enclosing object.
	tol float64
}

func columnsOf(rep core.Representation, data core.Data, p core.Preferences) []column {
	coeffs := rep.Coefficients()
	vscales := rep.ColumnVscales()
	eps := p.Eps
	if eps == 0 {
		eps = core.MachineEps
	}

	cols := make([]column, len(coeffs))
	for i, c := range coeffs {
		var mags []float64
		if rep.Kind() == core.Fourier {
			mags = fold(c)
		} else {
			mags = make([]float64, len(c))
			for k, z := range c {
				mags[k] = cmplx.Abs(z)
			}
		}
		tol := eps
		if i < len(vscales) && vscales[i] > 0 && data.Vscale > vscales[i] {
			tol *= data.Vscale / vscales[i]
		}
		cols[i] = column{mags: mags, tol: tol}
	}
	return cols
}

// fold combines Fourier coefficients of equal |wave number|.
func fold(c []complex128) []float64 {
	n := len(c)
	mid := n / 2
	out := make([]float64, mid+1)
	out[0] = cmplx.Abs(c[mid])
	for j := 1; j <= mid; j++ {
		a := cmplx.Abs(c[mid-j])
		if mid+j < n {
			a += cmplx.Abs(c[mid+j])
		}
		out[j] = a
	}
	return out
}

// lengthFor maps a cutoff counted in degrees back to a representation length.
func lengthFor(rep core.Representation, cut int) int {
	n := rep.Len()
	if rep.Kind() == core.Fourier {
		cut = 2*cut - 1
	}
	return min(max(cut, 1), n)
}

func allZero(a []float64) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

func clampEps(e float64) float64 {
	if math.IsNaN(e) {
		return 1
	}
	return min(max(e, core.MachineEps), 1)
}

// unresolved builds the verdict for a representation that needs more
// points. The epslevel reports the level of the last eighth of the tail.
func unresolved(rep core.Representation, cols []column) core.Verdict {
	level := 0.0
	for _, c := range cols {
		m := len(c.mags)
		level = max(level, tailLevel(c.mags, m-max(1, m/8)))
	}
	return core.Verdict{Happy: false, Epslevel: clampEps(level), Cutoff: rep.Len()}
}

// ─────────────────────────────────────────────────────────────────────────────
// standard
// ─────────────────────────────────────────────────────────────────────────────

func standardCheck(rep core.Representation, _ core.Op, _ [][]float64, data core.Data, p core.Preferences) (core.Verdict, error) {
	n := rep.Len()
	if n == 0 {
		return core.Verdict{}, core.ErrEmpty
	}
	if n <= 2 {
		return core.Verdict{Happy: true, Epslevel: core.MachineEps, Cutoff: n}, nil
	}

	cols := columnsOf(rep, data, p)
	cut, level := 0, 0.0
	for _, c := range cols {
		m := len(c.mags)
		if allZero(c.mags) {
			cut = max(cut, 1)
			continue
		}
		mags := c.mags
		if rep.IsHappy() {
			// A truncated representation has lost the noise tail the chop
			// rule needs; zero padding restores it.
			padTo := max(minChopLength, int(math.Round(1.25*float64(m+1)+5))+1)
			mags = make([]float64, padTo)
			copy(mags, c.mags)
		}
		k, ok := StandardChop(mags, c.tol)
		if !ok {
			return unresolved(rep, cols), nil
		}
		k = min(k, m)
		cut = max(cut, k)
		level = max(level, tailLevel(c.mags, k))
	}
	return core.Verdict{Happy: true, Epslevel: clampEps(level), Cutoff: lengthFor(rep, cut)}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// classic, strict, loose
// ─────────────────────────────────────────────────────────────────────────────

// tailCheck accepts a representation whose trailing coefficients all lie
// below a tolerance. The test tail covers max(minTest, (m-1)/divisor)
// coefficients.
type tailCheck struct {
	minTest   int
	divisor   int
	chop      bool
	tolerance func(tol, eps float64, m int) float64
}

func classicTolerance(tol, eps float64, m int) float64 {
	return max(tol, eps*math.Pow(float64(m), 2.0/3.0))
}

func strictTolerance(tol, _ float64, _ int) float64 { return tol }

func looseTolerance(tol, eps float64, m int) float64 {
	return max(tol, eps*float64(m))
}

func (s tailCheck) Check(rep core.Representation, _ core.Op, _ [][]float64, data core.Data, p core.Preferences) (core.Verdict, error) {
	n := rep.Len()
	if n == 0 {
		return core.Verdict{}, core.ErrEmpty
	}
	if n <= 2 {
		return core.Verdict{Happy: true, Epslevel: core.MachineEps, Cutoff: n}, nil
	}
	eps := p.Eps
	if eps == 0 {
		eps = core.MachineEps
	}

	cols := columnsOf(rep, data, p)
	cut, level := 0, 0.0
	for _, c := range cols {
		m := len(c.mags)
		if allZero(c.mags) {
			cut = max(cut, 1)
			continue
		}
		tol := s.tolerance(c.tol, eps, m)
		test := min(m, max(s.minTest, int(math.Round(float64(m-1)/float64(s.divisor)))))
		if tailLevel(c.mags, m-test) > tol {
			return unresolved(rep, cols), nil
		}
		k := m
		if s.chop {
			k = bangForBuck(c.mags, tol)
		}
		cut = max(cut, k)
		level = max(level, tailLevel(c.mags, k))
	}
	return core.Verdict{Happy: true, Epslevel: clampEps(level), Cutoff: lengthFor(rep, cut)}, nil
}

// bangForBuck picks the length k whose discarded tail stays below tol while
// buying the most digits per kept coefficient.
func bangForBuck(mags []float64, tol float64) int {
	m := len(mags)
	top := 0.0
	for _, v := range mags {
		top = max(top, v)
	}
	after := make([]float64, m+1)
	for k := m - 1; k >= 0; k-- {
		after[k] = max(after[k+1], mags[k]/top)
	}

	floor := core.MachineEps / 4
	best, bestK := math.Inf(-1), m
	for k := 1; k <= m; k++ {
		if after[k] > tol {
			continue
		}
		score := math.Log(1e3*tol/max(after[k], floor)) / float64(k+1)
		if score > best {
			best, bestK = score, k
		}
	}
	return bestK
}

// ─────────────────────────────────────────────────────────────────────────────
// plateau
// ─────────────────────────────────────────────────────────────────────────────

// plateauCheck runs the standard check and, when it fails, accepts a
// coefficient sequence that has stalled on a floor above machine precision
// but below tol^(1/4). The floor becomes the reported epslevel.
func plateauCheck(rep core.Representation, op core.Op, values [][]float64, data core.Data, p core.Preferences) (core.Verdict, error) {
	v, err := standardCheck(rep, op, values, data, p)
	if err != nil || v.Happy {
		return v, err
	}

	cut, level := 0, 0.0
	for _, c := range columnsOf(rep, data, p) {
		m := len(c.mags)
		if allZero(c.mags) {
			cut = max(cut, 1)
			continue
		}
		if m < 2*minChopLength-1 {
			return v, nil
		}
		env := envelope(c.mags)
		// The last coefficient may vanish by parity.
		floor := env[m-2]
		if floor == 0 || env[m/2] > 10*floor || floor > math.Pow(c.tol, 0.25) {
			return v, nil
		}
		k := 1
		for k < m && env[k] > 2*floor {
			k++
		}
		cut = max(cut, k)
		level = max(level, floor)
	}
	return core.Verdict{Happy: true, Epslevel: clampEps(level), Cutoff: lengthFor(rep, cut)}, nil
}
