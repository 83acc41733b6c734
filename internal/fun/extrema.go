package fun

import (
	"math"
	"sort"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/tech"
)

// Extremum is a location and the value of one column there.
type Extremum struct {
	X     float64
	Value float64
}

var (
	// slopeTol is the relative size below which a derivative value counts
	// as zero when classifying extrema.
	slopeTol = math.Sqrt(core.MachineEps)
	// edgeTol keeps critical points this close to a piece end out of the
	// interior classification; the breakpoint rule handles them.
	edgeTol = 1e-10
)

// GlobalMax returns the location and value of the maximum of every column.
// Candidates are the breakpoints and the roots of the derivative.
func (f *Function) GlobalMax() []Extremum { return f.global(1) }

// GlobalMin returns the location and value of the minimum of every column.
func (f *Function) GlobalMin() []Extremum { return f.global(-1) }

// LocalMaxima returns the local maxima of every column, sorted by location.
// Interior critical points are classified by the sign of the second
// derivative; breakpoints and the domain ends by the one-sided first
// derivatives, falling back to the second derivative where the slope
// vanishes.
func (f *Function) LocalMaxima() [][]Extremum { return f.local(1) }

// LocalMinima returns the local minima of every column, sorted by location.
func (f *Function) LocalMinima() [][]Extremum { return f.local(-1) }

// derivs holds the first two derivatives of a piece on [-1, 1]. The
// interval scaling is positive, so signs and roots match the global
// derivatives.
type derivs struct {
	d1, d2 tech.Tech
	roots  [][]float64
	s1, s2 []float64
}

func (f *Function) derivatives() []derivs {
	ds := make([]derivs, len(f.pieces))
	for i, t := range f.pieces {
		d1 := t.Diff(1)
		d2 := d1.Diff(1)
		ds[i] = derivs{d1: d1, d2: d2, roots: d1.Roots(), s1: d1.ColumnVscales(), s2: d2.ColumnVscales()}
	}
	return ds
}

func (f *Function) global(sign float64) []Extremum {
	ds := f.derivatives()
	out := make([]Extremum, f.Columns())
	for c := range out {
		best := Extremum{X: math.NaN(), Value: math.Inf(-int(sign))}
		consider := func(x, v float64) {
			if sign*v > sign*best.Value {
				best = Extremum{X: x, Value: v}
			}
		}
		for k, x := range f.breaks {
			consider(x, f.points[k][c])
		}
		for i, d := range ds {
			lo, hi := f.breaks[i], f.breaks[i+1]
			for _, r := range d.roots[c] {
				consider(toGlobal(r, lo, hi), f.pieces[i].Feval(r)[c])
			}
		}
		out[c] = best
	}
	return out
}

func (f *Function) local(sign float64) [][]Extremum {
	ds := f.derivatives()
	out := make([][]Extremum, f.Columns())
	for c := range out {
		var ext []Extremum
		for k, x := range f.breaks {
			if f.classifyBreak(ds, k, c) == sign {
				ext = append(ext, Extremum{X: x, Value: f.points[k][c]})
			}
		}
		for i, d := range ds {
			lo, hi := f.breaks[i], f.breaks[i+1]
			for _, r := range d.roots[c] {
				if math.Abs(r) >= 1-edgeTol {
					continue
				}
				// f'' < 0 is a maximum.
				if -signOf(d.d2.Feval(r)[c], d.s2[c]) == sign {
					ext = append(ext, Extremum{X: toGlobal(r, lo, hi), Value: f.pieces[i].Feval(r)[c]})
				}
			}
		}
		sort.Slice(ext, func(a, b int) bool { return ext[a].X < ext[b].X })
		out[c] = ext
	}
	return out
}

// classifyBreak returns +1 when breaks[k] is a local maximum of column c,
// -1 for a minimum and 0 otherwise.
func (f *Function) classifyBreak(ds []derivs, k, c int) float64 {
	var left, right float64
	hasLeft, hasRight := k > 0, k < len(ds)
	if hasLeft {
		d := ds[k-1]
		// Just left of the break the slope has the sign of -f'' when f'
		// vanishes there.
		left = effectiveSlope(d.d1.Feval(1)[c], d.s1[c], -d.d2.Feval(1)[c], d.s2[c])
	}
	if hasRight {
		d := ds[k]
		right = effectiveSlope(d.d1.Feval(-1)[c], d.s1[c], d.d2.Feval(-1)[c], d.s2[c])
	}
	switch {
	case !hasLeft:
		return -right
	case !hasRight:
		return left
	case left > 0 && right < 0:
		return 1
	case left < 0 && right > 0:
		return -1
	}
	return 0
}

// effectiveSlope returns the sign of the slope next to a point from the
// first derivative s, or from the curvature term q when s vanishes.
func effectiveSlope(s, sScale, q, qScale float64) float64 {
	if v := signOf(s, sScale); v != 0 {
		return v
	}
	return signOf(q, qScale)
}

// signOf returns the sign of v, or 0 when |v| is negligible against scale.
func signOf(v, scale float64) float64 {
	if math.Abs(v) <= slopeTol*scale {
		return 0
	}
	if v > 0 {
		return 1
	}
	return -1
}
