package service

import (
	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/fun"
	"github.com/agbru/chebgo/pkg/models"
)

// NewReport summarizes f: scales, pieces, integral, roots, global extrema
// and the values at eval. Up to ncoeffs leading coefficients of every
// piece are included. The identification fields are left for the caller.
func NewReport(f *fun.Function, eval []float64, ncoeffs int) models.Report {
	domain := f.Domain()
	r := models.Report{
		Tech:     f.Kind().String(),
		Domain:   domain,
		Columns:  f.Columns(),
		Resolved: f.Resolved(),
		Length:   f.Length(),
		Vscale:   f.Vscale(),
		Hscale:   f.Hscale(),
		Epslevel: f.Epslevel(),
		Integral: f.Sum(),
		Roots:    f.Roots(),
		Max:      extrema(f.GlobalMax()),
		Min:      extrema(f.GlobalMin()),
	}
	for i := range f.NumPieces() {
		t, _ := f.Piece(i)
		pc := models.Piece{
			Lo:       domain[i],
			Hi:       domain[i+1],
			Length:   t.Len(),
			Happy:    t.IsHappy(),
			Epslevel: t.Epslevel(),
		}
		if ncoeffs > 0 {
			pc.Coefficients, pc.Imag = leading(t.Coefficients(), ncoeffs, t.Kind())
		}
		r.Pieces = append(r.Pieces, pc)
	}
	for _, x := range eval {
		r.Evaluations = append(r.Evaluations, models.Evaluation{X: x, Values: f.Feval(x)})
	}
	return r
}

func extrema(es []fun.Extremum) []models.Extremum {
	out := make([]models.Extremum, len(es))
	for i, e := range es {
		out[i] = models.Extremum{X: e.X, Value: e.Value}
	}
	return out
}

// leading splits the first n coefficients of every column into real and
// imaginary parts. The imaginary parts are only returned for Fourier.
func leading(cols [][]complex128, n int, kind core.Kind) (re, im [][]float64) {
	re = make([][]float64, len(cols))
	if kind == core.Fourier {
		im = make([][]float64, len(cols))
	}
	for c, col := range cols {
		m := min(n, len(col))
		re[c] = make([]float64, m)
		if im != nil {
			im[c] = make([]float64, m)
		}
		for j := range m {
			re[c][j] = real(col[j])
			if im != nil {
				im[c][j] = imag(col[j])
			}
		}
	}
	return re, im
}
