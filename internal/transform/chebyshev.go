// Package transform converts between point values and spectral coefficients
// for the Chebyshev and Fourier bases, and evaluates expansions off the grid.
//
// All kernels are pure functions of their input; none of them retain or
// mutate the slices they are given.
package transform

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ChebPoints returns the n Chebyshev points of the second kind on [-1, 1]
// in ascending order. The points are exactly symmetric about zero.
func ChebPoints(n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	m := n - 1
	x := make([]float64, n)
	for j := range x {
		x[j] = math.Sin(math.Pi * float64(2*j-m) / float64(2*m))
	}
	x[0], x[m] = -1, 1
	return x
}

// ChebVals2Coeffs maps values at ChebPoints(len(vals)) to the coefficients
// of the interpolating Chebyshev series, lowest degree first.
func ChebVals2Coeffs(vals []float64) []float64 {
	n := len(vals)
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{vals[0]}
	}
	m := n - 1

	// The DCT-I runs over the points in descending order.
	rev := reversed(vals)
	y := fourier.NewDCT(n).Transform(nil, rev)

	c := make([]float64, n)
	c[0] = y[0] / float64(2*m)
	c[m] = y[m] / float64(2*m)
	for k := 1; k < m; k++ {
		c[k] = y[k] / float64(m)
	}
	enforceParity(vals, c)
	return c
}

// ChebCoeffs2Vals is the inverse of ChebVals2Coeffs.
func ChebCoeffs2Vals(coeffs []float64) []float64 {
	n := len(coeffs)
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{coeffs[0]}
	}
	m := n - 1

	a := make([]float64, n)
	a[0], a[m] = coeffs[0], coeffs[m]
	for k := 1; k < m; k++ {
		a[k] = coeffs[k] / 2
	}
	y := fourier.NewDCT(n).Transform(nil, a)
	return reversed(y)
}

// ChebVals2CoeffsComplex transforms the real and imaginary parts of vals
// independently.
func ChebVals2CoeffsComplex(vals []complex128) []complex128 {
	re, im := splitComplex(vals)
	return joinComplex(ChebVals2Coeffs(re), ChebVals2Coeffs(im))
}

// ChebCoeffs2ValsComplex is the inverse of ChebVals2CoeffsComplex.
func ChebCoeffs2ValsComplex(coeffs []complex128) []complex128 {
	re, im := splitComplex(coeffs)
	return joinComplex(ChebCoeffs2Vals(re), ChebCoeffs2Vals(im))
}

// Clenshaw evaluates the Chebyshev series with the given coefficients at x.
func Clenshaw(coeffs []float64, x float64) float64 {
	n := len(coeffs)
	if n == 0 {
		return 0
	}
	var b1, b2 float64
	x2 := 2 * x
	for k := n - 1; k >= 1; k-- {
		b1, b2 = coeffs[k]+x2*b1-b2, b1
	}
	return coeffs[0] + x*b1 - b2
}

// enforceParity zeroes the odd coefficients of exactly even data and the
// even coefficients of exactly odd data, removing rounding noise the DCT
// leaves behind.
func enforceParity(vals, coeffs []float64) {
	n := len(vals)
	even, odd := true, true
	for j := 0; j < n/2+1 && (even || odd); j++ {
		a, b := vals[j], vals[n-1-j]
		if a != b {
			even = false
		}
		if a != -b {
			odd = false
		}
	}
	switch {
	case even && odd:
		for k := range coeffs {
			coeffs[k] = 0
		}
	case even:
		for k := 1; k < n; k += 2 {
			coeffs[k] = 0
		}
	case odd:
		for k := 0; k < n; k += 2 {
			coeffs[k] = 0
		}
	}
}

func reversed(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

func splitComplex(v []complex128) (re, im []float64) {
	re = make([]float64, len(v))
	im = make([]float64, len(v))
	for i, z := range v {
		re[i], im[i] = real(z), imag(z)
	}
	return re, im
}

func joinComplex(re, im []float64) []complex128 {
	out := make([]complex128, len(re))
	for i := range re {
		out[i] = complex(re[i], im[i])
	}
	return out
}
