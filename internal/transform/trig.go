package transform

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// TrigPoints returns n equispaced points -1 + 2j/n on [-1, 1).
func TrigPoints(n int) []float64 {
	if n <= 0 {
		return nil
	}
	x := make([]float64, n)
	for j := range x {
		x[j] = -1 + 2*float64(j)/float64(n)
	}
	return x
}

// TrigWaveNumbers returns the wave numbers of a length-n Fourier series in
// coefficient order: -m..m for n = 2m+1 and -m..m-1 for n = 2m.
func TrigWaveNumbers(n int) []int {
	k := make([]int, n)
	for i := range k {
		k[i] = i - n/2
	}
	return k
}

// TrigVals2Coeffs maps values at TrigPoints(len(vals)) to the coefficients
// c_k of f(x) = sum c_k exp(i pi k x), ordered as TrigWaveNumbers.
func TrigVals2Coeffs(vals []complex128) []complex128 {
	n := len(vals)
	switch n {
	case 0:
		return nil
	case 1:
		return []complex128{vals[0]}
	}
	d := fourier.NewCmplxFFT(n).Coefficients(nil, vals)

	c := make([]complex128, n)
	scale := complex(1/float64(n), 0)
	for i, k := range TrigWaveNumbers(n) {
		c[i] = d[mod(k, n)] * scale * alternating(k)
	}
	return c
}

// TrigCoeffs2Vals is the inverse of TrigVals2Coeffs.
func TrigCoeffs2Vals(coeffs []complex128) []complex128 {
	n := len(coeffs)
	switch n {
	case 0:
		return nil
	case 1:
		return []complex128{coeffs[0]}
	}
	d := make([]complex128, n)
	for i, k := range TrigWaveNumbers(n) {
		d[mod(k, n)] = coeffs[i] * alternating(k)
	}
	return fourier.NewCmplxFFT(n).Sequence(nil, d)
}

// TrigEval evaluates the Fourier series at x. For even lengths the
// unpaired mode -m is split evenly between -m and +m so that real data
// interpolates to a real function.
func TrigEval(coeffs []complex128, x float64) complex128 {
	n := len(coeffs)
	if n == 0 {
		return 0
	}
	var s complex128
	for i, k := range TrigWaveNumbers(n) {
		c := coeffs[i]
		if n%2 == 0 && i == 0 {
			half := c / 2
			s += half*cmplx.Exp(complex(0, -math.Pi*float64(-k)*x)) + half*cmplx.Exp(complex(0, math.Pi*float64(-k)*x))
			continue
		}
		s += c * cmplx.Exp(complex(0, math.Pi*float64(k)*x))
	}
	return s
}

func alternating(k int) complex128 {
	if k%2 != 0 {
		return -1
	}
	return 1
}

func mod(k, n int) int {
	r := k % n
	if r < 0 {
		r += n
	}
	return r
}
