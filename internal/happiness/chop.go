// Package happiness decides whether a spectral representation is resolved.
//
// The package provides the plateau-detection kernel (StandardChop), a set
// of named strategies built on it, a thread-safe registry for resolving
// strategies by name, and the Check orchestrator that combines a strategy
// verdict with a random-sample cross-check.
package happiness

import "math"

// minChopLength is the shortest sequence StandardChop can find a plateau in.
const minChopLength = 17

// StandardChop locates the point where a coefficient sequence, ordered by
// increasing degree, stops decaying and levels off into a plateau of
// rounding noise relative to tol.
//
// It returns the number of leading coefficients worth keeping and whether a
// plateau was found. When no plateau exists the returned length is
// len(coeffs). An all-zero sequence keeps one coefficient.
func StandardChop(coeffs []float64, tol float64) (cutoff int, found bool) {
	n := len(coeffs)
	if tol >= 1 {
		return 1, true
	}
	if n < minChopLength {
		return n, false
	}

	env := envelope(coeffs)
	if env[0] == 0 {
		return 1, true
	}

	// Scan for the first point j (1-based) where the envelope has
	// flattened: either it is exactly zero or it barely drops over the
	// next quarter of the sequence. The admissible drop shrinks as the
	// envelope nears tol.
	logTol := math.Log(tol)
	plateau, j2 := 0, 0
	for j := 2; j <= n; j++ {
		j2 = int(math.Round(1.25*float64(j) + 5))
		if j2 > n {
			return n, false
		}
		e1, e2 := env[j-1], env[j2-1]
		r := 3 * (1 - math.Log(e1)/logTol)
		if e1 == 0 || e2/e1 > r {
			plateau = j - 1
			break
		}
	}
	if plateau == 0 {
		return n, false
	}
	if env[plateau-1] == 0 {
		return plateau, true
	}

	// Place the cutoff at the sharpest corner of the log envelope, tilted
	// slightly so that later coefficients are penalized.
	floor := math.Pow(tol, 7.0/6.0)
	j3 := 0
	for _, e := range env {
		if e >= floor {
			j3++
		}
	}
	if j3 < j2 {
		j2 = j3 + 1
		env[j2-1] = floor
	}
	tilt := -math.Log10(tol) / 3
	best, d := math.Inf(1), 0
	for i := 0; i < j2; i++ {
		lin := tilt
		if j2 > 1 {
			lin = tilt * float64(i) / float64(j2-1)
		}
		if cc := math.Log10(env[i]) + lin; cc < best {
			best, d = cc, i+1
		}
	}
	return max(d-1, 1), true
}

// envelope returns the normalized running maximum of |a| from the tail.
// An all-zero sequence yields all zeros.
func envelope(a []float64) []float64 {
	n := len(a)
	env := make([]float64, n)
	if n == 0 {
		return env
	}
	env[n-1] = math.Abs(a[n-1])
	for j := n - 2; j >= 0; j-- {
		env[j] = math.Max(math.Abs(a[j]), env[j+1])
	}
	if env[0] > 0 {
		top := env[0]
		for j := range env {
			env[j] /= top
		}
	}
	return env
}

// tailLevel returns the largest magnitude at or beyond index from,
// relative to the largest magnitude overall.
func tailLevel(a []float64, from int) float64 {
	top, tail := 0.0, 0.0
	for i, v := range a {
		v = math.Abs(v)
		top = math.Max(top, v)
		if i >= from {
			tail = math.Max(tail, v)
		}
	}
	if top == 0 {
		return 0
	}
	return tail / top
}
