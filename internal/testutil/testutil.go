// Package testutil holds helpers shared by the tests of several packages.
package testutil

import (
	"math"
	"regexp"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI CSI escape sequences from s.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Grid returns n equispaced points from a to b inclusive.
func Grid(a, b float64, n int) []float64 {
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	out[n-1] = b
	return out
}

// MaxError returns the largest absolute difference between got and want
// over all columns at the points xs.
func MaxError(got, want func(float64) []float64, xs []float64) float64 {
	e := 0.0
	for _, x := range xs {
		g, w := got(x), want(x)
		for c := range w {
			e = math.Max(e, math.Abs(g[c]-w[c]))
		}
	}
	return e
}
