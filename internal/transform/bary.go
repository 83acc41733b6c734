package transform

// BaryWeights returns the barycentric weights of ChebPoints(n):
// alternating signs, halved at both ends.
func BaryWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}
	w := make([]float64, n)
	for j := range w {
		w[j] = 1
		if j%2 == 1 {
			w[j] = -1
		}
	}
	w[0] /= 2
	w[n-1] /= 2
	return w
}

// InteriorBaryWeights returns the barycentric weights of the interior
// points of ChebPoints(n), used to extrapolate to the endpoints.
func InteriorBaryWeights(n int) []float64 {
	x := ChebPoints(n)
	if n < 3 {
		return nil
	}
	w := make([]float64, n-2)
	for j := 1; j < n-1; j++ {
		w[j-1] = 1 - x[j]*x[j]
		if j%2 == 1 {
			w[j-1] = -w[j-1]
		}
	}
	return w
}

// BaryInterp evaluates the barycentric interpolant through (nodes, vals)
// with the given weights at each point of at. Points that coincide with a
// node return the node value exactly.
func BaryInterp(nodes, vals, weights, at []float64) []float64 {
	out := make([]float64, len(at))
	for i, x := range at {
		var num, den float64
		exact := -1
		for j, xj := range nodes {
			d := x - xj
			if d == 0 {
				exact = j
				break
			}
			t := weights[j] / d
			num += t * vals[j]
			den += t
		}
		if exact >= 0 {
			out[i] = vals[exact]
			continue
		}
		out[i] = num / den
	}
	return out
}
