// Command generate-golden writes the Chebyshev coefficients of cos(wx) and
// sin(wx) on [-1, 1], from the Jacobi-Anger expansion, as golden data for
// the tech package tests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// GoldenData is one golden series.
type GoldenData struct {
	Function string    `json:"function"`
	Omega    float64   `json:"omega"`
	Coeffs   []float64 `json:"coeffs"`
}

// cases lists the frequencies and the number of coefficients kept for each.
var cases = []struct {
	omega float64
	n     int
}{
	{1, 16},
	{5, 28},
	{20, 48},
}

func main() {
	outputDir := flag.String("out", "internal/tech/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var data []GoldenData
	for _, c := range cases {
		data = append(data,
			GoldenData{Function: "cos", Omega: c.omega, Coeffs: cosCoeffs(c.omega, c.n)},
			GoldenData{Function: "sin", Omega: c.omega, Coeffs: sinCoeffs(c.omega, c.n)})
		fmt.Printf("Generated w=%g (%d coefficients)\n", c.omega, c.n)
	}

	filename := filepath.Join(*outputDir, "chebyshev_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// cosCoeffs returns the first n coefficients of
// cos(wx) = J0(w) + 2 sum_k (-1)^k J_2k(w) T_2k(x).
func cosCoeffs(w float64, n int) []float64 {
	c := make([]float64, n)
	for k := 0; k < n; k += 2 {
		v := 2 * math.Jn(k, w)
		if k == 0 {
			v /= 2
		}
		if (k/2)%2 == 1 {
			v = -v
		}
		c[k] = v
	}
	return c
}

// sinCoeffs returns the first n coefficients of
// sin(wx) = 2 sum_k (-1)^k J_2k+1(w) T_2k+1(x).
func sinCoeffs(w float64, n int) []float64 {
	c := make([]float64, n)
	for k := 1; k < n; k += 2 {
		v := 2 * math.Jn(k, w)
		if (k/2)%2 == 1 {
			v = -v
		}
		c[k] = v
	}
	return c
}
