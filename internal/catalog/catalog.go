// Package catalog provides named test functions that the command-line
// tool, the HTTP server and the benchmarks can construct by name.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/agbru/chebgo/internal/core"
)

// ErrUnknownFunction is returned when a name is not in the catalog.
var ErrUnknownFunction = errors.New("unknown function")

// Entry is a named operator with the settings it is best constructed with.
type Entry struct {
	// Name is the catalog key.
	Name string
	// Description is a one-line human readable formula.
	Description string
	// Op is the operator.
	Op core.Op
	// Domain is the default breakpoint vector.
	Domain []float64
	// Tech is the basis the function is meant for.
	Tech core.Kind
	// Splitting reports whether the function needs breakpoints to resolve.
	Splitting bool
}

// Columns returns the output width of the entry.
func (e Entry) Columns() int { return len(e.Op(0)) }

// Catalog is a thread-safe registry of entries.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a catalog with the built-in entries registered:
//   - "zero", "cos", "exp", "sin20", "recip", "runge", "tanh", "bessel"
//   - "t32": the Chebyshev polynomial of degree 32, aliased on 17 points
//   - "abs", "sign": non-smooth, resolved by splitting
//   - "periodic": exp(sin(pi x)) in the Fourier basis
//   - "trio": the three columns sin, cos and exp
func New() *Catalog {
	c := &Catalog{entries: make(map[string]Entry)}
	for _, e := range builtins() {
		c.entries[e.Name] = e
	}
	return c
}

// Register adds an entry. Names must be unique and the operator non-nil.
func (c *Catalog) Register(e Entry) error {
	if e.Name == "" || e.Op == nil {
		return fmt.Errorf("catalog: entry needs a name and an operator")
	}
	if len(e.Domain) == 0 {
		e.Domain = []float64{-1, 1}
	}
	if err := core.ValidateDomain(e.Domain); err != nil {
		return fmt.Errorf("catalog: %s: %w", e.Name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[e.Name]; exists {
		return fmt.Errorf("catalog: %q already registered", e.Name)
	}
	c.entries[e.Name] = e
	return nil
}

// Get returns the entry registered under name.
func (c *Catalog) Get(name string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	e.Domain = append([]float64(nil), e.Domain...)
	return e, nil
}

// List returns the sorted entry names.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preferences returns p adjusted to the entry: its basis, its domain and
// splitting when the entry needs it.
func (e Entry) Preferences(p core.Preferences) core.Preferences {
	p.Tech = e.Tech
	p.Domain = append([]float64(nil), e.Domain...)
	p.Splitting = p.Splitting || e.Splitting
	return p
}

func builtins() []Entry {
	unit := []float64{-1, 1}
	return []Entry{
		{Name: "zero", Description: "f(x) = 0", Op: core.Scalar(func(float64) float64 { return 0 }), Domain: unit},
		{Name: "cos", Description: "f(x) = cos(x)", Op: core.Scalar(math.Cos), Domain: unit},
		{Name: "exp", Description: "f(x) = exp(x)", Op: core.Scalar(math.Exp), Domain: unit},
		{Name: "sin20", Description: "f(x) = sin(20x)", Op: core.Scalar(func(x float64) float64 { return math.Sin(20 * x) }), Domain: unit},
		{Name: "recip", Description: "f(x) = 1/(x-2)", Op: core.Scalar(func(x float64) float64 { return 1 / (x - 2) }), Domain: unit},
		{Name: "runge", Description: "f(x) = 1/(1+25x^2)", Op: core.Scalar(func(x float64) float64 { return 1 / (1 + 25*x*x) }), Domain: unit},
		{Name: "tanh", Description: "f(x) = tanh(50x)", Op: core.Scalar(func(x float64) float64 { return math.Tanh(50 * x) }), Domain: unit},
		{Name: "bessel", Description: "f(x) = J0(x) on [0, 40]", Op: core.Scalar(math.J0), Domain: []float64{0, 40}},
		{Name: "t32", Description: "f(x) = T_32(x)", Op: core.Scalar(func(x float64) float64 { return math.Cos(32 * math.Acos(math.Max(-1, math.Min(1, x)))) }), Domain: unit},
		{Name: "abs", Description: "f(x) = |x|", Op: core.Scalar(math.Abs), Domain: unit, Splitting: true},
		{Name: "sign", Description: "f(x) = sign(x)", Op: core.Scalar(sign), Domain: unit, Splitting: true},
		{Name: "periodic", Description: "f(x) = exp(sin(pi x)), periodic", Op: core.Scalar(func(x float64) float64 { return math.Exp(math.Sin(math.Pi * x)) }), Domain: unit, Tech: core.Fourier},
		{Name: "trio", Description: "f(x) = [sin(x), cos(x), exp(x)]", Op: core.Columns(math.Sin, math.Cos, math.Exp), Domain: unit},
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
