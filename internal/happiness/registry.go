package happiness

import (
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/chebgo/internal/core"
)

// Registry is a thread-safe set of named strategies. The zero value is not
// usable; create registries with NewRegistry.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates a registry with the built-in strategies registered:
//   - "standard": plateau detection with StandardChop (all bases)
//   - "classic": tail test with bang-for-buck chopping (all bases)
//   - "strict": tail test at the target tolerance, no chopping (Chebyshev)
//   - "loose": shorter tail, length-scaled tolerance (Chebyshev)
//   - "plateau": standard, falling back to accepting a stalled floor (all bases)
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	for _, s := range builtinStrategies() {
		r.strategies[s.Name()] = s
	}
	return r
}

// Register adds a strategy. Names must be non-empty and unique.
func (r *Registry) Register(s Strategy) error {
	if s == nil || s.Name() == "" {
		return fmt.Errorf("happiness: strategy must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[s.Name()]; exists {
		return fmt.Errorf("happiness: strategy %q already registered", s.Name())
	}
	r.strategies[s.Name()] = s
	return nil
}

// Lookup returns the strategy registered under name if it supports kind.
// It fails with core.ErrUnknownStrategy or core.ErrUnsupportedStrategy.
func (r *Registry) Lookup(name string, kind core.Kind) (Strategy, error) {
	r.mu.RLock()
	s, ok := r.strategies[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownStrategy, name)
	}
	if !s.Supports(kind) {
		return nil, fmt.Errorf("%w: %q does not support %v", core.ErrUnsupportedStrategy, name, kind)
	}
	return s, nil
}

// Has reports whether a strategy is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.strategies[name]
	return ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListFor returns the sorted names of the strategies supporting kind.
func (r *Registry) ListFor(kind core.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name, s := range r.strategies {
		if s.Supports(kind) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var globalRegistry = NewRegistry()

// Default returns the process-wide registry used by Check.
func Default() *Registry {
	return globalRegistry
}

// Register adds a strategy to the default registry.
func Register(s Strategy) error {
	return globalRegistry.Register(s)
}
