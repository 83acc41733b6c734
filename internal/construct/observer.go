package construct

import (
	"sync"

	"github.com/agbru/chebgo/internal/core"
)

// ─────────────────────────────────────────────────────────────────────────────
// Observer Pattern Interfaces
// ─────────────────────────────────────────────────────────────────────────────

// Event describes one attempt of the adaptive loop.
type Event struct {
	// Piece identifies the construction when several run side by side.
	Piece int
	// Attempt counts grid sizes tried so far, starting at 1.
	Attempt int
	// Kind is the basis being sampled.
	Kind core.Kind
	// Size is the grid size of this attempt.
	Size int
	// State is where the attempt left the loop: Refining, Resolved or
	// Exhausted.
	State State
	// Verdict is the happiness verdict for this size.
	Verdict core.Verdict
	// NonFinite reports that the operator returned NaN or Inf at an interior
	// grid point.
	NonFinite bool
}

// Observer receives one Event per attempt.
type Observer interface {
	Update(e Event)
}

// ─────────────────────────────────────────────────────────────────────────────
// Subject
// ─────────────────────────────────────────────────────────────────────────────

// Subject fans events out to registered observers in registration order.
// It is safe for concurrent use.
type Subject struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewSubject creates a subject with the given observers. Nil observers are
// skipped.
func NewSubject(observers ...Observer) *Subject {
	s := &Subject{}
	for _, o := range observers {
		s.Register(o)
	}
	return s
}

// Register adds an observer. A nil observer is ignored.
func (s *Subject) Register(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Unregister removes an observer if present.
func (s *Subject) Unregister(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.observers {
		if cur == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers e to every observer synchronously.
func (s *Subject) Notify(e Event) {
	if s == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(e)
	}
}

// ObserverCount returns the number of registered observers.
func (s *Subject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
