package testutil

import (
	"sync"

	"github.com/roach88/simpleik/internal/ik"
)

// CountingSolver wraps a solver and counts Solve calls.
//
// Used to verify node memoization: a node must solve at most once per
// dirty period no matter how many outputs are pulled.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CountingSolver struct {
	mu    sync.Mutex
	inner ik.Solver
	calls int
}

// NewCountingSolver wraps inner. A nil inner uses the closed-form solver.
func NewCountingSolver(inner ik.Solver) *CountingSolver {
	if inner == nil {
		inner = ik.Default
	}
	return &CountingSolver{inner: inner}
}

// Solve counts the call and delegates.
func (s *CountingSolver) Solve(in ik.Inputs) (ik.Outputs, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.inner.Solve(in)
}

// Calls returns the number of Solve calls so far.
func (s *CountingSolver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Reset zeroes the call count.
func (s *CountingSolver) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 0
}
