package solver

import (
	"context"
	"pathmatrix-service/internal/domain"
	"sync"
)

// MockSolver returns a fixed outcome and records the requests it received.
type MockSolver struct {
	mu       sync.Mutex
	outcome  domain.Outcome
	requests []domain.SolverRequest
}

func NewMockSolver(outcome domain.Outcome) *MockSolver {
	return &MockSolver{outcome: outcome}
}

func (m *MockSolver) Solve(ctx context.Context, req domain.SolverRequest) domain.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	return m.outcome
}

// SetOutcome replaces the outcome returned by later calls.
func (m *MockSolver) SetOutcome(o domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outcome = o
}

// Requests returns a copy of the requests seen so far.
func (m *MockSolver) Requests() []domain.SolverRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.SolverRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
