package ports

import (
	"context"
	"pathmatrix-service/internal/domain"
)

// Contract for submitting a routing problem to the external optimization service.
type SolverClient interface {
	// Solve performs one request. It never returns an error: every failure is
	// reported through one of the domain.Outcome variants.
	Solve(ctx context.Context, req domain.SolverRequest) domain.Outcome
}
