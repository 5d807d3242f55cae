package ports

import (
	"context"
	"pathmatrix-service/internal/domain"
)

// Port: a boundary for recording optimize runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.Run) error
	// Return the most recent runs for a session, newest first.
	ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.Run, error)
}
