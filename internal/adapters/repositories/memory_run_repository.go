package repositories

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"pathmatrix-service/internal/domain"
	"slices"
	"sync"
)

// MemoryRunRepository keeps run history in process memory. It is used when
// no database is configured.
type MemoryRunRepository struct {
	mu   sync.Mutex
	runs map[string][]domain.Run
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{runs: make(map[string][]domain.Run)}
}

func (m *MemoryRunRepository) SaveRun(ctx context.Context, run domain.Run) error {
	if run.ID == "" || run.SessionID == "" {
		return errors.New("save run: id and session id must not be empty")
	}
	run.Demand = maps.Clone(run.Demand)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[run.SessionID] = append(m.runs[run.SessionID], run)
	return nil
}

func (m *MemoryRunRepository) ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		return []domain.Run{}, nil
	}

	m.mu.Lock()
	runs := slices.Clone(m.runs[sessionID])
	m.mu.Unlock()

	slices.SortStableFunc(runs, func(a, b domain.Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	if runs == nil {
		runs = []domain.Run{}
	}

	return runs, nil
}
