package repositories

import (
	"context"
	"pathmatrix-service/internal/domain"
	"testing"
	"time"
)

func TestMemoryRunRepositoryListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRunRepository()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		run := domain.Run{
			ID:        id,
			SessionID: "s-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Demand:    domain.DemandMap{"Berlin": i},
		}
		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	if err := repo.SaveRun(ctx, domain.Run{ID: "x", SessionID: "s-2", CreatedAt: base}); err != nil {
		t.Fatalf("save x: %v", err)
	}

	runs, err := repo.ListRuns(ctx, "s-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}

	none, err := repo.ListRuns(ctx, "unknown", 10)
	if err != nil {
		t.Fatalf("list unknown: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestMemoryRunRepositoryRejectsMissingIDs(t *testing.T) {
	repo := NewMemoryRunRepository()
	if err := repo.SaveRun(context.Background(), domain.Run{ID: "a"}); err == nil {
		t.Fatalf("expected error for run without session id")
	}
}
