//go:build postgres_integration

package repositories

import (
	"os"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/db"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestSQLRunRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	conn, err := db.Open(t.Context(), dsn, db.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	repo := NewSQLRunRepository(conn)
	sessionID := "it-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := domain.Run{
		ID: uuid.NewString(), SessionID: sessionID, CreatedAt: base.Add(-time.Minute),
		Demand: domain.DemandMap{"Berlin": 280}, FinalTotalPackages: 280,
		OutcomeKind: "success", Status: "OPTIMAL", Branch: domain.BranchOptimal,
		TotalCost: 980, TotalKm: 490, Duration: 3 * time.Second,
	}
	newer := domain.Run{
		ID: uuid.NewString(), SessionID: sessionID, CreatedAt: base,
		Demand: domain.DemandMap{"Berlin": 5000}, FinalTotalPackages: 5000,
		OutcomeKind: "timeout", Status: "FAILED: Timeout", Branch: domain.BranchFailed,
		Duration: 120 * time.Second,
	}
	for _, run := range []domain.Run{older, newer} {
		if err := repo.SaveRun(t.Context(), run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	runs, err := repo.ListRuns(t.Context(), sessionID, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID || runs[0].Branch != domain.BranchFailed {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
	if runs[1].Demand["Berlin"] != 280 || runs[1].Duration != 3*time.Second {
		t.Fatalf("unexpected older run %+v", runs[1])
	}

	n, err := repo.PruneRuns(t.Context(), base.Add(-30*time.Second))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n < 1 {
		t.Fatalf("expected at least one pruned run, got %d", n)
	}
}
