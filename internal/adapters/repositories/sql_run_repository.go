package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/obs"
	"time"
)

// SQLRunRepository stores optimize run history in Postgres.
type SQLRunRepository struct {
	DB *sql.DB
}

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

func (r *SQLRunRepository) SaveRun(ctx context.Context, run domain.Run) (err error) {
	defer obs.Time(ctx, "runs.SaveRun")(&err)

	if r.DB == nil {
		return errors.New("run repository: db is nil")
	}
	if run.ID == "" || run.SessionID == "" {
		return errors.New("save run: id and session id must not be empty")
	}

	demand, err := json.Marshal(run.Demand)
	if err != nil {
		return fmt.Errorf("save run: encode demand: %w", err)
	}

	q := `
	INSERT INTO solve_runs (
		id, session_id, created_at, demand, final_total_packages,
		outcome_kind, status, branch, total_cost, total_km, duration_ms
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE
	SET status = EXCLUDED.status,
		branch = EXCLUDED.branch,
		total_cost = EXCLUDED.total_cost,
		total_km = EXCLUDED.total_km,
		duration_ms = EXCLUDED.duration_ms;
	`

	_, err = r.DB.ExecContext(ctx, q,
		run.ID, run.SessionID, run.CreatedAt.UTC(), string(demand), run.FinalTotalPackages,
		run.OutcomeKind, run.Status, string(run.Branch), run.TotalCost, run.TotalKm, run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("save run id=%s: %w", run.ID, err)
	}

	return nil
}

func (r *SQLRunRepository) ListRuns(ctx context.Context, sessionID string, limit int) (_ []domain.Run, err error) {
	defer obs.Time(ctx, "runs.ListRuns")(&err)

	if r.DB == nil {
		return nil, errors.New("run repository: db is nil")
	}
	if limit <= 0 {
		return []domain.Run{}, nil
	}

	q := `
	SELECT id, session_id, created_at, demand, final_total_packages,
		outcome_kind, status, branch, total_cost, total_km, duration_ms
	FROM solve_runs
	WHERE session_id = $1
	ORDER BY created_at DESC, id
	LIMIT $2;
	`

	rows, err := r.DB.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query solve_runs table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Run, 0, limit)
	for rows.Next() {
		var (
			run        domain.Run
			demand     []byte
			branch     string
			durationMs int64
		)
		if err := rows.Scan(
			&run.ID, &run.SessionID, &run.CreatedAt, &demand, &run.FinalTotalPackages,
			&run.OutcomeKind, &run.Status, &branch, &run.TotalCost, &run.TotalKm, &durationMs,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		if err := json.Unmarshal(demand, &run.Demand); err != nil {
			return nil, fmt.Errorf("list runs: decode demand for run %s: %w", run.ID, err)
		}
		run.Branch = domain.Branch(branch)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return out, nil
}

// PruneRuns deletes runs created before cutoff and reports how many went.
func (r *SQLRunRepository) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.DB == nil {
		return 0, errors.New("run repository: db is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM solve_runs WHERE created_at < $1;`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}

	return n, nil
}
