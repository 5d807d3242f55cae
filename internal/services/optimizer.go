package services

import (
	"context"
	"fmt"
	"log"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/metrics"
	"pathmatrix-service/internal/platform/obs"
	"pathmatrix-service/internal/ports"
	"time"

	"github.com/google/uuid"
)

// ConfigOverrides adjusts the shared solver configuration for one request.
type ConfigOverrides struct {
	VehicleCapacity     *int
	MaxVehiclesPerRoute *int
	CostPerKm           *float64
	MinCostPerTrip      *float64
	SolverTimeLimitMs   *int
}

func (o ConfigOverrides) apply(c *domain.SolverConfig) {
	if o.VehicleCapacity != nil {
		c.VehicleCapacity = *o.VehicleCapacity
	}
	if o.MaxVehiclesPerRoute != nil {
		c.MaxVehiclesPerRoute = *o.MaxVehiclesPerRoute
	}
	if o.CostPerKm != nil {
		c.CostPerKm = *o.CostPerKm
	}
	if o.MinCostPerTrip != nil {
		c.MinCostPerTrip = *o.MinCostPerTrip
	}
	if o.SolverTimeLimitMs != nil {
		c.SolverTimeLimitMs = *o.SolverTimeLimitMs
	}
}

// Optimizer drives one optimize action: distribution, solve, classification.
type Optimizer struct {
	Solver ports.SolverClient
	// Runs is optional; when nil, run history is not recorded.
	Runs   ports.RunRepository
	Config domain.SolverConfig
	Now    func() time.Time
}

func (o *Optimizer) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Optimize runs the full pipeline for a session and stores the resulting view
// on it. Only input validation produces an error; every solver problem is
// reported through the returned view.
func (o *Optimizer) Optimize(ctx context.Context, s *domain.Session, overrides ConfigOverrides) (_ domain.View, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if _, err := Recompute(s, o.Config); err != nil {
		return domain.View{}, fmt.Errorf("optimize: %w", err)
	}
	if s.FinalTotalPackages == 0 {
		msg := "define the total number of packages"
		if s.Manual {
			msg = "enter package quantities for at least one destination"
		}
		return domain.View{}, &domain.ValidationError{Field: "total_packages", Message: msg}
	}

	if t := overrides.SolverTimeLimitMs; t != nil && *t > o.Config.SolverTimeLimitMs {
		return domain.View{}, &domain.ValidationError{
			Field:   "solver_time_limit_ms",
			Message: fmt.Sprintf("must not exceed the server limit of %d", o.Config.SolverTimeLimitMs),
		}
	}

	cfg := o.Config.With(overrides.apply)
	if err := cfg.Validate(); err != nil {
		return domain.View{}, fmt.Errorf("optimize: %w", err)
	}

	req := domain.SolverRequest{Demand: s.Demand.Clone(), Config: cfg}

	start := o.now()
	outcome := o.Solver.Solve(ctx, req)
	elapsed := o.now().Sub(start)

	view := RouteOutcome(outcome, RenderContext{
		FinalTotalPackages: s.FinalTotalPackages,
		Demand:             req.Demand,
		Config:             cfg,
	})
	metrics.OptimizeBranches.WithLabelValues(string(view.Branch)).Inc()

	run := domain.Run{
		ID:                 uuid.NewString(),
		SessionID:          s.ID,
		CreatedAt:          start,
		Demand:             req.Demand,
		FinalTotalPackages: s.FinalTotalPackages,
		OutcomeKind:        domain.OutcomeKind(outcome),
		Status:             view.Status,
		Branch:             view.Branch,
		Duration:           elapsed,
	}
	if view.HasRoutes() && view.Summary != nil {
		run.TotalCost = view.Summary.TotalCost
		run.TotalKm = view.Summary.TotalKm
	}

	// Run history writes are best effort.
	if o.Runs != nil {
		if err := o.Runs.SaveRun(ctx, run); err != nil {
			log.Printf("run history write failed: session=%s run=%s err=%v", s.ID, run.ID, err)
		}
	}

	s.LastView = &view
	s.LastRunID = run.ID
	s.UpdatedAt = o.now()

	log.Printf("optimize session=%s run=%s outcome=%s branch=%s packages=%d dur=%dms",
		s.ID, run.ID, run.OutcomeKind, view.Branch, s.FinalTotalPackages, elapsed.Milliseconds())

	return view, nil
}
