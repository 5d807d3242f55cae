package services

import (
	"fmt"
	"maps"
	"pathmatrix-service/internal/domain"
	"time"
)

// NewSession returns an empty session in automatic mode. Its demand is stale
// until the first recompute.
func NewSession(id string, now time.Time) *domain.Session {
	return &domain.Session{
		ID:             id,
		CreatedAt:      now,
		UpdatedAt:      now,
		ManualEntries:  map[string]int{},
		Demand:         domain.DemandMap{},
		NeedsRecompute: true,
	}
}

// DistributionInput is a partial update of the distribution inputs.
// Nil fields are left unchanged; ManualEntries are merged per destination.
type DistributionInput struct {
	TotalPackages *int
	Manual        *bool
	ManualEntries map[string]int
}

// ApplyDistributionInput validates and records new distribution inputs.
// The session is only modified when the whole input is valid; any effective
// change marks it for recompute.
func ApplyDistributionInput(s *domain.Session, in DistributionInput, cfg domain.SolverConfig) error {
	if in.TotalPackages != nil {
		total := *in.TotalPackages
		if total < 0 {
			return &domain.ValidationError{Field: "total_packages", Message: fmt.Sprintf("must not be negative, got %d", total)}
		}
		if cfg.MaxTotalPackages > 0 && total > cfg.MaxTotalPackages {
			return &domain.ValidationError{
				Field:   "total_packages",
				Message: fmt.Sprintf("%d exceeds the maximum of %d", total, cfg.MaxTotalPackages),
			}
		}
	}

	entries := s.ManualEntries
	if len(in.ManualEntries) > 0 {
		entries = maps.Clone(s.ManualEntries)
		if entries == nil {
			entries = map[string]int{}
		}
		maps.Copy(entries, in.ManualEntries)
		if _, _, err := CollectManualDistribution(entries, cfg); err != nil {
			return err
		}
	}

	changed := false
	if in.TotalPackages != nil && *in.TotalPackages != s.TotalPackages {
		s.TotalPackages = *in.TotalPackages
		changed = true
	}
	if in.Manual != nil && *in.Manual != s.Manual {
		s.Manual = *in.Manual
		changed = true
	}
	if !maps.Equal(entries, s.ManualEntries) {
		s.ManualEntries = entries
		changed = true
	}

	if changed {
		s.MarkForRecompute()
	}
	return nil
}

// Recompute rebuilds the demand map, final total and map markers when the
// session is flagged, then clears the flag. It reports whether work was done.
func Recompute(s *domain.Session, cfg domain.SolverConfig) (bool, error) {
	if !s.NeedsRecompute {
		return false, nil
	}

	var (
		demand domain.DemandMap
		total  int
		err    error
	)
	if s.Manual {
		demand, total, err = CollectManualDistribution(s.ManualEntries, cfg)
	} else {
		demand, err = ComputeAutoDistribution(s.TotalPackages, cfg.DefaultDistribution)
		total = s.TotalPackages
	}
	if err != nil {
		return false, fmt.Errorf("recompute distribution: %w", err)
	}

	s.Demand = demand
	s.FinalTotalPackages = total
	s.Markers = BuildDemandMarkers(demand, cfg)
	s.NeedsRecompute = false

	return true, nil
}
