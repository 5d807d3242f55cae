package domain

import "time"

// Session is the per-user state owned by the calling flow.
//
// NeedsRecompute is a cache-invalidation flag: any change to the distribution
// inputs sets it, and the next recompute clears it after rebuilding Demand and
// Markers. It is never contended; a session is handled by one flow at a time.
type Session struct {
	ID                 string         `json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	TotalPackages      int            `json:"total_packages"`
	Manual             bool           `json:"manual"`
	ManualEntries      map[string]int `json:"manual_entries"`
	Demand             DemandMap      `json:"demand"`
	FinalTotalPackages int            `json:"final_total_packages"`
	Markers            []DemandMarker `json:"markers"`
	NeedsRecompute     bool           `json:"needs_recompute"`
	LastView           *View          `json:"last_view,omitempty"`
	LastRunID          string         `json:"last_run_id,omitempty"`
}

// MarkForRecompute flags the derived demand as stale. Idempotent.
func (s *Session) MarkForRecompute() { s.NeedsRecompute = true }

// Run records one optimize invocation for history.
type Run struct {
	ID                 string
	SessionID          string
	CreatedAt          time.Time
	Demand             DemandMap
	FinalTotalPackages int
	OutcomeKind        string
	Status             string
	Branch             Branch
	TotalCost          float64
	TotalKm            float64
	Duration           time.Duration
}
