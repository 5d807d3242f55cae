package dto

import (
	"pathmatrix-service/internal/domain"
	"time"
)

// DistributionRequest is a partial update; omitted fields keep their value.
type DistributionRequest struct {
	TotalPackages *int           `json:"total_packages"`
	Manual        *bool          `json:"manual"`
	ManualEntries map[string]int `json:"manual_entries"`
}

type PreviewRow struct {
	Destination string  `json:"destination"`
	Packages    int     `json:"packages"`
	Percent     float64 `json:"percent"`
}

type Limits struct {
	MaxTotalPackages      int `json:"max_total_packages"`
	RecommendedMaxPerCity int `json:"recommended_max_per_city"`
	MaxTotalCapacity      int `json:"max_total_capacity"`
}

type SessionResponse struct {
	ID                 string                `json:"id"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	TotalPackages      int                   `json:"total_packages"`
	Manual             bool                  `json:"manual"`
	ManualEntries      map[string]int        `json:"manual_entries"`
	Demand             map[string]int        `json:"demand"`
	FinalTotalPackages int                   `json:"final_total_packages"`
	Preview            []PreviewRow          `json:"preview"`
	Markers            []domain.DemandMarker `json:"markers"`
	Limits             Limits                `json:"limits"`
	HasResult          bool                  `json:"has_result"`
	LastRunID          string                `json:"last_run_id,omitempty"`
}

type RunResponse struct {
	ID                 string         `json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	OutcomeKind        string         `json:"outcome_kind"`
	Status             string         `json:"status"`
	Branch             string         `json:"branch"`
	FinalTotalPackages int            `json:"final_total_packages"`
	Demand             map[string]int `json:"demand"`
	TotalCost          float64        `json:"total_cost"`
	TotalKm            float64        `json:"total_km"`
	DurationMs         int64          `json:"duration_ms"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
