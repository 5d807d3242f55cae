package dto

// OptimizeRequest carries optional per-request solver parameter overrides.
// An empty body uses the server configuration unchanged.
type OptimizeRequest struct {
	VehicleCapacity     *int     `json:"vehicle_capacity"`
	MaxVehiclesPerRoute *int     `json:"max_vehicles_per_route"`
	CostPerKm           *float64 `json:"cost_per_km"`
	MinCostPerTrip      *float64 `json:"min_cost_per_trip"`
	SolverTimeLimitMs   *int     `json:"solver_time_limit_ms"`
}
