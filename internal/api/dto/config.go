package dto

type CityResponse struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Percent int     `json:"default_percent"`
	IsHub   bool    `json:"is_hub"`
}

type ConfigResponse struct {
	VehicleCapacity       int            `json:"vehicle_capacity"`
	MaxVehiclesPerRoute   int            `json:"max_vehicles_per_route"`
	CostPerKm             float64        `json:"cost_per_km"`
	MinCostPerTrip        float64        `json:"min_cost_per_trip"`
	SolverTimeLimitMs     int            `json:"solver_time_limit_ms"`
	SolverType            string         `json:"solver_type"`
	Hub                   string         `json:"hub"`
	Cities                []CityResponse `json:"cities"`
	AverageSpeedKmh       float64        `json:"average_speed_kmh"`
	UnloadTimeHours       float64        `json:"unload_time_hours"`
	MaxTotalPackages      int            `json:"max_total_packages"`
	MaxPackagesPerCity    int            `json:"max_packages_per_city"`
	RecommendedMaxPerCity int            `json:"recommended_max_per_city"`
	MaxTotalCapacity      int            `json:"max_total_capacity"`
}
