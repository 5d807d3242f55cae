package handlers

import (
	"net/http"
	"pathmatrix-service/internal/api/dto"
	"pathmatrix-service/internal/domain"
)

// ConfigHandler exposes the read-only solver configuration.
type ConfigHandler struct {
	Config domain.SolverConfig
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	cfg := h.Config
	percents := cfg.Percentages()

	res := dto.ConfigResponse{
		VehicleCapacity:       cfg.VehicleCapacity,
		MaxVehiclesPerRoute:   cfg.MaxVehiclesPerRoute,
		CostPerKm:             cfg.CostPerKm,
		MinCostPerTrip:        cfg.MinCostPerTrip,
		SolverTimeLimitMs:     cfg.SolverTimeLimitMs,
		SolverType:            cfg.SolverType,
		Hub:                   cfg.Hub,
		Cities:                make([]dto.CityResponse, 0, len(cfg.Cities)),
		AverageSpeedKmh:       cfg.AverageSpeedKmh,
		UnloadTimeHours:       cfg.UnloadTimeHours,
		MaxTotalPackages:      cfg.MaxTotalPackages,
		MaxPackagesPerCity:    cfg.MaxPackagesPerCity,
		RecommendedMaxPerCity: cfg.RecommendedMaxPerCity(),
		MaxTotalCapacity:      cfg.MaxTotalCapacity(),
	}
	for _, c := range cfg.Cities {
		res.Cities = append(res.Cities, dto.CityResponse{
			Name:    c.Name,
			Lat:     c.Coords.Lat,
			Lon:     c.Coords.Lon,
			Percent: percents[c.Name],
			IsHub:   c.Name == cfg.Hub,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
