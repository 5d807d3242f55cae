package handlers

import (
	"net/http"
	"pathmatrix-service/internal/api/dto"
	"pathmatrix-service/internal/ports"
	"pathmatrix-service/internal/services"

	"golang.org/x/time/rate"
)

// OptimizeHandler runs a solve for a session. Solves are expensive, so a
// shared limiter caps how often they may start.
type OptimizeHandler struct {
	Store     ports.SessionStore
	Optimizer *services.Optimizer
	// Limiter is optional; nil disables rate limiting.
	Limiter *rate.Limiter
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	s, ok := loadSession(w, r, h.Store)
	if !ok {
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow() {
		w.Header().Set("Retry-After", "60")
		writeError(w, r, http.StatusTooManyRequests, "too many optimization requests; try again shortly")
		return
	}

	view, err := h.Optimizer.Optimize(r.Context(), s, services.ConfigOverrides{
		VehicleCapacity:     req.VehicleCapacity,
		MaxVehiclesPerRoute: req.MaxVehiclesPerRoute,
		CostPerKm:           req.CostPerKm,
		MinCostPerTrip:      req.MinCostPerTrip,
		SolverTimeLimitMs:   req.SolverTimeLimitMs,
	})
	if err != nil {
		writeServiceError(w, r, "optimize", err)
		return
	}

	if err := h.Store.Save(r.Context(), s); err != nil {
		writeServiceError(w, r, "save session", err)
		return
	}

	writeJSON(w, r, http.StatusOK, view)
}
