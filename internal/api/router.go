package api

import (
	"net/http"
	"pathmatrix-service/internal/api/handlers"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/metrics"
	"pathmatrix-service/internal/ports"
	"pathmatrix-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sessions  ports.SessionStore
	Runs      ports.RunRepository
	Optimizer *services.Optimizer
	Config    domain.SolverConfig
	// Limiter caps optimize calls; nil disables it.
	Limiter *rate.Limiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	configHandler := &handlers.ConfigHandler{Config: d.Config}
	sessionHandler := &handlers.SessionHandler{
		Store:  d.Sessions,
		Runs:   d.Runs,
		Config: d.Config,
	}
	optimizeHandler := &handlers.OptimizeHandler{
		Store:     d.Sessions,
		Optimizer: d.Optimizer,
		Limiter:   d.Limiter,
	}
	exportHandler := &handlers.ExportHandler{Store: d.Sessions, Config: d.Config}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/config", configHandler.Get)
	mux.HandleFunc("/sessions", sessionHandler.Create)
	mux.HandleFunc("/sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("/sessions/{id}/distribution", sessionHandler.UpdateDistribution)
	mux.HandleFunc("/sessions/{id}/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/sessions/{id}/result", sessionHandler.Result)
	mux.HandleFunc("/sessions/{id}/runs", sessionHandler.ListRuns)
	mux.HandleFunc("/sessions/{id}/exports/{name}", exportHandler.Download)

	return requestIDMiddleware(loggingMiddleware(mux))
}
