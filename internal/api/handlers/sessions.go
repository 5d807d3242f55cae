package handlers

import (
	"net/http"
	"pathmatrix-service/internal/api/dto"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/ports"
	"pathmatrix-service/internal/services"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// SessionHandler manages per-user distribution state.
type SessionHandler struct {
	Store  ports.SessionStore
	Runs   ports.RunRepository
	Config domain.SolverConfig
	Now    func() time.Time
}

func (h *SessionHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Create starts a session. The body is optional and takes the same fields
// as a distribution update.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.DistributionRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	s := services.NewSession(uuid.NewString(), h.now())
	if err := services.ApplyDistributionInput(s, toDistributionInput(req), h.Config); err != nil {
		writeServiceError(w, r, "create session", err)
		return
	}
	if !h.recomputeAndSave(w, r, s) {
		return
	}

	writeJSON(w, r, http.StatusCreated, h.toResponse(s))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	s, ok := loadSession(w, r, h.Store)
	if !ok {
		return
	}
	if s.NeedsRecompute && !h.recomputeAndSave(w, r, s) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.toResponse(s))
}

// UpdateDistribution applies a partial distribution update and returns the
// recomputed session.
func (h *SessionHandler) UpdateDistribution(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}

	var req dto.DistributionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	s, ok := loadSession(w, r, h.Store)
	if !ok {
		return
	}
	if err := services.ApplyDistributionInput(s, toDistributionInput(req), h.Config); err != nil {
		writeServiceError(w, r, "update distribution", err)
		return
	}
	if !h.recomputeAndSave(w, r, s) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.toResponse(s))
}

// Result returns the view rendered by the most recent optimize action.
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	s, ok := loadSession(w, r, h.Store)
	if !ok {
		return
	}
	if s.LastView == nil {
		writeError(w, r, http.StatusNotFound, "no optimization result for this session")
		return
	}

	writeJSON(w, r, http.StatusOK, s.LastView)
}

// ListRuns returns the session's optimize history, newest first.
func (h *SessionHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxRunsLimit))
			return
		}
		limit = n
	}

	s, ok := loadSession(w, r, h.Store)
	if !ok {
		return
	}

	res := dto.ListRunsResponse{Runs: []dto.RunResponse{}}
	if h.Runs != nil {
		runs, err := h.Runs.ListRuns(r.Context(), s.ID, limit)
		if err != nil {
			writeServiceError(w, r, "list runs", err)
			return
		}
		for _, run := range runs {
			res.Runs = append(res.Runs, dto.RunResponse{
				ID:                 run.ID,
				CreatedAt:          run.CreatedAt,
				OutcomeKind:        run.OutcomeKind,
				Status:             run.Status,
				Branch:             string(run.Branch),
				FinalTotalPackages: run.FinalTotalPackages,
				Demand:             run.Demand,
				TotalCost:          run.TotalCost,
				TotalKm:            run.TotalKm,
				DurationMs:         run.Duration.Milliseconds(),
			})
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SessionHandler) recomputeAndSave(w http.ResponseWriter, r *http.Request, s *domain.Session) bool {
	if _, err := services.Recompute(s, h.Config); err != nil {
		writeServiceError(w, r, "recompute distribution", err)
		return false
	}
	s.UpdatedAt = h.now()

	if err := h.Store.Save(r.Context(), s); err != nil {
		writeServiceError(w, r, "save session", err)
		return false
	}
	return true
}

func (h *SessionHandler) toResponse(s *domain.Session) dto.SessionResponse {
	preview := services.DistributionPreview(s.Demand, s.FinalTotalPackages, h.Config.AvailableCities())
	rows := make([]dto.PreviewRow, 0, len(preview))
	for _, p := range preview {
		rows = append(rows, dto.PreviewRow{Destination: p.Destination, Packages: p.Packages, Percent: p.Percent})
	}

	markers := s.Markers
	if markers == nil {
		markers = []domain.DemandMarker{}
	}

	return dto.SessionResponse{
		ID:                 s.ID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		TotalPackages:      s.TotalPackages,
		Manual:             s.Manual,
		ManualEntries:      s.ManualEntries,
		Demand:             s.Demand,
		FinalTotalPackages: s.FinalTotalPackages,
		Preview:            rows,
		Markers:            markers,
		Limits: dto.Limits{
			MaxTotalPackages:      h.Config.MaxTotalPackages,
			RecommendedMaxPerCity: h.Config.RecommendedMaxPerCity(),
			MaxTotalCapacity:      h.Config.MaxTotalCapacity(),
		},
		HasResult: s.LastView != nil,
		LastRunID: s.LastRunID,
	}
}

func toDistributionInput(req dto.DistributionRequest) services.DistributionInput {
	return services.DistributionInput{
		TotalPackages: req.TotalPackages,
		Manual:        req.Manual,
		ManualEntries: req.ManualEntries,
	}
}
