package handlers

import (
	"bytes"
	"net/http"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/export"
	"pathmatrix-service/internal/ports"
	"pathmatrix-service/internal/services"
	"slices"
	"strconv"
)

// ExportHandler serves the downloads advertised by a session's last result.
type ExportHandler struct {
	Store  ports.SessionStore
	Config domain.SolverConfig
}

func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	s, ok := loadSession(w, r, h.Store)
	if !ok {
		return
	}

	name := r.PathValue("name")
	view := s.LastView
	if view == nil || !slices.ContainsFunc(view.Exports, func(e domain.ExportOption) bool { return e.Name == name }) {
		writeError(w, r, http.StatusNotFound, "export not available")
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch name {
	case services.ExportWorkbook:
		var buf bytes.Buffer
		err := export.WriteWorkbook(&buf, export.WorkbookInput{
			View:        *view,
			Order:       h.Config.AvailableCities(),
			GeneratedAt: s.UpdatedAt,
		})
		if err != nil {
			writeServiceError(w, r, "export workbook", err)
			return
		}
		body, contentType = buf.Bytes(), "application/zip"
	case services.ExportRouteMap:
		body, contentType = []byte(view.MapHTML), "text/html; charset=utf-8"
	case services.ExportSchedule:
		if view.Schedule == nil {
			writeError(w, r, http.StatusNotFound, "export not available")
			return
		}
		body, contentType = view.Schedule.GanttPNG, "image/png"
	default:
		writeError(w, r, http.StatusNotFound, "export not available")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="pathmatrix_`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Last-Modified", s.UpdatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
