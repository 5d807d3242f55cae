package api

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"pathmatrix-service/internal/adapters/repositories"
	"pathmatrix-service/internal/adapters/sessions"
	"pathmatrix-service/internal/adapters/solver"
	"pathmatrix-service/internal/api/dto"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/metrics"
	"pathmatrix-service/internal/services"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

type testServer struct {
	handler http.Handler
	solver  *solver.MockSolver
}

func optimalOutcome() domain.Outcome {
	return domain.Success{Result: &domain.SolverResult{
		Status:           domain.ParseStatus("OPTIMAL"),
		TotalCost:        1500,
		TotalKm:          980,
		SolveTimeSeconds: 2.5,
		Routes: []domain.RouteRecord{
			{From: "Dortmund", To: "Berlin", Vehicles: 2, Packages: 280, Km: 490, Cost: 980},
		},
		MapHTML: "<html>routes</html>",
		ActiveRoutes: []domain.ActiveRouteAssignment{
			{From: "Dortmund", To: "Berlin", Vehicles: 2, Packages: 280, Km: 490, Sequence: 1},
		},
	}}
}

func newTestServer(t *testing.T, limiter *rate.Limiter) *testServer {
	t.Helper()

	cfg := domain.DefaultSolverConfig()
	mock := solver.NewMockSolver(optimalOutcome())
	runs := repositories.NewMemoryRunRepository()

	h := NewRouter(Deps{
		Sessions:  sessions.NewMemoryStore(time.Hour),
		Runs:      runs,
		Optimizer: &services.Optimizer{Solver: mock, Runs: runs, Config: cfg},
		Config:    cfg,
		Limiter:   limiter,
	})

	return &testServer{handler: h, solver: mock}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
	return v
}

func (s *testServer) createSession(t *testing.T, body string) dto.SessionResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/sessions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[dto.SessionResponse](t, rec)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	rec = srv.do(t, http.MethodPost, "/health", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Fatalf("expected Allow: GET, got %q", rec.Header().Get("Allow"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RegisterDefault()
	srv := newTestServer(t, nil)

	srv.do(t, http.MethodGet, "/health", "")
	rec := srv.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	res := decodeBody[dto.ConfigResponse](t, rec)
	if res.Hub != "Dortmund" || len(res.Cities) != 11 || res.MaxTotalCapacity != 20000 {
		t.Fatalf("unexpected config %+v", res)
	}
}

func TestCreateSessionAutoDistribution(t *testing.T) {
	srv := newTestServer(t, nil)

	res := srv.createSession(t, `{"total_packages": 1000}`)
	if res.FinalTotalPackages != 1000 {
		t.Fatalf("expected final total 1000, got %d", res.FinalTotalPackages)
	}
	if res.Demand["Berlin"] != 280 {
		t.Fatalf("expected Berlin 280, got %d", res.Demand["Berlin"])
	}
	// The hub carries a demand overlay on top of its own marker.
	if len(res.Markers) != 12 {
		t.Fatalf("expected 12 markers, got %d", len(res.Markers))
	}

	sum := 0
	for _, n := range res.Demand {
		sum += n
	}
	if sum != 1000 {
		t.Fatalf("expected demand to sum to 1000, got %d", sum)
	}
}

func TestUpdateDistributionManual(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createSession(t, "")

	rec := srv.do(t, http.MethodPut, "/sessions/"+created.ID+"/distribution",
		`{"manual": true, "manual_entries": {"Berlin": 120, "Munich": 30}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	res := decodeBody[dto.SessionResponse](t, rec)
	if res.FinalTotalPackages != 150 || res.Demand["Berlin"] != 120 || res.Demand["Munich"] != 30 {
		t.Fatalf("unexpected manual demand %+v", res)
	}

	rec = srv.do(t, http.MethodPut, "/sessions/"+created.ID+"/distribution", `{"manual_entries": {"Berlin": -5}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative entry, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPut, "/sessions/"+created.ID+"/distribution", `{"bogus": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/sessions/"+created.ID, "")
	res = decodeBody[dto.SessionResponse](t, rec)
	if res.Demand["Berlin"] != 120 {
		t.Fatalf("rejected update must not change the session, got %+v", res.Demand)
	}
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/sessions/nope", "/sessions/6f1c2f58-7a43-4b8e-9b5e-0d6c3c1f2a10"} {
		rec := srv.do(t, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestOptimizeFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createSession(t, `{"total_packages": 1000}`)
	base := "/sessions/" + created.ID

	rec := srv.do(t, http.MethodGet, base+"/result", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before optimize, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, base+"/optimize", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[domain.View](t, rec)
	if view.Branch != domain.BranchOptimal || view.Summary == nil {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(view.Routes) != 1 || view.Routes[0].UtilizationPct != 70 {
		t.Fatalf("unexpected routes %+v", view.Routes)
	}

	reqs := srv.solver.Requests()
	if len(reqs) != 1 || reqs[0].Demand.Total() != 1000 {
		t.Fatalf("unexpected solver requests %+v", reqs)
	}

	rec = srv.do(t, http.MethodGet, base+"/result", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected stored result, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, base+"/runs", "")
	runs := decodeBody[dto.ListRunsResponse](t, rec)
	if len(runs.Runs) != 1 || runs.Runs[0].Branch != "optimal" {
		t.Fatalf("unexpected runs %+v", runs)
	}

	rec = srv.do(t, http.MethodGet, base+"/exports/results.zip", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/zip" {
		t.Fatalf("expected zip export, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = srv.do(t, http.MethodGet, base+"/exports/route_map.html", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "<html>routes</html>" {
		t.Fatalf("unexpected route map export %d %q", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, base+"/exports/vehicle_schedule.png", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a gantt chart, got %d", rec.Code)
	}
}

func readCSVFromZip(t *testing.T, b []byte, name string) [][]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	f, err := zr.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return rows
}

func TestExportUsesSolvedDemandAfterDistributionChange(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createSession(t, `{"total_packages": 1000}`)
	base := "/sessions/" + created.ID

	if rec := srv.do(t, http.MethodPost, base+"/optimize", ""); rec.Code != http.StatusOK {
		t.Fatalf("optimize: expected 200, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPut, base+"/distribution", `{"total_packages": 5000}`); rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := srv.do(t, http.MethodGet, base+"/exports/results.zip", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", rec.Code)
	}

	demand := readCSVFromZip(t, rec.Body.Bytes(), "Demand.csv")
	sum := 0
	for _, row := range demand[1:] {
		n, err := strconv.Atoi(row[1])
		if err != nil {
			t.Fatalf("bad demand row %v", row)
		}
		sum += n
	}
	if sum != 1000 {
		t.Fatalf("expected exported demand of the solved run (1000), got %d", sum)
	}

	summary := readCSVFromZip(t, rec.Body.Bytes(), "Summary.csv")
	if summary[2][0] != "Cost per Ordered Package (€)" || summary[2][1] != "1.50" {
		t.Fatalf("unexpected summary %v", summary)
	}
}

func TestCreateManualSessionOverMaximum(t *testing.T) {
	srv := newTestServer(t, nil)
	cfg := domain.DefaultSolverConfig()

	entries := map[string]int{}
	for _, name := range cfg.AvailableCities() {
		entries[name] = cfg.RecommendedMaxPerCity()
	}
	body, err := json.Marshal(map[string]any{"manual": true, "manual_entries": entries})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := srv.do(t, http.MethodPost, "/sessions", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a manual total above %d, got %d", cfg.MaxTotalPackages, rec.Code)
	}
}

func TestOptimizeRejectsZeroTotal(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createSession(t, "")

	rec := srv.do(t, http.MethodPost, "/sessions/"+created.ID+"/optimize", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(srv.solver.Requests()) != 0 {
		t.Fatalf("solver must not be called for an empty distribution")
	}
}

func TestOptimizeTransportFailureRendersFailedView(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.solver.SetOutcome(domain.TransportFailure{Reason: "Connection error: connection refused"})
	created := srv.createSession(t, `{"total_packages": 500}`)

	rec := srv.do(t, http.MethodPost, "/sessions/"+created.ID+"/optimize", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view := decodeBody[domain.View](t, rec)
	if view.Branch != domain.BranchFailed || view.ErrorKind != domain.KindTransportFailure {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Summary != nil || len(view.Routes) != 0 {
		t.Fatalf("failed view must not carry solution data")
	}

	rec = srv.do(t, http.MethodGet, "/sessions/"+created.ID+"/exports/results.zip", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected no exports for a failed run, got %d", rec.Code)
	}
}

func TestOptimizeOverrides(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createSession(t, `{"total_packages": 100}`)

	rec := srv.do(t, http.MethodPost, "/sessions/"+created.ID+"/optimize", `{"vehicle_capacity": 150}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := srv.solver.Requests()[0].Config.VehicleCapacity; got != 150 {
		t.Fatalf("expected override capacity 150, got %d", got)
	}

	for _, body := range []string{
		`{"vehicle_capacity": 0}`,
		`{"vehicle_capacity": 4611686018427387904}`,
		`{"max_vehicles_per_route": 4611686018427387904}`,
		`{"cost_per_km": 1e300}`,
	} {
		rec = srv.do(t, http.MethodPost, "/sessions/"+created.ID+"/optimize", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for invalid override, got %d", body, rec.Code)
		}
	}
	if n := len(srv.solver.Requests()); n != 1 {
		t.Fatalf("rejected overrides must not reach the solver, got %d requests", n)
	}
}

func TestOptimizeRateLimited(t *testing.T) {
	srv := newTestServer(t, rate.NewLimiter(rate.Every(time.Hour), 1))
	created := srv.createSession(t, `{"total_packages": 100}`)
	path := "/sessions/" + created.ID + "/optimize"

	if rec := srv.do(t, http.MethodPost, path, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected first call to pass, got %d", rec.Code)
	}
	rec := srv.do(t, http.MethodPost, path, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}
