package solver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"pathmatrix-service/internal/domain"
	"strings"
	"testing"
	"time"
)

const optimalBody = `{
	"solver_status": "OPTIMAL",
	"total_cost": 1234.5,
	"total_km": 987.6,
	"solve_time": 3.2,
	"tour_costs": [
		{"from": "Dortmund", "to": "Berlin", "vehicles": 2, "packages": 280, "km": 490.0, "cost": 980.0},
		{"from": "Dortmund", "to": "Krefeld", "vehicles": 1, "packages": 90, "km": 62.0, "cost": 100.0}
	],
	"map_html": "<html></html>",
	"gantt_base64": "iVBORw0KGgo=",
	"active_routes": [
		{"from": "Dortmund", "to": "Berlin", "vehicles": 2, "packages": 280, "km": 490.0},
		{"from": "Dortmund", "to": "Krefeld", "vehicles": 1, "packages": 90, "km": 62.0, "start": 0.0, "end": 1.3}
	]
}`

func newSolverServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testRequest() domain.SolverRequest {
	return domain.SolverRequest{
		Demand: domain.DemandMap{"Berlin": 280, "Krefeld": 90},
		Config: domain.DefaultSolverConfig(),
	}
}

func newTestClient(t *testing.T, endpoint string, margin time.Duration) *HTTPSolverClient {
	t.Helper()

	c, err := NewHTTPSolverClient(endpoint, "", margin)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewHTTPSolverClientRejectsBadEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "not a url", "ftp://example.com/solve", "/solve"} {
		if _, err := NewHTTPSolverClient(endpoint, "", 0); err == nil {
			t.Fatalf("expected error for endpoint %q", endpoint)
		}
	}
}

func TestTimeoutAddsMarginToSolverLimit(t *testing.T) {
	c := newTestClient(t, "http://localhost/solve", 0)

	got := c.Timeout(domain.DefaultSolverConfig())
	if got != 120*time.Second {
		t.Fatalf("expected 120s, got %s", got)
	}
}

func TestSolveOptimal(t *testing.T) {
	srv := newSolverServer(t, http.StatusOK, optimalBody)
	c := newTestClient(t, srv.URL, time.Second)

	out := c.Solve(context.Background(), testRequest())

	s, ok := out.(domain.Success)
	if !ok {
		t.Fatalf("expected Success, got %#v", out)
	}
	r := s.Result
	if r.Status.Kind != domain.StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %v", r.Status)
	}
	if r.TotalCost != 1234.5 || r.TotalKm != 987.6 || r.SolveTimeSeconds != 3.2 {
		t.Fatalf("unexpected totals: %+v", r)
	}
	if len(r.Routes) != 2 || r.Routes[0].RouteID() != "Dortmund → Berlin" {
		t.Fatalf("unexpected routes: %+v", r.Routes)
	}
	if len(r.ActiveRoutes) != 2 {
		t.Fatalf("expected 2 active routes, got %d", len(r.ActiveRoutes))
	}
	if r.ActiveRoutes[0].StartHour != nil {
		t.Fatalf("expected no start hour on first active route")
	}
	if r.ActiveRoutes[1].EndHour == nil || *r.ActiveRoutes[1].EndHour != 1.3 {
		t.Fatalf("expected end hour 1.3 on second active route")
	}
	if r.MapHTML != "<html></html>" {
		t.Fatalf("unexpected map html %q", r.MapHTML)
	}
}

func TestSolveSendsDemandAndConfig(t *testing.T) {
	var got map[string]json.RawMessage
	var auth, method string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = io.WriteString(w, `{"solver_status": "INFEASIBLE"}`)
	}))
	defer srv.Close()

	c, err := NewHTTPSolverClient(srv.URL, "secret", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.Solve(context.Background(), testRequest())

	if method != http.MethodPost {
		t.Fatalf("expected POST, got %s", method)
	}
	if auth != "Bearer secret" {
		t.Fatalf("expected bearer auth header, got %q", auth)
	}

	var demand map[string]int
	if err := json.Unmarshal(got["demand"], &demand); err != nil {
		t.Fatalf("decode demand: %v", err)
	}
	if demand["Berlin"] != 280 || demand["Krefeld"] != 90 || len(demand) != 2 {
		t.Fatalf("unexpected demand %v", demand)
	}

	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(got["config"], &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	for _, key := range []string{
		"VEHICLE_CAPACITY", "MAX_VEHICLES_PER_ROUTE", "COST_PER_KM", "MIN_COST_PER_TRIP",
		"CITY_COORDINATES", "inject_hub", "SOLVER_TIME_LIMIT_MS", "SOLVER_TYPE",
	} {
		if _, ok := cfg[key]; !ok {
			t.Fatalf("config is missing %s", key)
		}
	}
	if string(cfg["inject_hub"]) != `"Dortmund"` {
		t.Fatalf("unexpected hub %s", cfg["inject_hub"])
	}
}

func TestSolveHTTPErrorIsTransportFailure(t *testing.T) {
	srv := newSolverServer(t, http.StatusInternalServerError, `{"detail": "boom at https://internal.example"}`)
	c := newTestClient(t, srv.URL, time.Second)

	out := c.Solve(context.Background(), testRequest())

	tf, ok := out.(domain.TransportFailure)
	if !ok {
		t.Fatalf("expected TransportFailure, got %#v", out)
	}
	if tf.Reason != "HTTP 500" {
		t.Fatalf("expected reason HTTP 500, got %q", tf.Reason)
	}
	if st := domain.OutcomeStatus(out); st.String() != "FAILED: HTTP 500" {
		t.Fatalf("unexpected folded status %q", st.String())
	}
}

func TestSolveConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := newTestClient(t, endpoint, time.Second)
	out := c.Solve(context.Background(), testRequest())

	tf, ok := out.(domain.TransportFailure)
	if !ok {
		t.Fatalf("expected TransportFailure, got %#v", out)
	}
	if !strings.HasPrefix(tf.Reason, "Connection error") {
		t.Fatalf("unexpected reason %q", tf.Reason)
	}
	if strings.Contains(tf.Reason, "127.0.0.1") {
		t.Fatalf("reason leaks address: %q", tf.Reason)
	}
}

func TestSolveTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 50*time.Millisecond)
	req := testRequest()
	req.Config.SolverTimeLimitMs = 0

	out := c.Solve(context.Background(), req)

	to, ok := out.(domain.Timeout)
	if !ok {
		t.Fatalf("expected Timeout, got %#v", out)
	}
	if to.After != 50*time.Millisecond {
		t.Fatalf("expected 50ms, got %s", to.After)
	}
	if st := domain.OutcomeStatus(out); st.String() != "FAILED: Timeout" {
		t.Fatalf("unexpected folded status %q", st.String())
	}
}

func TestSolveMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>bad gateway</html>`},
		{name: "array", body: `[1, 2, 3]`},
		{name: "missing status", body: `{"total_cost": 1}`},
		{name: "status not string", body: `{"solver_status": 7}`},
		{name: "optimal without totals", body: `{"solver_status": "OPTIMAL", "tour_costs": []}`},
		{name: "negative cost", body: `{"solver_status": "OPTIMAL", "total_cost": -1, "total_km": 1, "solve_time": 1, "tour_costs": []}`},
		{name: "tour costs wrong type", body: `{"solver_status": "FEASIBLE", "total_cost": 1, "total_km": 1, "solve_time": 1, "tour_costs": "x"}`},
		{name: "route missing packages", body: `{"solver_status": "OPTIMAL", "total_cost": 1, "total_km": 1, "solve_time": 1,
			"tour_costs": [{"from": "Dortmund", "to": "Berlin", "vehicles": 1, "km": 1, "cost": 1}]}`},
		{name: "fractional vehicles", body: `{"solver_status": "OPTIMAL", "total_cost": 1, "total_km": 1, "solve_time": 1,
			"tour_costs": [{"from": "Dortmund", "to": "Berlin", "vehicles": 1.5, "packages": 1, "km": 1, "cost": 1}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newSolverServer(t, http.StatusOK, tc.body)
			c := newTestClient(t, srv.URL, time.Second)

			out := c.Solve(context.Background(), testRequest())
			m, ok := out.(domain.MalformedResponse)
			if !ok {
				t.Fatalf("expected MalformedResponse, got %#v", out)
			}
			if m.Detail == "" {
				t.Fatalf("expected a detail")
			}
		})
	}
}

func TestSolveNonSolutionStatusIgnoresOtherFields(t *testing.T) {
	srv := newSolverServer(t, http.StatusOK, `{"solver_status": "INFEASIBLE", "total_cost": "n/a", "tour_costs": 3}`)
	c := newTestClient(t, srv.URL, time.Second)

	out := c.Solve(context.Background(), testRequest())

	s, ok := out.(domain.Success)
	if !ok {
		t.Fatalf("expected Success, got %#v", out)
	}
	if s.Result.Status.Kind != domain.StatusInfeasible {
		t.Fatalf("expected INFEASIBLE, got %v", s.Result.Status)
	}
}

func TestSolveUnknownStatusPassesThrough(t *testing.T) {
	srv := newSolverServer(t, http.StatusOK, `{"solver_status": "TIME_LIMIT"}`)
	c := newTestClient(t, srv.URL, time.Second)

	out := c.Solve(context.Background(), testRequest())

	s, ok := out.(domain.Success)
	if !ok {
		t.Fatalf("expected Success, got %#v", out)
	}
	if s.Result.Status.Kind != domain.StatusUnknown || s.Result.Status.String() != "TIME_LIMIT" {
		t.Fatalf("unexpected status %+v", s.Result.Status)
	}
}

func TestSolveOversizedBody(t *testing.T) {
	srv := newSolverServer(t, http.StatusOK, `{"solver_status": "INFEASIBLE", "pad": "`+strings.Repeat("x", 256)+`"}`)
	c := newTestClient(t, srv.URL, time.Second)
	c.maxBody = 64

	out := c.Solve(context.Background(), testRequest())
	if _, ok := out.(domain.MalformedResponse); !ok {
		t.Fatalf("expected MalformedResponse, got %#v", out)
	}
}

func TestMockSolverRecordsRequests(t *testing.T) {
	m := NewMockSolver(domain.Timeout{After: time.Second})

	out := m.Solve(context.Background(), testRequest())
	if _, ok := out.(domain.Timeout); !ok {
		t.Fatalf("expected Timeout, got %#v", out)
	}
	if n := len(m.Requests()); n != 1 {
		t.Fatalf("expected 1 recorded request, got %d", n)
	}
}
