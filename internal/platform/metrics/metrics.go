package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolverCalls counts solver gateway outcomes by kind.
	SolverCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_calls_total", Help: "Solver calls by outcome."},
		[]string{"outcome"},
	)
	// SolverDuration tracks end-to-end solver call latency; solves routinely take tens of seconds.
	SolverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solver_call_duration_seconds", Help: "Solver call duration in seconds.", Buckets: []float64{1, 5, 10, 20, 30, 60, 90, 120, 180}},
		[]string{"outcome"},
	)
	// OptimizeBranches counts which result branch each optimize action rendered.
	OptimizeBranches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimize_results_total", Help: "Optimize actions by rendered result branch."},
		[]string{"branch"},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolverCalls)
		Registry.MustRegister(SolverDuration)
		Registry.MustRegister(OptimizeBranches)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
