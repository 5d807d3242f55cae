package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/metrics"
	"pathmatrix-service/internal/platform/obs"
	"time"
)

const (
	// DefaultEndpoint is the hosted solver service.
	DefaultEndpoint = "https://pathmatrix-solver-api.onrender.com/solve"

	// DefaultTimeoutMargin is added to the solver time limit to cover
	// network transfer and server-side setup.
	DefaultTimeoutMargin = 60 * time.Second

	defaultMaxBody = 32 << 20
)

// HTTPSolverClient implements ports.SolverClient against the remote solver.
//
// Each Solve call issues exactly one POST. There are no retries: a solve is
// expensive and the user decides whether to run it again.
//
// The client is safe for concurrent use.
type HTTPSolverClient struct {
	session  *http.Client
	endpoint string
	apiKey   string
	margin   time.Duration
	maxBody  int64
}

// NewHTTPSolverClient validates endpoint and builds a client. A zero margin
// selects DefaultTimeoutMargin.
func NewHTTPSolverClient(endpoint, apiKey string, margin time.Duration) (*HTTPSolverClient, error) {
	if endpoint == "" {
		return nil, errors.New("solver endpoint is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse solver endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("solver endpoint must be an absolute http(s) URL, got %q", endpoint)
	}
	if margin < 0 {
		return nil, fmt.Errorf("timeout margin must not be negative, got %s", margin)
	}
	if margin == 0 {
		margin = DefaultTimeoutMargin
	}

	client := &HTTPSolverClient{
		// Deadlines come from the request context, see Timeout.
		session:  &http.Client{},
		endpoint: endpoint,
		apiKey:   apiKey,
		margin:   margin,
		maxBody:  defaultMaxBody,
	}

	return client, nil
}

// Timeout is the client deadline for one solve under cfg.
func (c *HTTPSolverClient) Timeout(cfg domain.SolverConfig) time.Duration {
	return cfg.SolverTimeLimit() + c.margin
}

// Solve sends the demand and configuration to the solver and classifies what
// comes back. It never returns an error and never panics.
func (c *HTTPSolverClient) Solve(ctx context.Context, req domain.SolverRequest) (outcome domain.Outcome) {
	start := time.Now()
	timeout := c.Timeout(req.Config)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("req_id=%s solver client panic: %v", obs.RequestID(ctx), r)
			outcome = domain.TransportFailure{Reason: "Unexpected client error"}
		}

		kind := domain.OutcomeKind(outcome)
		dur := time.Since(start)
		metrics.SolverCalls.WithLabelValues(kind).Inc()
		metrics.SolverDuration.WithLabelValues(kind).Observe(dur.Seconds())

		log.Printf("req_id=%s op=solver.Solve outcome=%s status=%q timeout=%s dur=%dms",
			obs.RequestID(ctx), kind, domain.OutcomeStatus(outcome).String(), timeout, dur.Milliseconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(newWireRequest(req))
	if err != nil {
		return domain.TransportFailure{Reason: "Could not encode solver request"}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.TransportFailure{Reason: "Could not build solver request"}
	}

	resp, err := c.do(httpReq)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			log.Printf("req_id=%s solver rejected request: %v", obs.RequestID(ctx), he)
		}
		return classifyError(ctx, err, timeout)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return classifyError(ctx, err, timeout)
	}
	if int64(len(body)) > c.maxBody {
		return domain.MalformedResponse{Detail: fmt.Sprintf("response exceeds %d bytes", c.maxBody)}
	}

	result, err := parseResponse(body)
	if err != nil {
		return domain.MalformedResponse{Detail: err.Error()}
	}

	return domain.Success{Result: result}
}
