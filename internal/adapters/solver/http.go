package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"pathmatrix-service/internal/domain"
	"strings"
	"syscall"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (c *HTTPSolverClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do executes a single request. Non-200 responses are returned as
// *httpStatusError with a short prefix of the body for logging.
func (c *HTTPSolverClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// classifyError maps a transport error to an outcome. Reasons are fixed
// phrases so that URLs, hostnames and addresses never reach the user.
func classifyError(ctx context.Context, err error, timeout time.Duration) domain.Outcome {
	var he *httpStatusError
	if errors.As(err, &he) {
		return domain.TransportFailure{Reason: fmt.Sprintf("HTTP %d", he.Code)}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.Timeout{After: timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.Timeout{After: timeout}
	}

	if errors.Is(err, context.Canceled) {
		return domain.TransportFailure{Reason: "Request canceled"}
	}

	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return domain.TransportFailure{Reason: "Connection error: solver host could not be resolved"}
	case errors.Is(err, syscall.ECONNREFUSED):
		return domain.TransportFailure{Reason: "Connection error: connection refused"}
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.TransportFailure{Reason: "Connection error: connection reset"}
	default:
		return domain.TransportFailure{Reason: "Connection error"}
	}
}
