package domain

import "fmt"

// ErrorKind names a failure class surfaced to the user.
type ErrorKind string

const (
	KindInputValidation   ErrorKind = "input_validation"
	KindTransportFailure  ErrorKind = "transport_failure"
	KindTimeout           ErrorKind = "timeout"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindInfeasible        ErrorKind = "solver_reported_infeasible"
	KindSolverFailure     ErrorKind = "solver_reported_failure"
	KindUnknownStatus     ErrorKind = "unknown_solver_status"
)

// ValidationError reports user-entered demand or configuration that was rejected
// before any solver request was built.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
