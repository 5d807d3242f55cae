package domain

import "time"

// Outcome is the result of one solver call. Exactly one of Success,
// TransportFailure, Timeout or MalformedResponse.
type Outcome interface {
	isOutcome()
}

// Success carries a well-formed solver result.
type Success struct {
	Result *SolverResult
}

// TransportFailure means the solver could not be reached or rejected the call.
type TransportFailure struct {
	Reason string
}

// Timeout means no response arrived within the client deadline.
type Timeout struct {
	After time.Duration
}

// MalformedResponse means a response arrived but failed schema validation.
type MalformedResponse struct {
	Detail string
}

func (Success) isOutcome()           {}
func (TransportFailure) isOutcome()  {}
func (Timeout) isOutcome()           {}
func (MalformedResponse) isOutcome() {}

// OutcomeStatus returns the status the result router should act on.
// Client-side failures are folded into a FAILED status so there is one
// failure path regardless of origin.
func OutcomeStatus(o Outcome) Status {
	switch v := o.(type) {
	case Success:
		if v.Result == nil {
			return FailedStatus("Empty solver result")
		}
		return v.Result.Status
	case TransportFailure:
		return FailedStatus(v.Reason)
	case Timeout:
		return FailedStatus("Timeout")
	case MalformedResponse:
		return FailedStatus("Invalid solver response: " + v.Detail)
	default:
		return FailedStatus("Unrecognized solver outcome")
	}
}

// OutcomeKind returns a short label, used for logs and metrics.
func OutcomeKind(o Outcome) string {
	switch o.(type) {
	case Success:
		return "success"
	case TransportFailure:
		return string(KindTransportFailure)
	case Timeout:
		return string(KindTimeout)
	case MalformedResponse:
		return string(KindMalformedResponse)
	default:
		return "unknown"
	}
}

// OutcomeErrorKind maps a non-success outcome to its error class.
func OutcomeErrorKind(o Outcome) (ErrorKind, bool) {
	switch o.(type) {
	case TransportFailure:
		return KindTransportFailure, true
	case Timeout:
		return KindTimeout, true
	case MalformedResponse:
		return KindMalformedResponse, true
	default:
		return "", false
	}
}
