package domain

import "strings"

// StatusKind enumerates the solver status classes.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

const failedPrefix = "FAILED"

// Status is the parsed form of the solver's status string.
// Detail is only set for StatusFailed; Raw keeps the original text.
type Status struct {
	Kind   StatusKind
	Detail string
	Raw    string
}

// ParseStatus classifies a raw status string. Anything that does not match a
// known form becomes StatusUnknown; parsing never fails.
func ParseStatus(raw string) Status {
	s := strings.TrimSpace(raw)
	switch s {
	case "OPTIMAL":
		return Status{Kind: StatusOptimal, Raw: raw}
	case "FEASIBLE":
		return Status{Kind: StatusFeasible, Raw: raw}
	case "INFEASIBLE":
		return Status{Kind: StatusInfeasible, Raw: raw}
	}

	if rest, ok := strings.CutPrefix(s, failedPrefix); ok {
		detail := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
		return Status{Kind: StatusFailed, Detail: detail, Raw: raw}
	}

	return Status{Kind: StatusUnknown, Raw: raw}
}

// FailedStatus builds a failure status for a locally detected problem.
func FailedStatus(reason string) Status {
	st := Status{Kind: StatusFailed, Detail: reason}
	st.Raw = st.String()
	return st
}

// HasSolution reports whether the status carries route data.
func (s Status) HasSolution() bool {
	return s.Kind == StatusOptimal || s.Kind == StatusFeasible
}

// String renders the wire form, e.g. "FAILED: Timeout".
func (s Status) String() string {
	switch s.Kind {
	case StatusFailed:
		if s.Detail == "" {
			return failedPrefix
		}
		return failedPrefix + ": " + s.Detail
	case StatusUnknown:
		return s.Raw
	default:
		return s.Kind.String()
	}
}
