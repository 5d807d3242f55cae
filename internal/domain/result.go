package domain

// SolverRequest is the payload for a single solve: demand plus configuration.
type SolverRequest struct {
	Demand DemandMap
	Config SolverConfig
}

// RouteRecord is one edge of the solution.
// Packages is expected to fit within Vehicles * capacity; the solver enforces
// that and this service only reports violations.
type RouteRecord struct {
	From     string
	To       string
	Vehicles int
	Packages int
	Km       float64
	Cost     float64
}

// RouteID identifies a route for display, e.g. "Dortmund → Berlin".
func (r RouteRecord) RouteID() string { return r.From + " → " + r.To }

// ActiveRouteAssignment is a scheduled trip on an active route.
// StartHour/EndHour are nil when the solver returned no time index.
type ActiveRouteAssignment struct {
	From      string
	To        string
	Vehicles  int
	Packages  int
	Km        float64
	Sequence  int
	StartHour *float64
	EndHour   *float64
}

func (a ActiveRouteAssignment) RouteID() string { return a.From + " → " + a.To }

// SolverResult is the normalized solver response.
// It is created once per completed request and never modified afterwards;
// a new solve produces a new result.
type SolverResult struct {
	Status           Status
	TotalCost        float64
	TotalKm          float64
	SolveTimeSeconds float64
	Routes           []RouteRecord
	MapHTML          string
	GanttBase64      string
	ActiveRoutes     []ActiveRouteAssignment
}
