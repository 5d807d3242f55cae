package domain

// Branch is the rendering branch selected for a solver outcome.
type Branch string

const (
	BranchOptimal    Branch = "optimal"
	BranchFeasible   Branch = "feasible"
	BranchInfeasible Branch = "infeasible"
	BranchFailed     Branch = "failed"
	BranchUnknown    Branch = "unknown"
)

type BannerLevel string

const (
	BannerSuccess BannerLevel = "success"
	BannerWarning BannerLevel = "warning"
	BannerError   BannerLevel = "error"
	BannerInfo    BannerLevel = "info"
)

type Banner struct {
	Level   BannerLevel `json:"level"`
	Message string      `json:"message"`
}

// View is the display-ready model produced for one solver outcome.
// Only the fields relevant to Branch are populated.
type View struct {
	Branch             Branch          `json:"branch"`
	Status             string          `json:"status"`
	ErrorKind          ErrorKind       `json:"error_kind,omitempty"`
	Banners            []Banner        `json:"banners"`
	FinalTotalPackages int             `json:"final_total_packages"`
	Demand             DemandMap       `json:"demand,omitempty"`
	Summary            *Summary        `json:"summary,omitempty"`
	Routes             []RouteRow      `json:"routes,omitempty"`
	MapHTML            string          `json:"map_html,omitempty"`
	Schedule           *Schedule       `json:"schedule,omitempty"`
	Exports            []ExportOption  `json:"exports,omitempty"`
	Guidance           []string        `json:"guidance,omitempty"`
	Failure            *FailureDetails `json:"failure,omitempty"`
}

// HasRoutes reports whether the view carries solution data.
func (v View) HasRoutes() bool {
	return v.Branch == BranchOptimal || v.Branch == BranchFeasible
}

// Summary holds aggregate metrics over a solution.
type Summary struct {
	TotalCost           float64  `json:"total_cost"`
	TotalKm             float64  `json:"total_km"`
	SolveTimeSeconds    float64  `json:"solve_time_seconds"`
	RouteCount          int      `json:"route_count"`
	TotalVehicles       int      `json:"total_vehicles"`
	TotalPackages       int      `json:"total_packages"`
	AvgCostPerPackage   float64  `json:"avg_cost_per_package"`
	FleetUtilizationPct float64  `json:"fleet_utilization_pct"`
	CapacityViolations  []string `json:"capacity_violations,omitempty"`
}

// RouteRow is one line of the route table.
type RouteRow struct {
	From             string  `json:"from"`
	To               string  `json:"to"`
	Vehicles         int     `json:"vehicles"`
	Packages         int     `json:"packages"`
	Km               float64 `json:"km"`
	Cost             float64 `json:"cost"`
	UtilizationPct   float64 `json:"utilization_pct"`
	CostPerPackage   float64 `json:"cost_per_package"`
	DurationHours    float64 `json:"duration_hours"`
	CapacityExceeded bool    `json:"capacity_exceeded,omitempty"`
}

type ScheduleSource string

const (
	ScheduleGantt    ScheduleSource = "gantt"
	ScheduleTimeline ScheduleSource = "timeline"
	ScheduleTable    ScheduleSource = "table"
	ScheduleNone     ScheduleSource = "none"
)

// Schedule is the vehicle schedule view. GanttPNG is set only when the solver
// supplied a decodable chart.
type Schedule struct {
	Source   ScheduleSource  `json:"source"`
	GanttPNG []byte          `json:"gantt_png,omitempty"`
	Entries  []ScheduleEntry `json:"entries"`
	Note     string          `json:"note,omitempty"`
}

type ScheduleEntry struct {
	Vehicle     string   `json:"vehicle"`
	Route       string   `json:"route"`
	Packages    int      `json:"packages"`
	Km          float64  `json:"km"`
	Cost        float64  `json:"cost"`
	DriveHours  float64  `json:"drive_hours"`
	UnloadHours float64  `json:"unload_hours"`
	Sequence    int      `json:"sequence"`
	StartHour   *float64 `json:"start_hour,omitempty"`
	EndHour     *float64 `json:"end_hour,omitempty"`
}

// ExportOption advertises a downloadable artifact for the view.
type ExportOption struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	MIMEType string `json:"mime_type"`
}

// FailureDetails is the technical context shown with a failed solve.
type FailureDetails struct {
	Status             string  `json:"status"`
	Detail             string  `json:"detail"`
	TotalPackages      int     `json:"total_packages"`
	ActiveDestinations int     `json:"active_destinations"`
	TimeLimitSeconds   float64 `json:"time_limit_seconds"`
}
