package services

import (
	"fmt"
	"pathmatrix-service/internal/domain"
)

// RenderContext carries the session facts the router needs besides the
// solver outcome itself.
type RenderContext struct {
	FinalTotalPackages int
	Demand             domain.DemandMap
	Config             domain.SolverConfig
}

// Export names served by the export handler.
const (
	ExportWorkbook = "results.zip"
	ExportRouteMap = "route_map.html"
	ExportSchedule = "vehicle_schedule.png"
)

// RouteOutcome selects the rendering branch for a solver outcome and builds
// its view. Client-side failures arrive here already folded into a FAILED
// status, so they share the solver-failure branch.
func RouteOutcome(o domain.Outcome, rc RenderContext) domain.View {
	var result *domain.SolverResult
	if s, ok := o.(domain.Success); ok {
		result = s.Result
	}

	view := Render(domain.OutcomeStatus(o), result, rc)
	if kind, ok := domain.OutcomeErrorKind(o); ok {
		view.ErrorKind = kind
	}

	return view
}

// Render dispatches on status. Exactly one branch is taken and no status
// value, known or not, makes it fail.
func Render(status domain.Status, result *domain.SolverResult, rc RenderContext) domain.View {
	switch status.Kind {
	case domain.StatusOptimal, domain.StatusFeasible:
		if result == nil {
			return renderFailed(domain.FailedStatus("Solver reported success without a result"), rc)
		}
		return renderSolution(status, result, rc)
	case domain.StatusInfeasible:
		return renderInfeasible(status, rc)
	case domain.StatusFailed:
		return renderFailed(status, rc)
	default:
		return renderUnknown(status, rc)
	}
}

func renderSolution(status domain.Status, result *domain.SolverResult, rc RenderContext) domain.View {
	view := domain.View{
		Branch:             domain.BranchOptimal,
		Status:             status.String(),
		FinalTotalPackages: rc.FinalTotalPackages,
		// Exports are built from the demand that was solved, not the live session.
		Demand:             rc.Demand.Clone(),
	}

	if status.Kind == domain.StatusFeasible {
		view.Branch = domain.BranchFeasible
		view.Banners = []domain.Banner{
			{Level: domain.BannerWarning, Message: "Found a feasible solution, but it may not be optimal."},
			{Level: domain.BannerInfo, Message: "Showing results anyway - the solution works!"},
		}
	} else {
		view.Banners = []domain.Banner{{Level: domain.BannerSuccess, Message: "Optimization completed successfully!"}}
	}

	summary, rows := Summarize(result, rc.Config)
	for _, v := range summary.CapacityViolations {
		view.Banners = append(view.Banners, domain.Banner{Level: domain.BannerWarning, Message: "Capacity exceeded: " + v})
	}

	schedule := BuildSchedule(result, rc.Config)

	view.Summary = &summary
	view.Routes = rows
	view.MapHTML = result.MapHTML
	view.Schedule = &schedule

	if result.MapHTML != "" {
		view.Exports = append(view.Exports, domain.ExportOption{Name: ExportRouteMap, Label: "Route Map (HTML)", MIMEType: "text/html"})
	}
	if len(schedule.GanttPNG) > 0 {
		view.Exports = append(view.Exports, domain.ExportOption{Name: ExportSchedule, Label: "Schedule (PNG)", MIMEType: "image/png"})
	}
	view.Exports = append(view.Exports, domain.ExportOption{Name: ExportWorkbook, Label: "Complete Results (CSV workbook)", MIMEType: "application/zip"})

	return view
}

func renderInfeasible(status domain.Status, rc RenderContext) domain.View {
	cfg := rc.Config
	routeCap := cfg.RouteCapacity()
	networkCap := cfg.MaxTotalCapacity()

	guidance := []string{
		fmt.Sprintf(
			"Total demand is %d packages; the network carries at most %d (%d packages per vehicle, %d vehicles per route, %d destinations).",
			rc.FinalTotalPackages, networkCap, cfg.VehicleCapacity, cfg.MaxVehiclesPerRoute, len(cfg.DestinationCities()),
		),
	}
	if over := rc.FinalTotalPackages - networkCap; over > 0 {
		guidance = append(guidance, fmt.Sprintf("Reduce total demand by at least %d packages.", over))
	}

	for _, name := range cfg.AvailableCities() {
		n := rc.Demand[name]
		if name == cfg.Hub || n <= routeCap {
			continue
		}
		guidance = append(guidance, fmt.Sprintf(
			"%s needs %d packages but a single route carries at most %d; reduce it by %d or raise vehicle capacity.",
			name, n, routeCap, n-routeCap,
		))
	}

	guidance = append(guidance,
		"Reduce package numbers for distant cities.",
		"Check your demand distribution - is it realistic?",
	)

	return domain.View{
		Branch:             domain.BranchInfeasible,
		Status:             status.String(),
		ErrorKind:          domain.KindInfeasible,
		Banners:            []domain.Banner{{Level: domain.BannerError, Message: "No feasible solution found!"}},
		FinalTotalPackages: rc.FinalTotalPackages,
		Guidance:           guidance,
	}
}

func renderFailed(status domain.Status, rc RenderContext) domain.View {
	detail := domain.SanitizeDetail(status.Detail)
	shown := domain.FailedStatus(detail).String()

	return domain.View{
		Branch:             domain.BranchFailed,
		Status:             shown,
		ErrorKind:          domain.KindSolverFailure,
		Banners:            []domain.Banner{{Level: domain.BannerError, Message: "Solver failed with status: " + shown}},
		FinalTotalPackages: rc.FinalTotalPackages,
		Guidance: []string{
			"Reduce problem size: try fewer packages or destinations.",
			"Check that all inputs are valid.",
			"Run the optimization again.",
			"Use automatic distribution instead of manual input.",
		},
		Failure: &domain.FailureDetails{
			Status:             shown,
			Detail:             detail,
			TotalPackages:      rc.FinalTotalPackages,
			ActiveDestinations: len(rc.Demand.Active(rc.Config.Hub)),
			TimeLimitSeconds:   rc.Config.SolverTimeLimit().Seconds(),
		},
	}
}

func renderUnknown(status domain.Status, rc RenderContext) domain.View {
	raw := domain.SanitizeDetail(status.Raw)

	return domain.View{
		Branch:             domain.BranchUnknown,
		Status:             raw,
		ErrorKind:          domain.KindUnknownStatus,
		FinalTotalPackages: rc.FinalTotalPackages,
		Banners: []domain.Banner{
			{Level: domain.BannerError, Message: fmt.Sprintf("Unknown solver status: %q", raw)},
			{Level: domain.BannerInfo, Message: "Please try running the optimization again or check your input parameters."},
		},
	}
}
