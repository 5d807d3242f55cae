package services

import (
	"cmp"
	"encoding/base64"
	"fmt"
	"pathmatrix-service/internal/domain"
	"slices"
	"strings"
)

// Utilization returns the percentage of a route's capacity used by its load.
// A route with no vehicles or no capacity reports 0.
func Utilization(packages, vehicles, capacity int) float64 {
	slots := vehicles * capacity
	if slots <= 0 {
		return 0
	}
	return float64(packages) / float64(slots) * 100
}

// costPerPackage divides cost by packages, reporting 0 for an empty load.
func costPerPackage(cost float64, packages int) float64 {
	if packages <= 0 {
		return 0
	}
	return cost / float64(packages)
}

// driveHours converts a distance into driving time at the configured speed.
func driveHours(km float64, cfg domain.SolverConfig) float64 {
	if cfg.AverageSpeedKmh <= 0 {
		return 0
	}
	return km / cfg.AverageSpeedKmh
}

// Summarize computes aggregate and per-route statistics for a solver result.
// The result is read only; route rows are freshly allocated.
func Summarize(result *domain.SolverResult, cfg domain.SolverConfig) (domain.Summary, []domain.RouteRow) {
	rows := make([]domain.RouteRow, 0, len(result.Routes))
	summary := domain.Summary{
		TotalCost:        result.TotalCost,
		TotalKm:          result.TotalKm,
		SolveTimeSeconds: result.SolveTimeSeconds,
		RouteCount:       len(result.Routes),
	}

	for _, r := range result.Routes {
		exceeded := r.Packages > r.Vehicles*cfg.VehicleCapacity
		if exceeded {
			summary.CapacityViolations = append(summary.CapacityViolations, fmt.Sprintf(
				"%s carries %d packages on %d vehicle(s) with capacity %d",
				r.RouteID(), r.Packages, r.Vehicles, cfg.VehicleCapacity,
			))
		}

		summary.TotalPackages += r.Packages
		summary.TotalVehicles += r.Vehicles

		rows = append(rows, domain.RouteRow{
			From:             r.From,
			To:               r.To,
			Vehicles:         r.Vehicles,
			Packages:         r.Packages,
			Km:               r.Km,
			Cost:             r.Cost,
			UtilizationPct:   Utilization(r.Packages, r.Vehicles, cfg.VehicleCapacity),
			CostPerPackage:   costPerPackage(r.Cost, r.Packages),
			DurationHours:    driveHours(r.Km, cfg) + cfg.UnloadTimeHours,
			CapacityExceeded: exceeded,
		})
	}

	summary.AvgCostPerPackage = costPerPackage(result.TotalCost, summary.TotalPackages)
	summary.FleetUtilizationPct = Utilization(summary.TotalPackages, summary.TotalVehicles, cfg.VehicleCapacity)

	return summary, rows
}

// BuildSchedule produces the vehicle schedule view.
//
// A decodable gantt chart from the solver is passed through. When the active
// routes carry start times they are listed in start order; otherwise a simple
// table is synthesized with one row per vehicle, ordered by route cost
// descending.
func BuildSchedule(result *domain.SolverResult, cfg domain.SolverConfig) domain.Schedule {
	if len(result.ActiveRoutes) == 0 {
		return domain.Schedule{Source: domain.ScheduleNone, Entries: []domain.ScheduleEntry{}, Note: "No routes to display"}
	}

	costs := make(map[string]float64, len(result.Routes))
	for _, r := range result.Routes {
		costs[r.RouteID()] += r.Cost
	}

	var sched domain.Schedule
	if timeIndexed(result.ActiveRoutes) {
		sched = domain.Schedule{Source: domain.ScheduleTimeline, Entries: timelineEntries(result.ActiveRoutes, costs, cfg)}
	} else {
		sched = domain.Schedule{Source: domain.ScheduleTable, Entries: tableEntries(result.ActiveRoutes, costs, cfg)}
	}

	if result.GanttBase64 == "" {
		if sched.Source == domain.ScheduleTable {
			sched.Note = "Solver provided no Gantt chart; showing schedule table"
		}
		return sched
	}

	png, err := decodeGantt(result.GanttBase64)
	if err != nil {
		sched.Note = "Could not display Gantt chart; showing schedule table instead"
		return sched
	}
	sched.Source = domain.ScheduleGantt
	sched.GanttPNG = png

	return sched
}

func decodeGantt(s string) ([]byte, error) {
	// Some encoders emit data URIs.
	if _, data, ok := strings.Cut(s, "base64,"); ok {
		s = data
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func timeIndexed(active []domain.ActiveRouteAssignment) bool {
	for _, a := range active {
		if a.StartHour == nil {
			return false
		}
	}
	return true
}

func timelineEntries(active []domain.ActiveRouteAssignment, costs map[string]float64, cfg domain.SolverConfig) []domain.ScheduleEntry {
	sorted := slices.Clone(active)
	slices.SortStableFunc(sorted, func(a, b domain.ActiveRouteAssignment) int {
		if c := cmp.Compare(*a.StartHour, *b.StartHour); c != 0 {
			return c
		}
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	entries := make([]domain.ScheduleEntry, 0, len(sorted))
	for i, a := range sorted {
		entries = append(entries, domain.ScheduleEntry{
			Vehicle:     fmt.Sprintf("Vehicle-%d", i+1),
			Route:       a.RouteID(),
			Packages:    a.Packages,
			Km:          a.Km,
			Cost:        costs[a.RouteID()],
			DriveHours:  driveHours(a.Km, cfg),
			UnloadHours: cfg.UnloadTimeHours,
			Sequence:    a.Sequence,
			StartHour:   a.StartHour,
			EndHour:     a.EndHour,
		})
	}

	return entries
}

func tableEntries(active []domain.ActiveRouteAssignment, costs map[string]float64, cfg domain.SolverConfig) []domain.ScheduleEntry {
	sorted := slices.Clone(active)
	slices.SortStableFunc(sorted, func(a, b domain.ActiveRouteAssignment) int {
		if c := cmp.Compare(costs[b.RouteID()], costs[a.RouteID()]); c != 0 {
			return c
		}
		return cmp.Compare(a.RouteID(), b.RouteID())
	})

	entries := make([]domain.ScheduleEntry, 0, len(sorted))
	vehicle := 0
	for _, a := range sorted {
		for i, load := range splitLoad(a.Packages, a.Vehicles) {
			vehicle++
			entries = append(entries, domain.ScheduleEntry{
				Vehicle:     fmt.Sprintf("Vehicle-%d", vehicle),
				Route:       a.RouteID(),
				Packages:    load,
				Km:          a.Km,
				Cost:        costs[a.RouteID()],
				DriveHours:  driveHours(a.Km, cfg),
				UnloadHours: cfg.UnloadTimeHours,
				Sequence:    i + 1,
			})
		}
	}

	return entries
}

// splitLoad spreads packages over vehicles as evenly as possible; the first
// vehicles take the remainder.
func splitLoad(packages, vehicles int) []int {
	if vehicles <= 0 {
		return nil
	}
	out := make([]int, vehicles)
	for i := range out {
		out[i] = packages / vehicles
		if i < packages%vehicles {
			out[i]++
		}
	}
	return out
}
