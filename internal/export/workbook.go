// Package export renders a solved session into downloadable files.
package export

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"pathmatrix-service/internal/domain"
	"strconv"
	"time"
)

// WorkbookInput is everything the results workbook is built from.
// The demand sheet comes from View.Demand.
type WorkbookInput struct {
	View domain.View
	// Order lists destinations in display order; names absent from it are skipped.
	Order       []string
	GeneratedAt time.Time
}

// WriteWorkbook writes a zip archive holding Summary.csv, Demand.csv and,
// when there are routes, Routes.csv.
func WriteWorkbook(w io.Writer, in WorkbookInput) error {
	if in.View.Summary == nil {
		return errors.New("write workbook: view has no solution summary")
	}

	zw := zip.NewWriter(w)

	sheets := []struct {
		name string
		rows [][]string
	}{
		{"Summary.csv", summaryRows(*in.View.Summary, in.View.FinalTotalPackages)},
		{"Demand.csv", demandRows(in.View.Demand, in.Order)},
	}
	if len(in.View.Routes) > 0 {
		sheets = append(sheets, struct {
			name string
			rows [][]string
		}{"Routes.csv", routeRows(in.View.Routes)})
	}

	for _, s := range sheets {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: s.name, Method: zip.Deflate, Modified: in.GeneratedAt})
		if err != nil {
			return fmt.Errorf("write workbook: create %s: %w", s.name, err)
		}
		cw := csv.NewWriter(f)
		if err := cw.WriteAll(s.rows); err != nil {
			return fmt.Errorf("write workbook: write %s: %w", s.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("write workbook: close archive: %w", err)
	}
	return nil
}

// summaryRows reports cost per ordered package (over the final total) and
// cost per delivered package (over packages moved on routes) as separate rows.
func summaryRows(s domain.Summary, finalTotal int) [][]string {
	perOrdered := "N/A"
	if finalTotal > 0 {
		perOrdered = money(s.TotalCost / float64(finalTotal))
	}
	perDelivered := "N/A"
	if s.TotalPackages > 0 {
		perDelivered = money(s.AvgCostPerPackage)
	}

	return [][]string{
		{"Metric", "Value"},
		{"Total Cost (€)", money(s.TotalCost)},
		{"Cost per Ordered Package (€)", perOrdered},
		{"Cost per Delivered Package (€)", perDelivered},
		{"Total Distance (km)", strconv.FormatFloat(s.TotalKm, 'f', 0, 64)},
		{"Solve Time (s)", strconv.FormatFloat(s.SolveTimeSeconds, 'f', 1, 64)},
		{"Number of Routes", strconv.Itoa(s.RouteCount)},
		{"Fleet Utilization (%)", strconv.FormatFloat(s.FleetUtilizationPct, 'f', 1, 64)},
	}
}

func demandRows(demand domain.DemandMap, order []string) [][]string {
	rows := [][]string{{"City", "Packages"}}
	for _, name := range order {
		n, ok := demand[name]
		if !ok {
			continue
		}
		rows = append(rows, []string{name, strconv.Itoa(n)})
	}
	return rows
}

func routeRows(routes []domain.RouteRow) [][]string {
	rows := [][]string{{"from", "to", "vehicles", "packages", "km", "cost", "utilization_pct", "cost_per_package"}}
	for _, r := range routes {
		rows = append(rows, []string{
			r.From,
			r.To,
			strconv.Itoa(r.Vehicles),
			strconv.Itoa(r.Packages),
			strconv.FormatFloat(r.Km, 'f', 1, 64),
			money(r.Cost),
			strconv.FormatFloat(r.UtilizationPct, 'f', 1, 64),
			money(r.CostPerPackage),
		})
	}
	return rows
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
