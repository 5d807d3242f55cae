package services

import (
	"fmt"
	"pathmatrix-service/internal/domain"
	"slices"
)

// ComputeAutoDistribution splits total packages across destinations using
// largest-remainder apportionment.
//
// Each destination first receives floor(total * percent / P), where P is the
// sum of all percents (100 for a well-formed table). The units lost to
// flooring go one each to the destinations with the largest remainders; ties
// are broken by table order. The result always sums to total.
func ComputeAutoDistribution(total int, shares []domain.DestinationShare) (domain.DemandMap, error) {
	if total < 0 {
		return nil, &domain.ValidationError{Field: "total_packages", Message: fmt.Sprintf("must not be negative, got %d", total)}
	}

	sumPercent := 0
	seen := make(map[string]struct{}, len(shares))
	for _, s := range shares {
		if s.Percent < 0 || s.Percent > 100 {
			return nil, &domain.ValidationError{
				Field:   "percentages",
				Message: fmt.Sprintf("%q percent must be within 0-100, got %d", s.Name, s.Percent),
			}
		}
		if _, dup := seen[s.Name]; dup {
			return nil, &domain.ValidationError{Field: "percentages", Message: fmt.Sprintf("duplicate destination %q", s.Name)}
		}
		seen[s.Name] = struct{}{}
		sumPercent += s.Percent
	}

	out := make(domain.DemandMap, len(shares))
	for _, s := range shares {
		out[s.Name] = 0
	}
	if total == 0 {
		return out, nil
	}
	if sumPercent == 0 {
		return nil, &domain.ValidationError{Field: "percentages", Message: "cannot distribute packages: all percentages are zero"}
	}

	remainders := make([]int, len(shares))
	assigned := 0
	for i, s := range shares {
		scaled := total * s.Percent
		out[s.Name] = scaled / sumPercent
		remainders[i] = scaled % sumPercent
		assigned += out[s.Name]
	}

	// Stable sort keeps table order among equal remainders.
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return remainders[b] - remainders[a]
	})

	// The shortfall is always smaller than the number of destinations.
	for _, idx := range order[:total-assigned] {
		out[shares[idx].Name]++
	}

	return out, nil
}

// CollectManualDistribution validates user-entered per-destination counts and
// returns them unchanged together with their sum, which becomes the final total.
//
// Negative entries are rejected rather than clamped, so a typo never silently
// turns into a smaller order. Entries must name known cities and stay within
// the per-city limit, and their sum within the overall maximum.
func CollectManualDistribution(entries map[string]int, cfg domain.SolverConfig) (domain.DemandMap, int, error) {
	maxPerCity := cfg.RecommendedMaxPerCity()

	// Sorted so the first reported error is deterministic.
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make(domain.DemandMap, len(entries))
	total := 0
	for _, name := range names {
		n := entries[name]
		if !cfg.IsKnown(name) {
			return nil, 0, &domain.ValidationError{Field: "entries", Message: fmt.Sprintf("unknown destination %q", name)}
		}
		if n < 0 {
			return nil, 0, &domain.ValidationError{Field: name, Message: fmt.Sprintf("package count must not be negative, got %d", n)}
		}
		if maxPerCity > 0 && n > maxPerCity {
			return nil, 0, &domain.ValidationError{Field: name, Message: fmt.Sprintf("package count %d exceeds the per-city maximum of %d", n, maxPerCity)}
		}
		out[name] = n
		total += n
	}

	if cfg.MaxTotalPackages > 0 && total > cfg.MaxTotalPackages {
		return nil, 0, &domain.ValidationError{
			Field:   "manual_entries",
			Message: fmt.Sprintf("entries sum to %d, which exceeds the maximum of %d", total, cfg.MaxTotalPackages),
		}
	}

	return out, total, nil
}

// PreviewRow is one line of the distribution preview.
type PreviewRow struct {
	Destination string  `json:"destination"`
	Packages    int     `json:"packages"`
	Percent     float64 `json:"percent"`
}

// DistributionPreview lists destinations with demand and their share of
// finalTotal, in the given city order.
func DistributionPreview(demand domain.DemandMap, finalTotal int, order []string) []PreviewRow {
	rows := make([]PreviewRow, 0, len(demand))
	if finalTotal <= 0 {
		return rows
	}

	for _, name := range order {
		n := demand[name]
		if n <= 0 {
			continue
		}
		rows = append(rows, PreviewRow{
			Destination: name,
			Packages:    n,
			Percent:     float64(n) / float64(finalTotal) * 100,
		})
	}

	return rows
}
