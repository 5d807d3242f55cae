package domain

import "sort"

// DemandMap maps a destination name to its package count.
//
// A DemandMap is produced per user interaction and handed to the solver
// gateway as-is. Recomputation produces a new map; callers must not mutate
// a map after it has been submitted.
type DemandMap map[string]int

// Total returns the sum of all package counts.
func (d DemandMap) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (d DemandMap) Clone() DemandMap {
	out := make(DemandMap, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Active returns destinations with a positive count, excluding skip, sorted by name.
func (d DemandMap) Active(skip string) []string {
	out := make([]string, 0, len(d))
	for k, v := range d {
		if v > 0 && k != skip {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
