package domain

import (
	"math"
	"slices"
	"time"
)

// Upper bounds on tunable parameters. Network capacity must fit in an int32
// so capacity products never overflow.
const (
	maxNetworkCapacity = math.MaxInt32
	maxCostPerKm       = 1e6
	maxMinCostPerTrip  = 1e9
)

// DestinationShare is one row of the default distribution table.
// Table order is significant: it breaks ties during apportionment.
type DestinationShare struct {
	Name    string
	Percent int
}

// SolverConfig holds the routing parameters sent with every solver request.
//
// A default instance is built once at startup and shared. Callers that need a
// variation derive a copy with With; the shared default is never mutated.
type SolverConfig struct {
	VehicleCapacity     int
	MaxVehiclesPerRoute int
	CostPerKm           float64
	MinCostPerTrip      float64
	Hub                 string
	Cities              []City
	DefaultDistribution []DestinationShare
	SolverTimeLimitMs   int
	SolverType          string

	AverageSpeedKmh    float64
	UnloadTimeHours    float64
	MaxTotalPackages   int
	MaxPackagesPerCity int
	MapCenter          Coordinates
	MapZoom            int
}

// DefaultSolverConfig returns the demo network: eleven German cities served
// from a Dortmund injection hub.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		VehicleCapacity:     200,
		MaxVehiclesPerRoute: 10,
		CostPerKm:           1.0,
		MinCostPerTrip:      100,
		Hub:                 "Dortmund",
		Cities: []City{
			{Name: "Berlin", Coords: Coordinates{Lat: 52.5200, Lon: 13.4050}},
			{Name: "Hamburg", Coords: Coordinates{Lat: 53.5511, Lon: 9.9937}},
			{Name: "Leipzig", Coords: Coordinates{Lat: 51.3397, Lon: 12.3731}},
			{Name: "Halle (Saale)", Coords: Coordinates{Lat: 51.4964, Lon: 11.9684}},
			{Name: "Dresden", Coords: Coordinates{Lat: 51.0504, Lon: 13.7373}},
			{Name: "Krefeld", Coords: Coordinates{Lat: 51.3386, Lon: 6.5853}},
			{Name: "Dortmund", Coords: Coordinates{Lat: 51.5136, Lon: 7.4653}},
			{Name: "Frankfurt am Main", Coords: Coordinates{Lat: 50.1109, Lon: 8.6821}},
			{Name: "Stuttgart", Coords: Coordinates{Lat: 48.7758, Lon: 9.1829}},
			{Name: "Munich", Coords: Coordinates{Lat: 48.1351, Lon: 11.5820}},
			{Name: "Leverkusen", Coords: Coordinates{Lat: 51.0459, Lon: 7.0192}},
		},
		DefaultDistribution: []DestinationShare{
			{Name: "Berlin", Percent: 28},
			{Name: "Dortmund", Percent: 11},
			{Name: "Dresden", Percent: 3},
			{Name: "Frankfurt am Main", Percent: 6},
			{Name: "Munich", Percent: 15},
			{Name: "Halle (Saale)", Percent: 1},
			{Name: "Hamburg", Percent: 12},
			{Name: "Krefeld", Percent: 9},
			{Name: "Leipzig", Percent: 3},
			{Name: "Leverkusen", Percent: 9},
			{Name: "Stuttgart", Percent: 3},
		},
		SolverTimeLimitMs:  60000,
		SolverType:         "SCIP",
		AverageSpeedKmh:    80,
		UnloadTimeHours:    0.5,
		MaxTotalPackages:   7500,
		MaxPackagesPerCity: 1000,
		MapCenter:          Coordinates{Lat: 51.1657, Lon: 10.4515},
		MapZoom:            6,
	}
}

// Clone returns a deep copy.
func (c SolverConfig) Clone() SolverConfig {
	out := c
	out.Cities = slices.Clone(c.Cities)
	out.DefaultDistribution = slices.Clone(c.DefaultDistribution)
	return out
}

// With returns a modified copy of c; c itself is left untouched.
func (c SolverConfig) With(mutate func(*SolverConfig)) SolverConfig {
	out := c.Clone()
	mutate(&out)
	return out
}

// SolverTimeLimit is the solver's own deadline.
func (c SolverConfig) SolverTimeLimit() time.Duration {
	return time.Duration(c.SolverTimeLimitMs) * time.Millisecond
}

// AvailableCities lists every known city in table order.
func (c SolverConfig) AvailableCities() []string {
	out := make([]string, 0, len(c.Cities))
	for _, city := range c.Cities {
		out = append(out, city.Name)
	}
	return out
}

// DestinationCities lists every known city except the hub.
func (c SolverConfig) DestinationCities() []string {
	out := make([]string, 0, len(c.Cities))
	for _, city := range c.Cities {
		if city.Name != c.Hub {
			out = append(out, city.Name)
		}
	}
	return out
}

// CoordinatesOf looks up a city position.
func (c SolverConfig) CoordinatesOf(name string) (Coordinates, bool) {
	for _, city := range c.Cities {
		if city.Name == name {
			return city.Coords, true
		}
	}
	return Coordinates{}, false
}

// IsKnown reports whether name is in the coordinate table.
func (c SolverConfig) IsKnown(name string) bool {
	_, ok := c.CoordinatesOf(name)
	return ok
}

// RouteCapacity is the most packages a single hub->destination edge can carry.
func (c SolverConfig) RouteCapacity() int {
	return c.VehicleCapacity * c.MaxVehiclesPerRoute
}

// MaxTotalCapacity is the most packages the whole network can carry.
func (c SolverConfig) MaxTotalCapacity() int {
	return c.RouteCapacity() * len(c.DestinationCities())
}

// RecommendedMaxPerCity bounds manual per-destination input.
func (c SolverConfig) RecommendedMaxPerCity() int {
	return min(c.MaxPackagesPerCity, c.RouteCapacity())
}

// Percentages returns the default distribution as a lookup map.
func (c SolverConfig) Percentages() map[string]int {
	out := make(map[string]int, len(c.DefaultDistribution))
	for _, s := range c.DefaultDistribution {
		out[s.Name] = s.Percent
	}
	return out
}

// Validate checks the structural invariants of a configuration.
func (c SolverConfig) Validate() error {
	if c.VehicleCapacity <= 0 {
		return invalid("vehicle_capacity", "must be positive, got %d", c.VehicleCapacity)
	}
	if c.MaxVehiclesPerRoute <= 0 {
		return invalid("max_vehicles_per_route", "must be positive, got %d", c.MaxVehiclesPerRoute)
	}
	if c.CostPerKm <= 0 || c.CostPerKm > maxCostPerKm {
		return invalid("cost_per_km", "must be within (0, %g], got %g", maxCostPerKm, c.CostPerKm)
	}
	if c.MinCostPerTrip < 0 || c.MinCostPerTrip > maxMinCostPerTrip {
		return invalid("min_cost_per_trip", "must be within [0, %g], got %g", maxMinCostPerTrip, c.MinCostPerTrip)
	}
	if c.SolverTimeLimitMs <= 0 {
		return invalid("solver_time_limit_ms", "must be positive, got %d", c.SolverTimeLimitMs)
	}
	if len(c.Cities) == 0 {
		return invalid("cities", "coordinate table is empty")
	}

	seen := make(map[string]struct{}, len(c.Cities))
	for _, city := range c.Cities {
		if city.Name == "" {
			return invalid("cities", "city name must not be empty")
		}
		if _, dup := seen[city.Name]; dup {
			return invalid("cities", "duplicate city %q", city.Name)
		}
		seen[city.Name] = struct{}{}
	}

	if c.MaxVehiclesPerRoute > maxNetworkCapacity/len(c.Cities) {
		return invalid("max_vehicles_per_route", "%d is too large for %d cities", c.MaxVehiclesPerRoute, len(c.Cities))
	}
	if limit := maxNetworkCapacity / len(c.Cities) / c.MaxVehiclesPerRoute; c.VehicleCapacity > limit {
		return invalid("vehicle_capacity", "must not exceed %d with %d vehicles per route, got %d", limit, c.MaxVehiclesPerRoute, c.VehicleCapacity)
	}

	if !c.IsKnown(c.Hub) {
		return invalid("hub", "%q is not a known city", c.Hub)
	}

	for _, s := range c.DefaultDistribution {
		if !c.IsKnown(s.Name) {
			return invalid("default_distribution", "%q is not a known city", s.Name)
		}
		if s.Percent < 0 || s.Percent > 100 {
			return invalid("default_distribution", "%q percent must be within 0-100, got %d", s.Name, s.Percent)
		}
	}

	return nil
}
