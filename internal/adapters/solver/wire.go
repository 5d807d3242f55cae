package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"pathmatrix-service/internal/domain"
)

// Request body. Config keys follow the names the solver service reads.
type wireRequest struct {
	Demand map[string]int `json:"demand"`
	Config wireConfig     `json:"config"`
}

type wireConfig struct {
	VehicleCapacity            int                  `json:"VEHICLE_CAPACITY"`
	MaxVehiclesPerRoute        int                  `json:"MAX_VEHICLES_PER_ROUTE"`
	CostPerKm                  float64              `json:"COST_PER_KM"`
	MinCostPerTrip             float64              `json:"MIN_COST_PER_TRIP"`
	MaxTotalPackages           int                  `json:"MAX_TOTAL_PACKAGES"`
	MaxPackagesPerCity         int                  `json:"MAX_PACKAGES_PER_CITY"`
	SolverTimeLimitMs          int                  `json:"SOLVER_TIME_LIMIT_MS"`
	SolverType                 string               `json:"SOLVER_TYPE"`
	MapCenterLat               float64              `json:"MAP_CENTER_LAT"`
	MapCenterLon               float64              `json:"MAP_CENTER_LON"`
	MapZoomStart               int                  `json:"MAP_ZOOM_START"`
	CityCoordinates            map[string][]float64 `json:"CITY_COORDINATES"`
	InjectHub                  string               `json:"inject_hub"`
	DefaultDistributionPercent map[string]int       `json:"DEFAULT_DISTRIBUTION_PERCENT"`
	AverageSpeedKmh            float64              `json:"AVERAGE_SPEED_KMH"`
	UnloadTimeHours            float64              `json:"UNLOAD_TIME_HOURS"`
	AvailableCities            []string             `json:"AVAILABLE_CITIES"`
	DestinationCities          []string             `json:"DESTINATION_CITIES"`
	MaxTotalCapacity           int                  `json:"MAX_TOTAL_CAPACITY"`
	RecommendedMaxPerCity      int                  `json:"RECOMMENDED_MAX_PER_CITY"`
}

func newWireRequest(req domain.SolverRequest) wireRequest {
	cfg := req.Config

	coords := make(map[string][]float64, len(cfg.Cities))
	for _, city := range cfg.Cities {
		coords[city.Name] = city.Coords.LatLonList()
	}

	demand := make(map[string]int, len(req.Demand))
	for k, v := range req.Demand {
		demand[k] = v
	}

	return wireRequest{
		Demand: demand,
		Config: wireConfig{
			VehicleCapacity:            cfg.VehicleCapacity,
			MaxVehiclesPerRoute:        cfg.MaxVehiclesPerRoute,
			CostPerKm:                  cfg.CostPerKm,
			MinCostPerTrip:             cfg.MinCostPerTrip,
			MaxTotalPackages:           cfg.MaxTotalPackages,
			MaxPackagesPerCity:         cfg.MaxPackagesPerCity,
			SolverTimeLimitMs:          cfg.SolverTimeLimitMs,
			SolverType:                 cfg.SolverType,
			MapCenterLat:               cfg.MapCenter.Lat,
			MapCenterLon:               cfg.MapCenter.Lon,
			MapZoomStart:               cfg.MapZoom,
			CityCoordinates:            coords,
			InjectHub:                  cfg.Hub,
			DefaultDistributionPercent: cfg.Percentages(),
			AverageSpeedKmh:            cfg.AverageSpeedKmh,
			UnloadTimeHours:            cfg.UnloadTimeHours,
			AvailableCities:            cfg.AvailableCities(),
			DestinationCities:          cfg.DestinationCities(),
			MaxTotalCapacity:           cfg.MaxTotalCapacity(),
			RecommendedMaxPerCity:      cfg.RecommendedMaxPerCity(),
		},
	}
}

type object map[string]json.RawMessage

// parseResponse validates the solver response field by field.
//
// solver_status is always required. The solution keys are only required,
// and only checked, when the status reports a solution; other statuses are
// passed through without assuming any further shape.
func parseResponse(body []byte) (*domain.SolverResult, error) {
	var fields object
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, errors.New("response is not a JSON object")
	}

	var statusText string
	if err := fields.decode("solver_status", &statusText, "string", true); err != nil {
		return nil, err
	}

	result := &domain.SolverResult{Status: domain.ParseStatus(statusText)}
	if !result.Status.HasSolution() {
		return result, nil
	}

	if err := fields.number("total_cost", &result.TotalCost); err != nil {
		return nil, err
	}
	if err := fields.number("total_km", &result.TotalKm); err != nil {
		return nil, err
	}
	if err := fields.number("solve_time", &result.SolveTimeSeconds); err != nil {
		return nil, err
	}

	var tours []object
	if err := fields.decode("tour_costs", &tours, "array of objects", true); err != nil {
		return nil, err
	}
	result.Routes = make([]domain.RouteRecord, 0, len(tours))
	for i, t := range tours {
		r, err := parseRoute(t)
		if err != nil {
			return nil, fmt.Errorf("tour_costs[%d]: %w", i, err)
		}
		result.Routes = append(result.Routes, r)
	}

	if err := fields.decode("map_html", &result.MapHTML, "string", false); err != nil {
		return nil, err
	}
	if err := fields.decode("gantt_base64", &result.GanttBase64, "string", false); err != nil {
		return nil, err
	}

	var active []object
	if err := fields.decode("active_routes", &active, "array of objects", false); err != nil {
		return nil, err
	}
	for i, a := range active {
		ar, err := parseActiveRoute(a, i)
		if err != nil {
			return nil, fmt.Errorf("active_routes[%d]: %w", i, err)
		}
		result.ActiveRoutes = append(result.ActiveRoutes, ar)
	}

	return result, nil
}

func parseRoute(o object) (domain.RouteRecord, error) {
	var r domain.RouteRecord
	if err := o.text("from", &r.From); err != nil {
		return r, err
	}
	if err := o.text("to", &r.To); err != nil {
		return r, err
	}
	if err := o.count("vehicles", &r.Vehicles, true); err != nil {
		return r, err
	}
	if err := o.count("packages", &r.Packages, true); err != nil {
		return r, err
	}
	if err := o.number("km", &r.Km); err != nil {
		return r, err
	}
	if err := o.number("cost", &r.Cost); err != nil {
		return r, err
	}
	return r, nil
}

func parseActiveRoute(o object, index int) (domain.ActiveRouteAssignment, error) {
	a := domain.ActiveRouteAssignment{Sequence: index + 1}
	if err := o.text("from", &a.From); err != nil {
		return a, err
	}
	if err := o.text("to", &a.To); err != nil {
		return a, err
	}
	if err := o.count("vehicles", &a.Vehicles, true); err != nil {
		return a, err
	}
	if err := o.count("packages", &a.Packages, true); err != nil {
		return a, err
	}
	if err := o.number("km", &a.Km); err != nil {
		return a, err
	}
	if err := o.count("sequence", &a.Sequence, false); err != nil {
		return a, err
	}

	var start, end float64
	if _, ok := o.present("start"); ok {
		if err := o.number("start", &start); err != nil {
			return a, err
		}
		a.StartHour = &start
	}
	if _, ok := o.present("end"); ok {
		if err := o.number("end", &end); err != nil {
			return a, err
		}
		a.EndHour = &end
	}

	return a, nil
}

// present returns the raw value for key, treating JSON null as absent.
func (o object) present(key string) (json.RawMessage, bool) {
	raw, ok := o[key]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func (o object) decode(key string, dst any, want string, required bool) error {
	raw, ok := o.present(key)
	if !ok {
		if required {
			return fmt.Errorf("missing required key %q", key)
		}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("key %q: expected %s", key, want)
	}
	return nil
}

func (o object) text(key string, dst *string) error {
	if err := o.decode(key, dst, "string", true); err != nil {
		return err
	}
	if *dst == "" {
		return fmt.Errorf("key %q: must not be empty", key)
	}
	return nil
}

func (o object) number(key string, dst *float64) error {
	if err := o.decode(key, dst, "number", true); err != nil {
		return err
	}
	if math.IsNaN(*dst) || math.IsInf(*dst, 0) || *dst < 0 {
		return fmt.Errorf("key %q: must be a non-negative number", key)
	}
	return nil
}

// count decodes a non-negative integer. JSON numbers such as 2.0 are accepted.
func (o object) count(key string, dst *int, required bool) error {
	if _, ok := o.present(key); !ok && !required {
		return nil
	}

	var f float64
	if err := o.decode(key, &f, "integer", true); err != nil {
		return err
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return fmt.Errorf("key %q: expected a non-negative integer", key)
	}
	*dst = int(f)
	return nil
}
