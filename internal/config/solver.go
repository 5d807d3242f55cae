package config

import (
	"errors"
	"fmt"
	"os"
	"pathmatrix-service/internal/domain"

	yaml "gopkg.in/yaml.v3"
)

// solverFile is the YAML layout of a solver configuration file. Every field
// is optional; missing fields keep their default.
type solverFile struct {
	VehicleCapacity     *int         `yaml:"vehicle_capacity"`
	MaxVehiclesPerRoute *int         `yaml:"max_vehicles_per_route"`
	CostPerKm           *float64     `yaml:"cost_per_km"`
	MinCostPerTrip      *float64     `yaml:"min_cost_per_trip"`
	Hub                 *string      `yaml:"hub"`
	SolverTimeLimitMs   *int         `yaml:"solver_time_limit_ms"`
	SolverType          *string      `yaml:"solver_type"`
	AverageSpeedKmh     *float64     `yaml:"average_speed_kmh"`
	UnloadTimeHours     *float64     `yaml:"unload_time_hours"`
	MaxTotalPackages    *int         `yaml:"max_total_packages"`
	MaxPackagesPerCity  *int         `yaml:"max_packages_per_city"`
	MapZoom             *int         `yaml:"map_zoom"`
	MapCenter           *point       `yaml:"map_center"`
	Cities              []cityEntry  `yaml:"cities"`
	Distribution        []shareEntry `yaml:"distribution"`
}

type point struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

type cityEntry struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

type shareEntry struct {
	Name    string `yaml:"name"`
	Percent int    `yaml:"percent"`
}

// LoadSolverConfig reads a YAML file on top of the built-in defaults. An
// empty path returns the defaults. The result is validated.
func LoadSolverConfig(path string) (domain.SolverConfig, error) {
	cfg := domain.DefaultSolverConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SolverConfig{}, fmt.Errorf("load solver config: read %q: %w", path, err)
	}

	return ParseSolverConfig(data)
}

// ParseSolverConfig applies YAML data to the defaults and validates the result.
func ParseSolverConfig(data []byte) (domain.SolverConfig, error) {
	var f solverFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.SolverConfig{}, fmt.Errorf("load solver config: parse yaml: %w", err)
	}

	cfg, err := f.apply(domain.DefaultSolverConfig())
	if err != nil {
		return domain.SolverConfig{}, fmt.Errorf("load solver config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.SolverConfig{}, fmt.Errorf("load solver config: %w", err)
	}

	return cfg, nil
}

func (f solverFile) apply(cfg domain.SolverConfig) (domain.SolverConfig, error) {
	setInt(&cfg.VehicleCapacity, f.VehicleCapacity)
	setInt(&cfg.MaxVehiclesPerRoute, f.MaxVehiclesPerRoute)
	setFloat(&cfg.CostPerKm, f.CostPerKm)
	setFloat(&cfg.MinCostPerTrip, f.MinCostPerTrip)
	setInt(&cfg.SolverTimeLimitMs, f.SolverTimeLimitMs)
	setFloat(&cfg.AverageSpeedKmh, f.AverageSpeedKmh)
	setFloat(&cfg.UnloadTimeHours, f.UnloadTimeHours)
	setInt(&cfg.MaxTotalPackages, f.MaxTotalPackages)
	setInt(&cfg.MaxPackagesPerCity, f.MaxPackagesPerCity)
	setInt(&cfg.MapZoom, f.MapZoom)
	if f.Hub != nil {
		cfg.Hub = *f.Hub
	}
	if f.SolverType != nil {
		cfg.SolverType = *f.SolverType
	}
	if f.MapCenter != nil {
		cfg.MapCenter = domain.Coordinates{Lat: f.MapCenter.Lat, Lon: f.MapCenter.Lon}
	}

	if len(f.Cities) > 0 {
		cfg.Cities = make([]domain.City, 0, len(f.Cities))
		for _, c := range f.Cities {
			cfg.Cities = append(cfg.Cities, domain.City{Name: c.Name, Coords: domain.Coordinates{Lat: c.Lat, Lon: c.Lon}})
		}
	}

	if len(f.Distribution) > 0 {
		cfg.DefaultDistribution = make([]domain.DestinationShare, 0, len(f.Distribution))
		total := 0
		for _, s := range f.Distribution {
			cfg.DefaultDistribution = append(cfg.DefaultDistribution, domain.DestinationShare{Name: s.Name, Percent: s.Percent})
			total += s.Percent
		}
		// Shares are normalized at distribution time, but they cannot all be zero.
		if total == 0 {
			return cfg, errors.New("distribution percentages must not all be zero")
		}
	}

	return cfg, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
