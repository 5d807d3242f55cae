package services

import (
	"fmt"
	"pathmatrix-service/internal/domain"
)

// BuildDemandMarkers lays out the demand overview map: the hub in red with an
// overlay for its own demand, destinations with demand as blue circles sized
// by their share of the largest demand, and the rest as small grey circles.
func BuildDemandMarkers(demand domain.DemandMap, cfg domain.SolverConfig) []domain.DemandMarker {
	largest := 1
	for _, n := range demand {
		largest = max(largest, n)
	}
	scaled := func(n int) float64 { return 5 + float64(n)/float64(largest)*10 }

	markers := make([]domain.DemandMarker, 0, len(cfg.Cities)+1)
	for _, city := range cfg.Cities {
		n := demand[city.Name]
		base := domain.DemandMarker{City: city.Name, Lat: city.Coords.Lat, Lon: city.Coords.Lon, Packages: n}

		switch {
		case city.Name == cfg.Hub:
			hub := base
			hub.Kind = domain.MarkerHub
			hub.Radius = 8
			hub.Color = "red"
			hub.FillOpacity = 0.8
			hub.Tooltip = city.Name + ": Central Distribution Hub"

			overlay := base
			overlay.Kind = domain.MarkerHubDemand
			overlay.Radius = scaled(n)
			overlay.Color = "darkblue"
			overlay.FillOpacity = 0.5

			markers = append(markers, hub, overlay)
		case n > 0:
			m := base
			m.Kind = domain.MarkerDemand
			m.Radius = scaled(n)
			m.Color = "darkblue"
			m.FillOpacity = 0.7
			m.Tooltip = fmt.Sprintf("%s: %d packages", city.Name, n)
			markers = append(markers, m)
		default:
			m := base
			m.Kind = domain.MarkerNoDemand
			m.Radius = 3
			m.Color = "lightgray"
			m.FillOpacity = 0.3
			m.Tooltip = city.Name + ": No packages"
			markers = append(markers, m)
		}
	}

	return markers
}
