package domain

type MarkerKind string

const (
	MarkerHub       MarkerKind = "hub"
	MarkerHubDemand MarkerKind = "hub_demand"
	MarkerDemand    MarkerKind = "demand"
	MarkerNoDemand  MarkerKind = "no_demand"
)

// DemandMarker is one circle on the demand overview map.
// Radius scales with the destination's share of the largest demand.
type DemandMarker struct {
	City        string     `json:"city"`
	Kind        MarkerKind `json:"kind"`
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	Radius      float64    `json:"radius"`
	Color       string     `json:"color"`
	FillOpacity float64    `json:"fill_opacity"`
	Tooltip     string     `json:"tooltip,omitempty"`
	Packages    int        `json:"packages"`
}
