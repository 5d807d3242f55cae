package domain

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lat, lon], the order the solver service expects.
func (c Coordinates) LatLonList() []float64 { return []float64{c.Lat, c.Lon} }

// City is a named, known destination with a fixed position.
type City struct {
	Name   string
	Coords Coordinates
}
