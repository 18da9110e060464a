// Package geo provides geographic value types and great-circle distance
// computations on the mean-Earth-radius sphere.
package geo

// Coordinate represents a geographic point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`  // degrees, -90 to 90
	Longitude float64 `json:"longitude"` // degrees, -180 to 180
}

// Valid reports whether the coordinate is inside the valid lat/lon ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Location is a coordinate enriched with an advisory place name, as returned
// by geocoding. The name never participates in distance computation.
type Location struct {
	Coordinate
	Name string `json:"location,omitempty"`
}
