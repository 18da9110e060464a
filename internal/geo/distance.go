package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusKm    = 6371.0
	earthRadiusMiles = 3958.8
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func haversine(a, b Coordinate, radius float64) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return radius * c
}

// Distance returns the great-circle distance between two points in kilometers
// using the Haversine formula. NaN inputs propagate NaN.
func Distance(a, b Coordinate) float64 {
	return haversine(a, b, earthRadiusKm)
}

// DistanceMiles returns the great-circle distance between two points in miles.
func DistanceMiles(a, b Coordinate) float64 {
	return haversine(a, b, earthRadiusMiles)
}

// IsWithinRadius reports whether b lies within radiusKm of a.
// The boundary is inclusive.
func IsWithinRadius(a, b Coordinate, radiusKm float64) bool {
	return Distance(a, b) <= radiusKm
}

// FormatDistance renders a distance for display: sub-kilometer distances as
// rounded integer meters ("850 m"), everything else as "2.5 km".
func FormatDistance(km float64) string {
	if km < 1.0 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}
