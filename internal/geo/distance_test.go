package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	newDelhi = Coordinate{Latitude: 28.6448, Longitude: 77.2167}
	mumbai   = Coordinate{Latitude: 19.0760, Longitude: 72.8777}
)

func TestDistance_Symmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b Coordinate
	}{
		{"Delhi-Mumbai", newDelhi, mumbai},
		{"Equator crossing", Coordinate{Latitude: -10, Longitude: 20}, Coordinate{Latitude: 15, Longitude: -30}},
		{"Antimeridian", Coordinate{Latitude: 5, Longitude: 179.5}, Coordinate{Latitude: 5, Longitude: -179.5}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a), 1e-9)
		})
	}
}

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(newDelhi, newDelhi))
	assert.Equal(t, 0.0, Distance(Coordinate{}, Coordinate{}))
}

func TestDistance_DelhiToMumbai(t *testing.T) {
	d := Distance(newDelhi, mumbai)
	assert.Greater(t, d, 1150.0)
	assert.Less(t, d, 1160.0)
}

func TestDistance_TriangleInequality(t *testing.T) {
	a := Coordinate{Latitude: 12.9716, Longitude: 77.5946} // Bangalore
	b := Coordinate{Latitude: 17.3850, Longitude: 78.4867} // Hyderabad
	c := Coordinate{Latitude: 13.0827, Longitude: 80.2707} // Chennai

	ac := Distance(a, c)
	viaB := Distance(a, b) + Distance(b, c)
	assert.LessOrEqual(t, ac, viaB+viaB*1e-6)
}

func TestDistanceMiles_ScalesWithRadius(t *testing.T) {
	km := Distance(newDelhi, mumbai)
	miles := DistanceMiles(newDelhi, mumbai)
	assert.InDelta(t, km/6371.0, miles/3958.8, 1e-9)
}

func TestDistance_NaNPropagates(t *testing.T) {
	bad := Coordinate{Latitude: math.NaN(), Longitude: 77.0}
	assert.True(t, math.IsNaN(Distance(bad, mumbai)))
}

func TestIsWithinRadius(t *testing.T) {
	d := Distance(newDelhi, mumbai)

	assert.True(t, IsWithinRadius(newDelhi, mumbai, d)) // inclusive boundary
	assert.True(t, IsWithinRadius(newDelhi, mumbai, d+1))
	assert.False(t, IsWithinRadius(newDelhi, mumbai, d-1))
	assert.True(t, IsWithinRadius(newDelhi, newDelhi, 0))
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km       float64
		expected string
	}{
		{0.5, "500 m"},
		{0.849, "849 m"},
		{0.85, "850 m"},
		{0.999, "999 m"},
		{1.0, "1.0 km"},
		{2.549, "2.5 km"},
		{12.34, "12.3 km"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDistance(tt.km))
		})
	}
}

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Latitude: 90, Longitude: -180}.Valid())
	assert.True(t, Coordinate{}.Valid())
	assert.False(t, Coordinate{Latitude: 90.1}.Valid())
	assert.False(t, Coordinate{Longitude: 180.5}.Valid())
}
