// Package search ranks location-bearing candidates by great-circle distance
// from a reference point.
package search

import (
	"sort"

	apperrors "github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/geo"
)

// Candidate is a thing with an optional location: an opaque identifier and
// payload plus, possibly, coordinates. Candidates without a location are
// never considered matches.
type Candidate struct {
	ID       string
	Payload  interface{}
	Location *geo.Coordinate
}

// Result pairs a matched candidate with its distance from the reference
// point. Distance is always set; results only exist for located candidates.
type Result struct {
	Candidate  Candidate
	DistanceKm float64
}

// Filter is an optional pre-filter over candidates, applied before any
// distance math. A nil Filter admits everything.
type Filter func(c Candidate) bool

// Nearby returns the candidates within radiusKm of the reference point,
// ordered nearest-first. The radius boundary is inclusive. The sort is
// stable: candidates at equal distance retain their input order. An empty
// result is a normal successful outcome.
func Nearby(reference geo.Coordinate, radiusKm float64, candidates []Candidate, filter Filter) ([]Result, error) {
	if !reference.Valid() {
		return nil, apperrors.NewInvalidSearchError(
			"Invalid reference coordinate. Latitude must be in [-90, 90] and longitude in [-180, 180].")
	}
	if radiusKm <= 0 {
		return nil, apperrors.NewInvalidSearchError("Radius must be positive.")
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if filter != nil && !filter(c) {
			continue
		}
		if c.Location == nil {
			continue
		}
		d := geo.Distance(reference, *c.Location)
		if d <= radiusKm {
			results = append(results, Result{Candidate: c, DistanceKm: d})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results, nil
}
