package services

import (
	"context"
	"strings"

	"github.com/servicespot/servicespot/internal/database"
	apperrors "github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/geo"
	"github.com/servicespot/servicespot/internal/geocoding"
	"github.com/servicespot/servicespot/internal/search"
	"github.com/servicespot/servicespot/internal/telemetry"
)

// PincodeResolver resolves a pincode to a location. Satisfied by
// *geocoding.Resolver; declared here so tests can substitute a double.
type PincodeResolver interface {
	Resolve(ctx context.Context, pincode int) (geo.Location, error)
}

// ListingSource supplies the candidate set for proximity search. This
// subsystem never writes through it.
type ListingSource interface {
	ActiveListings(ctx context.Context, category string) ([]*database.ServiceListing, error)
}

// NearbyListing is a listing annotated with its distance from the search
// reference point.
type NearbyListing struct {
	Listing           *database.ServiceListing `json:"listing"`
	DistanceKm        float64                  `json:"distance_km"`
	DistanceFormatted string                   `json:"distance_formatted"`
}

// LocationService exposes the location operations of the platform: pincode
// resolution, nearby search, and the cache admin surface.
type LocationService struct {
	resolver PincodeResolver
	cache    *geocoding.PincodeCache
	listings ListingSource
}

func NewLocationService(resolver PincodeResolver, cache *geocoding.PincodeCache, listings ListingSource) *LocationService {
	return &LocationService{
		resolver: resolver,
		cache:    cache,
		listings: listings,
	}
}

// ResolvePincode returns the coordinates for a 6-digit Indian pincode.
func (s *LocationService) ResolvePincode(ctx context.Context, pincode int) (geo.Location, error) {
	return s.resolver.Resolve(ctx, pincode)
}

// SearchNearby returns active listings within radiusKm of the pincode's
// location, nearest first. An empty category means no category filter;
// category matching is case-insensitive exact equality.
func (s *LocationService) SearchNearby(ctx context.Context, pincode int, radiusKm float64, category string) ([]NearbyListing, error) {
	// Cheap rejection before any network call or rate-limit wait.
	if radiusKm <= 0 {
		return nil, apperrors.NewInvalidSearchError("Radius must be positive.")
	}

	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "search_nearby",
		"pincode":   pincode,
		"radius_km": radiusKm,
		"category":  category,
	})

	reference, err := s.resolver.Resolve(ctx, pincode)
	if err != nil {
		return nil, err
	}

	listings, err := s.listings.ActiveListings(ctx, category)
	if err != nil {
		return nil, apperrors.NewDatabaseError("active_listings", err)
	}

	candidates := make([]search.Candidate, 0, len(listings))
	for _, listing := range listings {
		candidates = append(candidates, search.Candidate{
			ID:       listing.ID,
			Payload:  listing,
			Location: listing.Coordinate(),
		})
	}

	// The store already filters by category; the predicate keeps the
	// semantics intact for sources that return unfiltered sets.
	var filter search.Filter
	if category != "" {
		filter = func(c search.Candidate) bool {
			listing, ok := c.Payload.(*database.ServiceListing)
			return ok && strings.EqualFold(listing.Category, category)
		}
	}

	results, err := search.Nearby(reference.Coordinate, radiusKm, candidates, filter)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyListing, 0, len(results))
	for _, r := range results {
		nearby = append(nearby, NearbyListing{
			Listing:           r.Candidate.Payload.(*database.ServiceListing),
			DistanceKm:        r.DistanceKm,
			DistanceFormatted: geo.FormatDistance(r.DistanceKm),
		})
	}

	logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"matches":    len(nearby),
	}).Info("Nearby search completed")

	return nearby, nil
}

// CacheSize reports the number of cached pincodes.
func (s *LocationService) CacheSize() int {
	return s.cache.Size()
}

// ClearCache drops all cached pincode resolutions.
func (s *LocationService) ClearCache(ctx context.Context) {
	s.cache.Clear()
	telemetry.GetContextualLogger(ctx).WithField("operation", "clear_cache").
		Info("Pincode cache cleared")
}
