package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicespot/servicespot/internal/database"
	apperrors "github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/geo"
	"github.com/servicespot/servicespot/internal/geocoding"
)

type stubResolver struct {
	loc   geo.Location
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, pincode int) (geo.Location, error) {
	s.calls++
	if s.err != nil {
		return geo.Location{}, s.err
	}
	return s.loc, nil
}

type stubListings struct {
	listings []*database.ServiceListing
	err      error
	category string
}

func (s *stubListings) ActiveListings(ctx context.Context, category string) ([]*database.ServiceListing, error) {
	s.category = category
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func listingAt(id, category string, lat, lon float64) *database.ServiceListing {
	return &database.ServiceListing{
		ID:        id,
		Title:     id,
		Category:  category,
		Active:    true,
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lon),
	}
}

func newServiceForTest(resolver *stubResolver, listings *stubListings) *LocationService {
	return NewLocationService(resolver, geocoding.NewPincodeCache(), listings)
}

func TestSearchNearby_SortsAndAnnotatesByDistance(t *testing.T) {
	resolver := &stubResolver{loc: geo.Location{
		Coordinate: geo.Coordinate{Latitude: 0, Longitude: 0},
	}}
	// Listings along the equator: 0.3°, 0.1°, 0.2° east of the reference.
	listings := &stubListings{listings: []*database.ServiceListing{
		listingAt("far", "Plumbing", 0, 0.3),
		listingAt("near", "Plumbing", 0, 0.1),
		listingAt("mid", "Plumbing", 0, 0.2),
	}}
	service := newServiceForTest(resolver, listings)

	results, err := service.SearchNearby(context.Background(), 110001, 100, "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "near", results[0].Listing.ID)
	assert.Equal(t, "mid", results[1].Listing.ID)
	assert.Equal(t, "far", results[2].Listing.ID)

	for _, r := range results {
		assert.Greater(t, r.DistanceKm, 0.0)
		assert.Equal(t, geo.FormatDistance(r.DistanceKm), r.DistanceFormatted)
	}
}

func TestSearchNearby_RadiusExcludesDistantListings(t *testing.T) {
	resolver := &stubResolver{loc: geo.Location{}}
	listings := &stubListings{listings: []*database.ServiceListing{
		listingAt("near", "Plumbing", 0, 0.05), // ~5.6 km
		listingAt("far", "Plumbing", 0, 0.5),   // ~55.6 km
	}}
	service := newServiceForTest(resolver, listings)

	results, err := service.SearchNearby(context.Background(), 110001, 10, "")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Listing.ID)
}

func TestSearchNearby_CategoryFilterIsCaseInsensitive(t *testing.T) {
	resolver := &stubResolver{loc: geo.Location{}}
	listings := &stubListings{listings: []*database.ServiceListing{
		listingAt("plumber", "Plumbing", 0, 0.1),
		listingAt("electrician", "Electrical", 0, 0.05),
	}}
	service := newServiceForTest(resolver, listings)

	results, err := service.SearchNearby(context.Background(), 110001, 100, "PLUMBING")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "plumber", results[0].Listing.ID)
	assert.Equal(t, "PLUMBING", listings.category, "category filter is pushed to the store")
}

func TestSearchNearby_ListingsWithoutCoordinatesAreSkipped(t *testing.T) {
	resolver := &stubResolver{loc: geo.Location{}}
	unlocated := &database.ServiceListing{ID: "no-coords", Category: "Plumbing", Active: true}
	listings := &stubListings{listings: []*database.ServiceListing{unlocated}}
	service := newServiceForTest(resolver, listings)

	results, err := service.SearchNearby(context.Background(), 110001, 100, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchNearby_InvalidRadiusShortCircuits(t *testing.T) {
	resolver := &stubResolver{loc: geo.Location{}}
	service := newServiceForTest(resolver, &stubListings{})

	_, err := service.SearchNearby(context.Background(), 110001, 0, "")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidSearchParams, appErr.Code)
	assert.Equal(t, 0, resolver.calls, "no geocoding attempt for an invalid radius")
}

func TestSearchNearby_ResolverErrorPropagates(t *testing.T) {
	resolverErr := apperrors.NewGeocodingUnavailableError(110001, fmt.Errorf("down"))
	resolver := &stubResolver{err: resolverErr}
	service := newServiceForTest(resolver, &stubListings{})

	_, err := service.SearchNearby(context.Background(), 110001, 10, "")
	assert.Equal(t, resolverErr, err)
}

func TestSearchNearby_StoreErrorWrapped(t *testing.T) {
	resolver := &stubResolver{loc: geo.Location{}}
	listings := &stubListings{err: fmt.Errorf("connection lost")}
	service := newServiceForTest(resolver, listings)

	_, err := service.SearchNearby(context.Background(), 110001, 10, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}

func TestCacheAdminOperations(t *testing.T) {
	cache := geocoding.NewPincodeCache()
	service := NewLocationService(&stubResolver{}, cache, &stubListings{})

	assert.Equal(t, 0, service.CacheSize())

	cache.Put(110001, geo.Location{Name: "Delhi"})
	assert.Equal(t, 1, service.CacheSize())

	service.ClearCache(context.Background())
	assert.Equal(t, 0, service.CacheSize())
}
