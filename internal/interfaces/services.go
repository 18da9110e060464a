package interfaces

import (
	"context"

	"github.com/servicespot/servicespot/internal/geo"
	"github.com/servicespot/servicespot/internal/services"
)

// LocationServiceInterface defines the interface for location operations
type LocationServiceInterface interface {
	ResolvePincode(ctx context.Context, pincode int) (geo.Location, error)
	SearchNearby(ctx context.Context, pincode int, radiusKm float64, category string) ([]services.NearbyListing, error)
	CacheSize() int
	ClearCache(ctx context.Context)
}
