package geocoding

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/geo"
	"github.com/servicespot/servicespot/internal/telemetry"
)

// Valid Indian pincodes are 6-digit integers.
const (
	MinPincode = 100000
	MaxPincode = 999999
)

// Resolver turns a pincode into a location using cache-then-provider-chain
// semantics: cache hit short-circuits everything, otherwise providers are
// tried in order and the first success is cached. Individual provider
// failures are logged and swallowed; only an exhausted chain surfaces to
// the caller. Concurrent misses for the same pincode are coalesced into a
// single upstream flight.
type Resolver struct {
	providers []Provider
	cache     *PincodeCache
	group     singleflight.Group
}

// NewResolver creates a resolver over an ordered provider chain.
func NewResolver(cache *PincodeCache, providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		cache:     cache,
	}
}

// Cache exposes the underlying pincode cache for admin operations.
func (r *Resolver) Cache() *PincodeCache {
	return r.cache
}

// Resolve returns the location for a 6-digit Indian pincode.
//
// Failure modes: an out-of-range pincode fails immediately without any
// network call; an unresolvable pincode fails with a geocoding-unavailable
// error after every provider has been tried. Failed pincodes are not
// negatively cached, so a later call retries the full chain.
func (r *Resolver) Resolve(ctx context.Context, pincode int) (geo.Location, error) {
	if pincode < MinPincode || pincode > MaxPincode {
		return geo.Location{}, apperrors.NewInvalidPincodeError(pincode)
	}

	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "resolve_pincode",
		"pincode":   pincode,
	})

	if loc, ok := r.cache.Get(pincode); ok {
		logger.Debug("Cache hit for pincode")
		return loc, nil
	}

	v, err, shared := r.group.Do(strconv.Itoa(pincode), func() (interface{}, error) {
		// A concurrent flight may have populated the cache while this
		// caller was waiting to join the group.
		if loc, ok := r.cache.Get(pincode); ok {
			return loc, nil
		}
		return r.resolveLive(ctx, pincode)
	})
	if err != nil {
		return geo.Location{}, err
	}
	if shared {
		logger.Debug("Coalesced concurrent resolution")
	}
	return v.(geo.Location), nil
}

func (r *Resolver) resolveLive(ctx context.Context, pincode int) (interface{}, error) {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "resolve_pincode",
		"pincode":   pincode,
	})

	var lastErr error
	for _, provider := range r.providers {
		loc, err := provider.Resolve(ctx, pincode)
		if err == nil {
			r.cache.Put(pincode, loc)
			logger.WithFields(map[string]interface{}{
				"provider":  provider.Name(),
				"latitude":  loc.Latitude,
				"longitude": loc.Longitude,
			}).Info("Pincode resolved")
			return loc, nil
		}
		if ctx.Err() != nil {
			// Cancellation is the caller's signal, not a provider fault.
			return nil, err
		}
		logger.WithField("provider", provider.Name()).WithError(err).
			Warn("Geocoding provider failed, trying next")
		lastErr = err
	}

	logger.WithError(lastErr).Error("All geocoding providers failed")
	return nil, apperrors.NewGeocodingUnavailableError(pincode, lastErr)
}
