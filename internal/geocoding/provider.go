// Package geocoding resolves Indian postal pincodes to geographic
// coordinates through a chain of external geocoding services, with
// process-wide caching and per-provider rate limiting.
package geocoding

import (
	"context"

	"github.com/servicespot/servicespot/internal/geo"
)

// Provider resolves a 6-digit Indian pincode to coordinates against one
// upstream geocoding service. Implementations never return partial data:
// a resolution either yields a complete location or an error.
type Provider interface {
	// Name identifies the provider in logs and error metadata.
	Name() string
	// Resolve performs one upstream lookup. It blocks until the provider's
	// own rate-limit window allows the call, or the context is cancelled.
	Resolve(ctx context.Context, pincode int) (geo.Location, error)
}
