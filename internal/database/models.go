package database

import (
	"time"

	"github.com/servicespot/servicespot/internal/geo"
)

// ServiceListing is a provider's advertised service. The provider's
// coordinates are denormalized onto the listing; they are nullable because
// providers may not have shared a location yet.
type ServiceListing struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceRupees float64   `json:"price_rupees"`
	Active      bool      `json:"active"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Coordinate returns the listing's location, or nil when the provider has
// no coordinates. Latitude and longitude are only ever set together.
func (l *ServiceListing) Coordinate() *geo.Coordinate {
	if l.Latitude == nil || l.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}
}
