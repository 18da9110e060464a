package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ListingStore provides access to service listings. The proximity search
// path only reads from it; writes exist for the listing management surface.
type ListingStore struct {
	db *DB
}

func NewListingStore(db *DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingColumns = `
	id, provider_id, title, description, category, price_rupees,
	active, latitude, longitude, created_at, updated_at
`

// ActiveListings returns all active listings, optionally restricted to a
// category (case-insensitive exact match). An empty category means no
// category filter.
func (s *ListingStore) ActiveListings(ctx context.Context, category string) ([]*ServiceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM service_listings WHERE active = true`
	args := []interface{}{}
	if category != "" {
		query += ` AND LOWER(category) = LOWER($1)`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active listings: %w", err)
	}
	defer rows.Close()

	var listings []*ServiceListing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

// GetListing returns one listing by ID.
func (s *ListingStore) GetListing(ctx context.Context, id string) (*ServiceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM service_listings WHERE id = $1`

	listing, err := scanListing(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("listing not found")
		}
		return nil, err
	}
	return listing, nil
}

// CreateListing inserts a listing, generating an ID when absent.
func (s *ListingStore) CreateListing(ctx context.Context, listing *ServiceListing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	query := `
		INSERT INTO service_listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		listing.ID, listing.ProviderID, listing.Title, listing.Description,
		listing.Category, listing.PriceRupees, listing.Active,
		listing.Latitude, listing.Longitude, listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*ServiceListing, error) {
	listing := &ServiceListing{}
	err := row.Scan(
		&listing.ID, &listing.ProviderID, &listing.Title, &listing.Description,
		&listing.Category, &listing.PriceRupees, &listing.Active,
		&listing.Latitude, &listing.Longitude, &listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return listing, nil
}
