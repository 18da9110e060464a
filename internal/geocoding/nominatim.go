package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/geo"
	"github.com/servicespot/servicespot/internal/telemetry"
)

// NominatimConfig configures the primary geocoding provider.
type NominatimConfig struct {
	// BaseURL is the Nominatim host, e.g. https://nominatim.openstreetmap.org.
	BaseURL string
	// UserAgent is mandatory: the Nominatim usage policy requires a
	// descriptive identifying string on every request.
	UserAgent string
	// Referer is optional but recommended by the same policy.
	Referer string
	// MinInterval is the minimum spacing between successive calls.
	// Nominatim allows at most one request per second.
	MinInterval time.Duration
	// HTTPClient carries the connect/read timeouts. A default 10s client
	// is used when nil.
	HTTPClient *http.Client
}

// NominatimProvider resolves pincodes against the OpenStreetMap Nominatim
// search API. It is the primary provider in the resolution chain.
type NominatimProvider struct {
	baseURL   string
	userAgent string
	referer   string
	client    *http.Client
	spacer    *callSpacer
}

// NewNominatimProvider creates the provider with its own rate-limit state.
func NewNominatimProvider(cfg NominatimConfig) *NominatimProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NominatimProvider{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		referer:   cfg.Referer,
		client:    client,
		spacer:    newCallSpacer(cfg.MinInterval),
	}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string {
	return "nominatim"
}

// Resolve implements Provider. Nominatim returns a JSON array of matches
// with string-encoded coordinates; only the first (most relevant) match is
// used.
func (p *NominatimProvider) Resolve(ctx context.Context, pincode int) (geo.Location, error) {
	if err := p.spacer.wait(ctx); err != nil {
		return geo.Location{}, err
	}

	url := fmt.Sprintf("%s/search?postalcode=%d&country=India&format=json&limit=1", p.baseURL, pincode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(), err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	if p.referer != "" {
		req.Header.Set("Referer", p.referer)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("malformed response: %w", err))
	}
	if len(results) == 0 {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("no results for pincode %d", pincode))
	}

	first := results[0]
	if first.Lat == "" || first.Lon == "" {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("result missing coordinates for pincode %d", pincode))
	}

	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("invalid latitude %q: %w", first.Lat, err))
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("invalid longitude %q: %w", first.Lon, err))
	}

	name := first.DisplayName
	if name == "" {
		name = "Location in India"
	}

	loc := geo.Location{
		Coordinate: geo.Coordinate{Latitude: lat, Longitude: lon},
		Name:       name,
	}

	telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "geocode",
		"provider":  p.Name(),
		"pincode":   pincode,
		"latitude":  lat,
		"longitude": lon,
	}).Debug("Resolved pincode")

	return loc, nil
}
