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

// GeocodeXYZConfig configures the fallback geocoding provider.
type GeocodeXYZConfig struct {
	// BaseURL is the geocode.xyz host.
	BaseURL string
	// UserAgent identifies the client to the upstream service.
	UserAgent string
	// MinInterval is the minimum spacing between successive calls. The
	// free tier is throttled to roughly one request per second.
	MinInterval time.Duration
	// HTTPClient carries the connect/read timeouts.
	HTTPClient *http.Client
}

// GeocodeXYZProvider resolves pincodes against geocode.xyz. It is used only
// when the primary provider fails. Note the provider-specific field naming
// in its flat response object: latt, longt, standard.
type GeocodeXYZProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
	spacer    *callSpacer
}

// NewGeocodeXYZProvider creates the provider with its own rate-limit state.
func NewGeocodeXYZProvider(cfg GeocodeXYZConfig) *GeocodeXYZProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GeocodeXYZProvider{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    client,
		spacer:    newCallSpacer(cfg.MinInterval),
	}
}

// Name implements Provider.
func (p *GeocodeXYZProvider) Name() string {
	return "geocode.xyz"
}

// Resolve implements Provider.
func (p *GeocodeXYZProvider) Resolve(ctx context.Context, pincode int) (geo.Location, error) {
	if err := p.spacer.wait(ctx); err != nil {
		return geo.Location{}, err
	}

	url := fmt.Sprintf("%s/%d?json=1&region=IN", p.baseURL, pincode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(), err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
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

	var payload struct {
		Latt     string `json:"latt"`
		Longt    string `json:"longt"`
		Standard struct {
			City string `json:"city"`
			Prov string `json:"prov"`
		} `json:"standard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("malformed response: %w", err))
	}
	if payload.Latt == "" || payload.Longt == "" {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("response missing coordinates for pincode %d", pincode))
	}

	lat, err := strconv.ParseFloat(payload.Latt, 64)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("invalid latitude %q: %w", payload.Latt, err))
	}
	lon, err := strconv.ParseFloat(payload.Longt, 64)
	if err != nil {
		return geo.Location{}, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("invalid longitude %q: %w", payload.Longt, err))
	}

	name := payload.Standard.City
	if name == "" {
		name = fmt.Sprintf("India, %d", pincode)
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
