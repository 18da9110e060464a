package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/servicespot/servicespot/internal/errors"
)

func newNominatimForTest(t *testing.T, handler http.HandlerFunc) *NominatimProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewNominatimProvider(NominatimConfig{
		BaseURL:   server.URL,
		UserAgent: "ServiceSpot-test/1.0 (test@servicespot.com)",
		Referer:   "https://servicespot.com",
	})
}

func TestNominatim_ResolveSuccess(t *testing.T) {
	var gotQuery string
	var gotUserAgent, gotReferer string

	provider := newNominatimForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUserAgent = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"28.6448","lon":"77.2167","display_name":"New Delhi, Delhi, India"}]`))
	})

	loc, err := provider.Resolve(context.Background(), 110001)
	require.NoError(t, err)

	assert.Equal(t, 28.6448, loc.Latitude)
	assert.Equal(t, 77.2167, loc.Longitude)
	assert.Equal(t, "New Delhi, Delhi, India", loc.Name)

	assert.Contains(t, gotQuery, "postalcode=110001")
	assert.Contains(t, gotQuery, "country=India")
	assert.Contains(t, gotQuery, "format=json")
	assert.Contains(t, gotQuery, "limit=1")
	assert.Equal(t, "ServiceSpot-test/1.0 (test@servicespot.com)", gotUserAgent)
	assert.Equal(t, "https://servicespot.com", gotReferer)
}

func TestNominatim_MissingDisplayNameGetsDefault(t *testing.T) {
	provider := newNominatimForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"28.6448","lon":"77.2167"}]`))
	})

	loc, err := provider.Resolve(context.Background(), 110001)
	require.NoError(t, err)
	assert.Equal(t, "Location in India", loc.Name)
}

func TestNominatim_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-200 status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			"empty result set",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			},
		},
		{
			"result missing coordinates",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"display_name":"somewhere"}]`))
			},
		},
		{
			"non-numeric coordinates",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"lat":"north","lon":"east"}]`))
			},
		},
		{
			"malformed JSON",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newNominatimForTest(t, tt.handler)

			_, err := provider.Resolve(context.Background(), 110001)
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeExternal))
		})
	}
}

func TestNominatim_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	provider := NewNominatimProvider(NominatimConfig{
		BaseURL:   server.URL,
		UserAgent: "ServiceSpot-test/1.0",
	})

	_, err := provider.Resolve(context.Background(), 110001)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeExternal))
}
