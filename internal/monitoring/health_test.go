package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicespot/servicespot/internal/geo"
	"github.com/servicespot/servicespot/internal/geocoding"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func healthyComponent() ComponentHealth {
	return ComponentHealth{Status: HealthStatusHealthy, LastChecked: time.Now()}
}

func TestGetHealth_AllComponentsHealthy(t *testing.T) {
	hc := NewHealthChecker("servicespot", "1.0.0")
	hc.RegisterCustomCheck("alpha", healthyComponent)
	hc.RegisterCustomCheck("beta", healthyComponent)

	health := hc.GetHealth()

	assert.Equal(t, HealthStatusHealthy, health.Status)
	assert.Equal(t, "servicespot", health.Service)
	assert.Len(t, health.Components, 2)
	assert.Greater(t, health.System.Goroutines, 0)
}

func TestGetHealth_UnhealthyComponentWins(t *testing.T) {
	hc := NewHealthChecker("servicespot", "1.0.0")
	hc.RegisterCustomCheck("good", healthyComponent)
	hc.RegisterCustomCheck("degraded", func() ComponentHealth {
		return ComponentHealth{Status: HealthStatusDegraded, LastChecked: time.Now()}
	})
	hc.RegisterCustomCheck("bad", func() ComponentHealth {
		return ComponentHealth{Status: HealthStatusUnhealthy, LastChecked: time.Now()}
	})

	health := hc.GetHealth()

	assert.Equal(t, HealthStatusUnhealthy, health.Status)
}

func TestGetHealth_DegradedWithoutUnhealthy(t *testing.T) {
	hc := NewHealthChecker("servicespot", "1.0.0")
	hc.RegisterCustomCheck("good", healthyComponent)
	hc.RegisterCustomCheck("slow", func() ComponentHealth {
		return ComponentHealth{Status: HealthStatusDegraded, LastChecked: time.Now()}
	})

	assert.Equal(t, HealthStatusDegraded, hc.GetHealth().Status)
}

func TestRegisterGeocodeCacheCheck_ReportsSize(t *testing.T) {
	pincodeCache := geocoding.NewPincodeCache()
	pincodeCache.Put(110001, geo.Location{
		Coordinate: geo.Coordinate{Latitude: 28.6328, Longitude: 77.2197},
		Name:       "Connaught Place, New Delhi",
	})

	hc := NewHealthChecker("servicespot", "1.0.0")
	hc.RegisterGeocodeCacheCheck("pincode_cache", pincodeCache)
	hc.RunChecks()

	health := hc.GetHealth()
	component, ok := health.Components["pincode_cache"]
	require.True(t, ok)
	assert.Equal(t, HealthStatusHealthy, component.Status)

	details, ok := component.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1, details["cached_pincodes"])
}

func TestHealthHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		component  ComponentHealth
		wantStatus int
	}{
		{
			name:       "healthy returns 200",
			component:  ComponentHealth{Status: HealthStatusHealthy},
			wantStatus: http.StatusOK,
		},
		{
			name:       "degraded still returns 200",
			component:  ComponentHealth{Status: HealthStatusDegraded},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unhealthy returns 503",
			component:  ComponentHealth{Status: HealthStatusUnhealthy},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker("servicespot", "1.0.0")
			hc.RegisterCustomCheck("component", func() ComponentHealth {
				return tt.component
			})

			router := gin.New()
			router.GET("/health", hc.HealthHandler())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLivenessHandler(t *testing.T) {
	hc := NewHealthChecker("servicespot", "1.0.0")

	router := gin.New()
	router.GET("/live", hc.LivenessHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)
}
