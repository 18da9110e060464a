package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/interfaces"
	"github.com/servicespot/servicespot/internal/middleware"
	"github.com/servicespot/servicespot/internal/monitoring"
	"github.com/servicespot/servicespot/internal/telemetry"
)

const defaultRadiusKm = 10.0

// apiResponse is the envelope for all API responses.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server exposes the location subsystem over HTTP.
type Server struct {
	engine        *gin.Engine
	location      interfaces.LocationServiceInterface
	responseCache *middleware.ResponseCache
	health        *monitoring.HealthChecker
	httpServer    *http.Server
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithResponseCache enables Redis-backed caching of nearby search responses.
func WithResponseCache(rc *middleware.ResponseCache) Option {
	return func(s *Server) { s.responseCache = rc }
}

// WithHealthChecker wires a component health checker into /health.
func WithHealthChecker(hc *monitoring.HealthChecker) Option {
	return func(s *Server) { s.health = hc }
}

// NewServer builds the Gin engine with all routes and middleware registered.
func NewServer(location interfaces.LocationServiceInterface, opts ...Option) *Server {
	s := &Server{
		engine:   gin.New(),
		location: location,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.Use(middleware.RequestLogger())
	s.engine.Use(middleware.ErrorHandler())

	if s.health != nil {
		s.engine.GET("/health", s.health.HealthHandler())
		s.engine.GET("/live", s.health.LivenessHandler())
	} else {
		s.engine.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "servicespot-location"})
		})
	}

	api := s.engine.Group("/api/location")
	{
		api.GET("/pincode/:pincode", s.handleResolvePincode)
		if s.responseCache != nil {
			api.GET("/nearby", s.responseCache.Middleware(), s.handleSearchNearby)
		} else {
			api.GET("/nearby", s.handleSearchNearby)
		}
		api.GET("/cache/stats", s.handleCacheStats)
		api.POST("/cache/clear", s.handleCacheClear)
	}
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on addr and blocks until it stops.
func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleResolvePincode(c *gin.Context) {
	pincode, err := strconv.Atoi(c.Param("pincode"))
	if err != nil {
		respondError(c, apperrors.NewInvalidSearchError("pincode must be numeric"))
		return
	}

	location, err := s.location.ResolvePincode(c.Request.Context(), pincode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Pincode resolved",
		Data:    location,
	})
}

func (s *Server) handleSearchNearby(c *gin.Context) {
	pincode, err := strconv.Atoi(c.Query("pincode"))
	if err != nil {
		respondError(c, apperrors.NewInvalidSearchError("pincode must be numeric"))
		return
	}

	radiusKm := defaultRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, apperrors.NewInvalidSearchError("radius_km must be a number"))
			return
		}
	}

	category := c.Query("category")

	matches, err := s.location.SearchNearby(c.Request.Context(), pincode, radiusKm, category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Nearby listings found",
		Data: gin.H{
			"pincode":   pincode,
			"radius_km": radiusKm,
			"count":     len(matches),
			"listings":  matches,
		},
	})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Data: gin.H{
			"cached_pincodes": s.location.CacheSize(),
		},
	})
}

func (s *Server) handleCacheClear(c *gin.Context) {
	s.location.ClearCache(c.Request.Context())
	if s.responseCache != nil {
		s.responseCache.Invalidate(c)
	}
	c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Location caches cleared",
	})
}

// respondError maps service errors onto HTTP responses using the error's
// own status when it is an application error.
func respondError(c *gin.Context, err error) {
	logger := telemetry.GetContextualLogger(c.Request.Context())

	if appErr, ok := err.(*apperrors.AppError); ok {
		logger.WithError(err).WithFields(map[string]interface{}{
			"error_type": appErr.Type,
			"error_code": appErr.Code,
		}).Warn("Request failed")

		c.JSON(appErr.HTTPStatus, apiResponse{
			Success: false,
			Message: appErr.Message,
			Error:   appErr,
		})
		return
	}

	logger.WithError(err).Error("Request failed with unexpected error")
	c.JSON(http.StatusInternalServerError, apiResponse{
		Success: false,
		Message: "Internal server error",
	})
}
