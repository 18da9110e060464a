package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/servicespot/servicespot/internal/telemetry"
)

// RequestLogger attaches a correlation ID to every request and logs the
// outcome with timing information. The correlation ID is taken from the
// X-Correlation-ID header when the caller supplies one, and is echoed back
// on the response either way.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader("X-Correlation-ID")
		if correlationID == "" {
			correlationID = telemetry.NewCorrelationID()
		}

		ctx := telemetry.WithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Correlation-ID", correlationID)

		start := time.Now()
		c.Next()

		telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
			"operation":   "http_request",
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		}).Info("Request completed")
	}
}
