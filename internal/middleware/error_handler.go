package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/servicespot/servicespot/internal/errors"
	"github.com/servicespot/servicespot/internal/telemetry"
)

// ErrorHandler recovers from panics in handlers and turns them into a
// structured 500 response instead of a dropped connection.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				correlationID := telemetry.GetCorrelationID(ctx)

				telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
					"operation":   "error_handler_panic",
					"panic_value": fmt.Sprintf("%v", r),
					"stack_trace": string(debug.Stack()),
					"path":        c.Request.URL.Path,
				}).Error("Panic recovered in handler")

				appErr := errors.NewInternalError(fmt.Sprintf("Panic in handler: %v", r), nil).
					WithCorrelationID(correlationID)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "An unexpected error occurred",
					"error":   appErr.Code,
				})
			}
		}()

		c.Next()
	}
}
