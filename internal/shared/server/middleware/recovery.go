package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resumeforge/internal/shared/server/respond"
	"resumeforge/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	logger = telemetry.OrNop(logger)
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic",
					zap.String("request_id", RequestIDFromContext(c)),
					zap.Any("error", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
