package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resumeforge/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging(logger *zap.Logger) gin.HandlerFunc {
	logger = telemetry.OrNop(logger)
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("duration_ms", float64(latency.Microseconds())/1000.0),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if id := c.GetString("analysisId"); id != "" {
			fields = append(fields, zap.String("analysis_id", id))
		}
		if id := c.GetString("workflowId"); id != "" {
			fields = append(fields, zap.String("workflow_id", id))
		}
		logger.Info("request.complete", fields...)
	}
}
