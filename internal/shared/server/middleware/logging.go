package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"forecast-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers set changeId and the
// risk fields after a successful assessment so the log line carries enough
// structured data for post-hoc reporting.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if changeID := c.GetString("changeId"); changeID != "" {
			fields["change_id"] = changeID
		}
		if score, ok := c.Get("riskScore"); ok {
			fields["risk_score"] = score
		}
		if level := c.GetString("riskLevel"); level != "" {
			fields["risk_level"] = level
		}

		telemetry.Info("request.complete", fields)
	}
}
