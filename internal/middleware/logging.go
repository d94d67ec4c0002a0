package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lireddit-server/internal/logger"
	"lireddit-server/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID, logs its outcome and
// records its latency.
func RequestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		m.ObserveRequest(c.Request.Method, route, status, elapsed)

		fields := map[string]any{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
		}
		if status >= 500 {
			logger.Error("request failed", fields)
			return
		}
		logger.Debug("request", fields)
	}
}
