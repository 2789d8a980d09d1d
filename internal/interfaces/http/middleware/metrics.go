package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request counts, latency and in-flight requests.
// Routes are labelled with their pattern, never the raw path.
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		done := m.RequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
