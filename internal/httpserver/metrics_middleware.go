package httpserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/pkg/metrics"
)

// MetricsMiddleware records per-route request latency. The route template
// is used as the path label so ids do not explode the cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
