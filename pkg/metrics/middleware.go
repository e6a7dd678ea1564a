package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware records request duration and count per route template, method
// and status. Unmatched paths collapse into "unknown" to keep the route label
// bounded.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		HTTPRequestDuration.WithLabelValues(route, c.Request.Method, status).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, status).Inc()
	}
}
