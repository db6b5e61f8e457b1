package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wallspace/internal/pkg/metrics"
)

// Metrics records request counts and latency, labelled by route template rather than raw path.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
