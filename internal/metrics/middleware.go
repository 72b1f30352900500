package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware records request count and duration per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := pathLabel(c.FullPath())
		status := strconv.Itoa(c.Writer.Status())
		RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// pathLabel keeps label cardinality bounded: unmatched routes share one label.
func pathLabel(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
