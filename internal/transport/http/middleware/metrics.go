package middleware

import (
	"time"

	"github.com/ErlanBelekov/data-drive/internal/metrics"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels every request that matched no route.
const unmatchedRoute = "unmatched"

// Metrics records latency and count per route pattern, e.g.
// "/report/coin/:coin_id" rather than the concrete coin.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
