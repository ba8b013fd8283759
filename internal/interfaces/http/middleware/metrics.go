package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ainstein-ai-api/pkg/metrics"
)

// Metrics 记录 HTTP 请求数、耗时、响应体大小与在途请求数。
// path 标签取路由模板，未匹配的路由统一记为 unmatched，避免标签基数膨胀。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isUnobserved(c.Request.URL.Path) {
			c.Next()
			return
		}

		method := c.Request.Method
		metrics.HTTPInFlight.Inc()
		start := time.Now()

		c.Next()

		metrics.HTTPInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
