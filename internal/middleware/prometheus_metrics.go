package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/metrics"
	"go.uber.org/zap"
)

// MetricsMiddleware collects HTTP metrics for Prometheus. Paths are labeled
// by route template so /posts/:post_id stays one series.
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		if contentLength := c.Request.ContentLength; contentLength > 0 {
			m.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(contentLength))
		}

		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		status := c.Writer.Status()
		// Numeric status label so queries like status=~"5.." work
		statusStr := strconv.Itoa(status)

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		responseSize := c.Writer.Size()
		if responseSize > 0 {
			m.HTTPResponseSize.WithLabelValues(method, path, statusStr).Observe(float64(responseSize))
		}

		logger.Log.Debug("HTTP request recorded",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration_sec", duration),
			zap.Int("response_size", responseSize),
		)
	}
}
