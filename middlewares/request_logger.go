package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vitatrack/utils"
)

// RequestLogger emits one structured log line per request and feeds the
// request counters and latency histogram.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)

		utils.ReqCount.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		utils.ReqDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())

		log.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
