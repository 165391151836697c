package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/logger"
)

// RequestLogger logs every request with method, path, status and duration.
// The health endpoint is skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]interface{}{
			"method":             c.Request.Method,
			"path":               c.FullPath(),
			logger.FieldStatus:   status,
			logger.FieldDuration: latency.Milliseconds(),
			"client":             c.ClientIP(),
		}
		if fields["path"] == "" {
			fields["path"] = c.Request.URL.Path
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}
		logByStatus(log.WithContext(c.Request.Context()), fields, status)
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request completed", fields)
	case status >= http.StatusBadRequest:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
