package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/observability"
)

// Health reports service health. A down component answers 503; a degraded
// one (for example an unprovisioned store) still answers 200.
func Health(service, version string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.Check(c.Request.Context(), service, version, checkers...)

		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":     sh.Status,
			"service":    sh.Service,
			"version":    sh.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}
