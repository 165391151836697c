package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/logger"
)

// Recovery turns a panic into a 500 internal error and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("panic recovered", map[string]interface{}{
					"error":     fmt.Sprintf("%v", rec),
					"stack":     string(debug.Stack()),
					"path":      c.Request.URL.Path,
					"method":    c.Request.Method,
					"client_ip": c.ClientIP(),
				})
				appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
