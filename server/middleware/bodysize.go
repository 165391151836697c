package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/util"
)

const defaultMaxBodySize = 1 << 20 // 1MB

// BodySizeLimit caps the request body at maxSize (e.g. "64KB", "1MB").
// Reads past the limit fail, which the JSON binder reports as a 400.
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		c.Next()
	}
}
