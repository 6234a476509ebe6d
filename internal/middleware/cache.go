package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl marks every response on a route group as publicly cacheable
// for maxAgeSeconds. Stored evidence photos never change after upload, so
// the uploads route uses a year-long max-age.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}
