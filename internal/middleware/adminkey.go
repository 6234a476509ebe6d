package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakbayapp/lakbay-backend/internal/response"
	"github.com/lakbayapp/lakbay-backend/internal/service"
)

// RequireAdminKey guards the catalog management endpoints with the operator
// API key from the X-Admin-Key header, checked against the configured
// bcrypt hash.
func RequireAdminKey(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		if err := authService.CheckAdminKey(key); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrAdminKeyInvalid)
			return
		}
		c.Next()
	}
}
