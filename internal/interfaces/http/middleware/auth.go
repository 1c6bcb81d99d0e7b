// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
)

// AdminEmailKey is the gin context key of the authenticated admin
const AdminEmailKey = "admin_email"

// AdminAuth requires a valid admin access token
func AdminAuth(tokens *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(AdminEmailKey, claims.Email)

		c.Next()
	}
}

// GetAdminEmail returns the admin email set by AdminAuth
func GetAdminEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(AdminEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
