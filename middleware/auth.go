// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"lokai/utils"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware reads an optional bearer token issued by the identity
// provider. Anonymous requests pass through; a present but invalid token
// is rejected.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		identity, err := utils.ExtractIdentity(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("role", identity.Role)
		c.Next()
	}
}
