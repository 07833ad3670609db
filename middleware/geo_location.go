// File: middleware/geo_location.go
package middleware

import (
	"lokai/services/geolocation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GeolocationMiddleware binds an IP-based locator for the caller into the
// context under "locator", with the address under "clientIP". No lookup
// happens until a session asks for a position.
func GeolocationMiddleware(lookup *geolocation.IPLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := ClientIP(c)
		if clientIP == "" {
			zap.L().Debug("GeolocationMiddleware: client IP is empty")
		}
		c.Set("clientIP", clientIP)
		c.Set("locator", lookup.ForIP(clientIP))
		c.Next()
	}
}
