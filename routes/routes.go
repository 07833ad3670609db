package routes

import (
	"net/http"
	"time"

	"lokai/handlers"
	"lokai/middleware"
	"lokai/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterSearchRoutes registers buyer search session endpoints.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/search/sessions")
	{
		api.POST("", hb.CreateSessionHandler)
		api.GET("/:id", hb.GetSessionHandler)
		api.DELETE("/:id", hb.DeleteSessionHandler)
		api.POST("/:id/query", hb.SubmitQueryHandler)
		api.POST("/:id/voice", hb.VoiceQueryHandler)
		api.POST("/:id/voice/stop", hb.StopVoiceHandler)
		api.PUT("/:id/language", hb.SetLanguageHandler)
		api.POST("/:id/location", hb.ReportLocationHandler)
		api.POST("/:id/refresh", hb.RefreshSessionHandler)
	}
}

// RegisterVendorRoutes registers catalog endpoints.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vendors")
	{
		api.GET("", hb.ListVendorsHandler)

		// Admin only
		admin := api.Group("")
		admin.Use(middleware.RequireRole(utils.RoleAdmin))
		admin.POST("/refresh", hb.RefreshVendorsHandler)
	}
}

// RegisterAIRoutes registers the search-services AI endpoint.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/functions/v1/search-services", hb.SearchServicesHandler)
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm LokAI"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.IdentityMiddleware())

	RegisterSearchRoutes(r, hb)
	RegisterVendorRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterHealthRoute(r)
}
