package routes

import (
	"launchpad/internal/handlers"
	"launchpad/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCreateTokenRoutes configures the create-token proxy endpoint
func SetupCreateTokenRoutes(r *gin.Engine) {
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 2,
		Burst:             5,
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/create-token", handlers.CreateToken)
	}
}
