package routes

import (
	"launchpad/internal/handlers"
	"launchpad/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupLaunchRoutes configures the server-side launch pipeline endpoint
func SetupLaunchRoutes(r *gin.Engine) {
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 0.5,
		Burst:             2,
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/launch", handlers.LaunchToken)
	}
}
