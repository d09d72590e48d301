package routes

import (
	"launchpad/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTokenRoutes configures token record query and update endpoints
func SetupTokenRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/tokens", handlers.ListTokens)
		api.PUT("/tokens", handlers.UpdateToken)
		api.GET("/tokens/live", handlers.TokenFeedSocket)
	}
}
