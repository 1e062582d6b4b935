package auth

import (
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configures authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", controller.Login)
		auth.POST("/refresh", controller.RefreshToken)

		authenticated := auth.Group("")
		authenticated.Use(middleware.JWTAuth())
		{
			authenticated.POST("/change-password", controller.ChangePassword)
		}
	}
}
