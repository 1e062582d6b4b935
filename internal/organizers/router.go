package organizers

import (
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrganizerRoutes configures organizer management routes (admin only)
func SetupOrganizerRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin/organizers")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateOrganizer)
		admin.GET("", controller.ListOrganizers)
		admin.PATCH("/:id", controller.UpdateOrganizer)
		admin.DELETE("/:id", controller.DeleteOrganizer)
	}
}
