package events

import (
	"nexusems/internal/organizers"
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		// Public browse routes
		events.GET("", controller.ListEvents)
		events.GET("/:id", controller.GetEvent)
		events.GET("/:id/assets/:asset_id", controller.DownloadAsset)

		// Organizer operations
		organizer := events.Group("")
		organizer.Use(middleware.JWTAuth(), middleware.RequireRoles(
			string(organizers.RoleOrganizer), string(organizers.RoleAdmin)))
		{
			organizer.POST("", controller.CreateEvent)
			organizer.POST("/:id/assets", controller.UploadAsset)
		}

		// Admin cascade delete
		admin := events.Group("")
		admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
		{
			admin.DELETE("/:id", controller.DeleteEvent)
		}
	}
}
