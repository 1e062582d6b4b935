package waitlist

import (
	"nexusems/internal/organizers"
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWaitlistRoutes configures waitlist routes. Joining and leaving are
// public; listing, stats, manual notification runs and registration
// confirmation require an organizer or admin token.
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events/:event_id/waitlist")
	{
		events.POST("", controller.Join)
	}

	wl := rg.Group("/waitlist")
	{
		wl.DELETE("/:id", controller.Leave)
	}

	staffOnly := middleware.RequireRoles(
		string(organizers.RoleOrganizer), string(organizers.RoleAdmin))

	managed := rg.Group("/events/:event_id/waitlist")
	managed.Use(middleware.JWTAuth(), staffOnly)
	{
		managed.GET("", controller.List)
		managed.GET("/stats", controller.Stats)
		managed.POST("/notify", controller.Notify)
	}

	managedEntries := rg.Group("/waitlist")
	managedEntries.Use(middleware.JWTAuth(), staffOnly)
	{
		managedEntries.POST("/:id/register", controller.Register)
	}
}
