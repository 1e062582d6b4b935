package tickets

import (
	"nexusems/internal/organizers"
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures ticket inventory routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	ts := rg.Group("/events/:event_id/tickets")
	{
		// Public availability and seat map
		ts.GET("", controller.GetEventTickets)
		ts.GET("/availability", controller.GetAvailability)

		// Organizer seat setup
		organizer := ts.Group("")
		organizer.Use(middleware.JWTAuth(), middleware.RequireRoles(
			string(organizers.RoleOrganizer), string(organizers.RoleAdmin)))
		{
			organizer.POST("/setup", controller.SetupSeating)
		}
	}
}
