package bookings

import (
	"nexusems/internal/organizers"
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking routes. Purchasing and looking up a
// booking are public; listing an event's bookings is staff only.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	ev := rg.Group("/events/:event_id/bookings")
	{
		ev.POST("", controller.CreateBooking)
	}

	bk := rg.Group("/bookings")
	{
		bk.GET("/:id", controller.GetBooking)
		bk.DELETE("/:id", controller.CancelBooking)
	}

	managed := rg.Group("/events/:event_id/bookings")
	managed.Use(middleware.JWTAuth(), middleware.RequireRoles(
		string(organizers.RoleOrganizer), string(organizers.RoleAdmin)))
	{
		managed.GET("", controller.ListEventBookings)
	}
}
