package discounts

import (
	"nexusems/internal/organizers"
	"nexusems/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDiscountRoutes configures promo code management routes
func SetupDiscountRoutes(rg *gin.RouterGroup, controller *Controller) {
	ds := rg.Group("/discounts")
	ds.Use(middleware.JWTAuth(), middleware.RequireRoles(
		string(organizers.RoleOrganizer), string(organizers.RoleAdmin)))
	{
		ds.POST("", controller.CreateDiscount)
		ds.GET("", controller.ListDiscounts)
		ds.DELETE("/:id", controller.DeleteDiscount)
	}
}
