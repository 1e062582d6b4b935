package discounts

import (
	"net/http"

	"nexusems/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateDiscount(ctx *gin.Context) {
	var req CreateDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	discount, err := c.service.CreateDiscount(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Discount created", discount)
}

func (c *Controller) ListDiscounts(ctx *gin.Context) {
	var eventID *uuid.UUID
	if raw := ctx.Query("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
			return
		}
		eventID = &id
	}

	ds, err := c.service.ListDiscounts(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list discounts", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Discounts retrieved", ds)
}

func (c *Controller) DeleteDiscount(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid discount ID", nil)
		return
	}

	if err := c.service.DeleteDiscount(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Discount deleted", nil)
}
