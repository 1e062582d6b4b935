package tickets

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

func (c *Controller) SetupSeating(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	var req SetupSeatingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := c.service.SetupSeating(ctx.Request.Context(), eventID, &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Seating created", gin.H{"tickets_created": created})
}

func (c *Controller) GetEventTickets(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	ts, err := c.service.GetEventTickets(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list tickets", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tickets retrieved", ts)
}

func (c *Controller) GetAvailability(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	available, err := c.service.AvailableCount(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to compute availability", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Availability computed", gin.H{"available_tickets": available})
}
