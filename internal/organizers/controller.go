package organizers

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

func (c *Controller) CreateOrganizer(ctx *gin.Context) {
	var req CreateOrganizerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	account, err := c.service.CreateOrganizer(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Organizer created; credentials emailed", account)
}

func (c *Controller) ListOrganizers(ctx *gin.Context) {
	accounts, err := c.service.ListOrganizers(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list organizers", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Organizers retrieved", accounts)
}

func (c *Controller) UpdateOrganizer(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid organizer ID", nil)
		return
	}

	var req UpdateOrganizerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	account, err := c.service.UpdateOrganizer(ctx.Request.Context(), id, &req)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Organizer updated", account)
}

func (c *Controller) DeleteOrganizer(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid organizer ID", nil)
		return
	}

	if err := c.service.DeleteOrganizer(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Organizer deleted", nil)
}
