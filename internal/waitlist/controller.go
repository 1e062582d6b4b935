package waitlist

import (
	"errors"
	"net/http"

	"nexusems/internal/events"
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

// Join adds the caller to an event's waitlist
func (c *Controller) Join(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	var req JoinWaitlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	entry, err := c.service.Join(ctx.Request.Context(), eventID, &req)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to join waitlist", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Joined waitlist", entry)
}

// Leave removes a waitlist entry
func (c *Controller) Leave(ctx *gin.Context) {
	entryID := ctx.Param("id")

	if err := c.service.Leave(ctx.Request.Context(), entryID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			response.Error(ctx, http.StatusNotFound, "Waitlist entry not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to leave waitlist", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Left waitlist", nil)
}

// Register marks a notified entry as having completed its booking
func (c *Controller) Register(ctx *gin.Context) {
	entryID := ctx.Param("id")

	entry, err := c.service.Register(ctx.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			response.Error(ctx, http.StatusNotFound, "Waitlist entry not found", nil)
			return
		}
		var te *TransitionError
		if errors.As(err, &te) {
			response.Error(ctx, http.StatusConflict, te.Error(), nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to register waitlist entry", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Waitlist entry registered", entry)
}

// List returns all waitlist entries for an event
func (c *Controller) List(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	entries, err := c.service.ListForEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list waitlist entries", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Waitlist retrieved", entries)
}

// Stats returns per-status counts for an event's waitlist
func (c *Controller) Stats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	stats, err := c.service.Stats(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get waitlist stats", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Waitlist stats retrieved", stats)
}

// Notify triggers a notification run for an event. The run itself reports
// its outcome in the payload, so the HTTP status is 200 either way.
func (c *Controller) Notify(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	result := c.service.NotifyAvailability(ctx.Request.Context(), eventID)
	response.Success(ctx, http.StatusOK, "Waitlist notification processed", result)
}
