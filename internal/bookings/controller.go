package bookings

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

// CreateBooking books the requested seats on an event
func (c *Controller) CreateBooking(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), eventID, &req)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
		case errors.Is(err, ErrTicketsUnavailable), errors.Is(err, ErrTicketMismatch):
			response.Error(ctx, http.StatusConflict, err.Error(), nil)
		default:
			response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking confirmed", booking)
}

// GetBooking fetches a booking by its id or external number
func (c *Controller) GetBooking(ctx *gin.Context) {
	raw := ctx.Param("id")

	var booking *Booking
	var err error
	if id, parseErr := uuid.Parse(raw); parseErr == nil {
		booking, err = c.service.GetBooking(ctx.Request.Context(), id)
	} else {
		booking, err = c.service.GetBookingByNumber(ctx.Request.Context(), raw)
	}
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get booking", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved", booking)
}

// ListEventBookings lists all bookings for an event
func (c *Controller) ListEventBookings(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	list, err := c.service.ListByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved", list)
}

// CancelBooking cancels a booking and reports the waitlist outcome
func (c *Controller) CancelBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	result, err := c.service.CancelBooking(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrAlreadyCancelled):
			response.Error(ctx, http.StatusConflict, "Booking already cancelled", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to cancel booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled", result)
}
