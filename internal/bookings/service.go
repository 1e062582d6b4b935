package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nexusems/internal/events"
	"nexusems/internal/notifications"
	"nexusems/internal/tickets"
	"nexusems/internal/waitlist"
	"nexusems/pkg/logger"
)

var (
	ErrTicketsUnavailable = errors.New("one or more tickets are not available")
	ErrTicketMismatch     = errors.New("ticket does not belong to this event")
)

// Notifier is the slice of the notification service bookings use. Emails are
// best-effort here; a failed send never rolls a booking back.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, bc notifications.BookingConfirmation) error
	SendBookingCancelled(ctx context.Context, name, email, bookingNumber, eventName string) error
}

// WaitlistService is the slice of the waitlist service bookings use
type WaitlistService interface {
	Register(ctx context.Context, entryID string) (*waitlist.Entry, error)
	NotifyAvailability(ctx context.Context, eventID uuid.UUID) *waitlist.NotifyResult
}

// EventDirectory is the slice of the events service bookings use
type EventDirectory interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

// TicketBooker is the slice of the tickets service bookings use
type TicketBooker interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]tickets.Ticket, error)
	BookTickets(ctx context.Context, ids []uuid.UUID) error
	ReleaseTickets(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// Service defines the interface for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, eventID uuid.UUID, req *CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByNumber(ctx context.Context, number string) (*Booking, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*CancelResult, error)
}

type service struct {
	repo        Repository
	eventSvc    EventDirectory
	ticketSvc   TicketBooker
	discountSvc DiscountRedeemer
	waitlistSvc WaitlistService
	notifier    Notifier
	log         *logger.Logger
}

// DiscountRedeemer resolves a promo code into an amount off
type DiscountRedeemer interface {
	Redeem(ctx context.Context, code string, eventID uuid.UUID, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// NewService creates a new booking service
func NewService(repo Repository, eventSvc EventDirectory, ticketSvc TicketBooker,
	discountSvc DiscountRedeemer, waitlistSvc WaitlistService, notifier Notifier) Service {
	return &service{
		repo:        repo,
		eventSvc:    eventSvc,
		ticketSvc:   ticketSvc,
		discountSvc: discountSvc,
		waitlistSvc: waitlistSvc,
		notifier:    notifier,
		log:         logger.GetDefault(),
	}
}

// CreateBooking reserves the requested seats for an attendee: verify the
// tickets, price them, apply any promo code, flip them to BOOKED and persist
// the booking with a mock payment.
func (s *service) CreateBooking(ctx context.Context, eventID uuid.UUID, req *CreateBookingRequest) (*Booking, error) {
	event, err := s.eventSvc.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	requested, err := s.ticketSvc.GetByIDs(ctx, req.TicketIDs)
	if err != nil {
		return nil, err
	}
	if len(requested) != len(req.TicketIDs) {
		return nil, ErrTicketsUnavailable
	}

	subtotal := decimal.Zero
	seats := make([]BookedSeat, 0, len(requested))
	for _, t := range requested {
		if t.EventID != eventID {
			return nil, ErrTicketMismatch
		}
		if !t.IsAvailable() {
			return nil, ErrTicketsUnavailable
		}
		subtotal = subtotal.Add(t.Price)
		seats = append(seats, BookedSeat{
			TicketID:   t.ID,
			Zone:       t.Zone,
			Row:        t.Row,
			SeatNumber: t.SeatNumber,
			Price:      t.Price,
		})
	}

	discountAmount := decimal.Zero
	var discountCode *string
	if req.DiscountCode != "" {
		discountAmount, err = s.discountSvc.Redeem(ctx, req.DiscountCode, eventID, subtotal)
		if err != nil {
			return nil, err
		}
		code := strings.ToUpper(req.DiscountCode)
		discountCode = &code
	}

	// Flip the tickets first; the conditional update loses cleanly if
	// another booking grabbed any of them in the meantime.
	if err := s.ticketSvc.BookTickets(ctx, req.TicketIDs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTicketsUnavailable, err)
	}

	total := subtotal.Sub(discountAmount)
	booking := &Booking{
		Number:         NewBookingNumber(),
		EventID:        eventID,
		AttendeeName:   req.Name,
		AttendeeEmail:  req.Email,
		AttendeePhone:  req.Phone,
		Status:         StatusConfirmed,
		Subtotal:       subtotal,
		DiscountCode:   discountCode,
		DiscountAmount: discountAmount,
		Total:          total,
		Seats:          seats,
		Payment: &Payment{
			Amount:    total,
			Status:    PaymentStatusPaid,
			Reference: fmt.Sprintf("PAY-%s", uuid.NewString()),
		},
	}
	if req.WaitlistEntryID != "" {
		booking.WaitlistEntryID = &req.WaitlistEntryID
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		// Free the seats we just took so they are not stranded.
		if _, relErr := s.ticketSvc.ReleaseTickets(ctx, req.TicketIDs); relErr != nil {
			s.log.WithError(relErr).Error("failed to release tickets after booking failure",
				"event_id", eventID.String())
		}
		return nil, err
	}

	// A booking made off a waitlist notification completes that entry's
	// lifecycle. Illegal transitions are logged, not fatal.
	if booking.WaitlistEntryID != nil {
		if _, err := s.waitlistSvc.Register(ctx, *booking.WaitlistEntryID); err != nil {
			s.log.WithError(err).Warn("failed to mark waitlist entry registered",
				"waitlist_id", *booking.WaitlistEntryID, "booking", booking.Number)
		}
	}

	if err := s.notifier.SendBookingConfirmation(ctx, notifications.BookingConfirmation{
		Name:          booking.AttendeeName,
		Email:         booking.AttendeeEmail,
		BookingNumber: booking.Number,
		EventName:     event.Name,
		Quantity:      len(booking.Seats),
		Total:         booking.Total,
	}); err != nil {
		s.log.WithError(err).Warn("failed to send booking confirmation", "booking", booking.Number)
	}

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBookingByNumber(ctx context.Context, number string) (*Booking, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// CancelBooking voids a booking, releases its seats back to AVAILABLE and
// immediately runs a waitlist notification pass for the freed capacity.
func (s *service) CancelBooking(ctx context.Context, id uuid.UUID) (*CancelResult, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkCancelled(ctx, booking.ID, time.Now().UTC()); err != nil {
		return nil, err
	}

	ticketIDs := make([]uuid.UUID, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		ticketIDs = append(ticketIDs, seat.TicketID)
	}

	released, err := s.ticketSvc.ReleaseTickets(ctx, ticketIDs)
	if err != nil {
		return nil, err
	}

	if event, evErr := s.eventSvc.GetEvent(ctx, booking.EventID); evErr == nil {
		if err := s.notifier.SendBookingCancelled(ctx, booking.AttendeeName, booking.AttendeeEmail,
			booking.Number, event.Name); err != nil {
			s.log.WithError(err).Warn("failed to send cancellation email", "booking", booking.Number)
		}
	}

	// Freed capacity is what the waitlist has been waiting for.
	notifyResult := s.waitlistSvc.NotifyAvailability(ctx, booking.EventID)

	cancelled, err := s.repo.GetByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	return &CancelResult{
		Booking:         cancelled,
		ReleasedTickets: released,
		Waitlist:        notifyResult,
	}, nil
}
