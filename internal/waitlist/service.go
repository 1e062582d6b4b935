package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nexusems/internal/events"
	"nexusems/internal/tickets"
	"nexusems/pkg/logger"
	"nexusems/pkg/metrics"
)

// EventDirectory is the slice of the events service the waitlist needs
type EventDirectory interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

// TicketInventory is the slice of the tickets service the waitlist needs
type TicketInventory interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]tickets.Ticket, error)
}

// SpotNotification carries everything the dispatcher needs to tell one
// attendee a ticket opened up for them.
type SpotNotification struct {
	EntryID   string
	Name      string
	Email     string
	EventRef  string
	EventName string
	Deadline  time.Time
}

// Dispatcher delivers spot-available notifications. Implementations must
// confine failures to the recipient they occurred for.
type Dispatcher interface {
	DispatchSpotAvailable(ctx context.Context, n SpotNotification) error
}

// Service defines the interface for waitlist business logic
type Service interface {
	Join(ctx context.Context, eventID uuid.UUID, req *JoinWaitlistRequest) (*Entry, error)
	Leave(ctx context.Context, entryID string) error
	Register(ctx context.Context, entryID string) (*Entry, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error)
	Stats(ctx context.Context, eventID uuid.UUID) (*StatsResponse, error)
	NotifyAvailability(ctx context.Context, eventID uuid.UUID) *NotifyResult
}

type service struct {
	repo            Repository
	eventSvc        EventDirectory
	ticketSvc       TicketInventory
	dispatcher      Dispatcher
	bookingDeadline time.Duration
	runTimeout      time.Duration
	locks           *eventLocks
	logger          *logger.Logger
}

// NewService creates a new waitlist service. runTimeout bounds a single
// notification pass so a stalled store or mailer cannot hold the event lock
// indefinitely; zero disables the bound.
func NewService(repo Repository, eventSvc EventDirectory, ticketSvc TicketInventory, dispatcher Dispatcher, bookingDeadline, runTimeout time.Duration) Service {
	return &service{
		repo:            repo,
		eventSvc:        eventSvc,
		ticketSvc:       ticketSvc,
		dispatcher:      dispatcher,
		bookingDeadline: bookingDeadline,
		runTimeout:      runTimeout,
		locks:           newEventLocks(),
		logger:          logger.GetDefault(),
	}
}

// Join adds an attendee to an event's waitlist in the WAITING state
func (s *service) Join(ctx context.Context, eventID uuid.UUID, req *JoinWaitlistRequest) (*Entry, error) {
	if _, err := s.eventSvc.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	entry := &Entry{
		EventID: eventID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  StatusWaiting,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Leave removes an entry from the waitlist regardless of its status
func (s *service) Leave(ctx context.Context, entryID string) error {
	return s.repo.Delete(ctx, entryID)
}

// Register confirms that a notified attendee completed their booking
func (s *service) Register(ctx context.Context, entryID string) (*Entry, error) {
	return s.repo.ConfirmRegistered(ctx, entryID)
}

func (s *service) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *service) Stats(ctx context.Context, eventID uuid.UUID) (*StatsResponse, error) {
	stats := &StatsResponse{EventID: eventID}
	for _, st := range []Status{StatusWaiting, StatusNotified, StatusRegistered} {
		count, err := s.repo.CountByEventAndStatus(ctx, eventID, st)
		if err != nil {
			return nil, err
		}
		switch st {
		case StatusWaiting:
			stats.WaitingCount = int(count)
		case StatusNotified:
			stats.NotifiedCount = int(count)
		case StatusRegistered:
			stats.RegisteredCount = int(count)
		}
		stats.TotalEntries += int(count)
	}
	return stats, nil
}

// NotifyAvailability runs one notification pass for an event: count available
// tickets, select that many waiting entries in join order, promote each to
// NOTIFIED and dispatch an email. Runs for the same event are serialised, so
// no entry can be selected by two passes at once.
//
// The result is always structured; only unexpected store faults set Error.
func (s *service) NotifyAvailability(ctx context.Context, eventID uuid.UUID) *NotifyResult {
	unlock := s.locks.lock(eventID)
	defer unlock()

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	log := s.logger.WithEventID(eventID.String())

	event, err := s.eventSvc.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			return &NotifyResult{Success: false, Message: "event not found"}
		}
		log.WithError(err).Error("waitlist notification: failed to load event")
		return s.failure(err)
	}

	eventTickets, err := s.ticketSvc.ListByEvent(ctx, eventID)
	if err != nil {
		log.WithError(err).Error("waitlist notification: failed to load tickets")
		return s.failure(err)
	}
	if len(eventTickets) == 0 {
		return &NotifyResult{Success: true, Message: "no tickets found for this event"}
	}

	available := tickets.CountAvailable(eventTickets)
	if available == 0 {
		return &NotifyResult{
			Success:          true,
			Message:          "no tickets available for notification",
			AvailableTickets: 0,
		}
	}

	waiting, err := s.repo.ListByEventAndStatus(ctx, eventID, StatusWaiting)
	if err != nil {
		log.WithError(err).Error("waitlist notification: failed to load waiting entries")
		return s.failure(err)
	}
	if len(waiting) == 0 {
		return &NotifyResult{
			Success:          true,
			Message:          "no users in waitlist to notify",
			AvailableTickets: available,
		}
	}

	selected := SelectForNotification(waiting, available)
	now := time.Now().UTC()
	deadline := now.Add(s.bookingDeadline)

	notified := make([]NotifiedUser, 0, len(selected))
	for _, entry := range selected {
		// Persist the transition before dispatching so a crashed or failed
		// send never leaves the entry re-selectable.
		updated, err := s.repo.PromoteToNotified(ctx, entry.ID, now)
		if err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"waitlist_id": entry.ID,
			}).Error("waitlist notification: failed to mark entry notified")
			continue
		}

		if err := s.dispatcher.DispatchSpotAvailable(ctx, SpotNotification{
			EntryID:   updated.ID,
			Name:      updated.Name,
			Email:     updated.Email,
			EventRef:  event.Ref,
			EventName: event.Name,
			Deadline:  deadline,
		}); err != nil {
			// Delivery problems stay with this recipient; the entry is
			// already NOTIFIED and still counts in the result.
			log.WithError(err).WithFields(map[string]interface{}{
				"waitlist_id": updated.ID,
				"email":       updated.Email,
			}).Warn("waitlist notification: email dispatch failed")
		}

		metrics.WaitlistNotified.Inc()
		notified = append(notified, NotifiedUser{
			WaitlistID: updated.ID,
			Name:       updated.Name,
			Email:      updated.Email,
			NotifiedAt: *updated.NotifiedAt,
		})
	}

	return &NotifyResult{
		Success:          true,
		Message:          fmt.Sprintf("notified %d waitlist user(s)", len(notified)),
		AvailableTickets: available,
		NotifiedUsers:    notified,
	}
}

func (s *service) failure(err error) *NotifyResult {
	return &NotifyResult{
		Success: false,
		Message: "failed to process waitlist notification",
		Error:   err.Error(),
	}
}
