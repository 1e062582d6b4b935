package tickets

import (
	"context"
	"fmt"
	"log/slog"

	"nexusems/pkg/logger"

	"github.com/google/uuid"
)

// Service defines the contract for ticket inventory operations
type Service interface {
	SetupSeating(ctx context.Context, eventID uuid.UUID, req *SetupSeatingRequest) (int, error)
	GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]TicketResponse, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Ticket, error)
	AvailableCount(ctx context.Context, eventID uuid.UUID) (int, error)
	BookTickets(ctx context.Context, ids []uuid.UUID) error
	ReleaseTickets(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a new ticket service
func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

// SetupSeating bulk-creates one ticket row per seat described by the request.
// Called once per event after creation; re-running adds further blocks.
func (s *service) SetupSeating(ctx context.Context, eventID uuid.UUID, req *SetupSeatingRequest) (int, error) {
	var ts []Ticket
	for _, block := range req.Blocks {
		if block.Price.IsNegative() {
			return 0, fmt.Errorf("block %q: price must not be negative", block.Zone)
		}
		for _, row := range block.Rows {
			for seat := 1; seat <= block.SeatsPerRow; seat++ {
				ts = append(ts, Ticket{
					EventID:    eventID,
					TypeName:   block.TypeName,
					Zone:       block.Zone,
					Row:        row,
					SeatNumber: seat,
					Price:      block.Price,
					Status:     StatusAvailable,
				})
			}
		}
	}

	if err := s.repo.BulkCreate(ctx, ts); err != nil {
		return 0, err
	}

	s.log.Info("seating created",
		slog.String("event_id", eventID.String()),
		slog.Int("tickets", len(ts)),
	)
	return len(ts), nil
}

func (s *service) GetEventTickets(ctx context.Context, eventID uuid.UUID) ([]TicketResponse, error) {
	ts, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]TicketResponse, 0, len(ts))
	for i := range ts {
		responses = append(responses, ts[i].ToResponse())
	}
	return responses, nil
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *service) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Ticket, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// AvailableCount reports the event's current capacity: the number of tickets
// still in AVAILABLE status.
func (s *service) AvailableCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	count, err := s.repo.CountByEventAndStatus(ctx, eventID, StatusAvailable)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// BookTickets flips the given tickets AVAILABLE -> BOOKED; it fails if any of
// them was sold in the meantime.
func (s *service) BookTickets(ctx context.Context, ids []uuid.UUID) error {
	changed, err := s.repo.UpdateStatus(ctx, ids, StatusAvailable, StatusBooked)
	if err != nil {
		return err
	}
	if changed != int64(len(ids)) {
		return fmt.Errorf("only %d of %d tickets were still available", changed, len(ids))
	}
	return nil
}

// ReleaseTickets flips the given tickets BOOKED -> AVAILABLE after a
// cancellation and returns how many were actually freed.
func (s *service) ReleaseTickets(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.repo.UpdateStatus(ctx, ids, StatusBooked, StatusAvailable)
}
