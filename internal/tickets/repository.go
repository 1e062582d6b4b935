package tickets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the contract for ticket data operations
type Repository interface {
	BulkCreate(ctx context.Context, ts []Ticket) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error)
	ListByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) ([]Ticket, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Ticket, error)
	UpdateStatus(ctx context.Context, ids []uuid.UUID, from, to Status) (int64, error)
	CountByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ticket repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BulkCreate(ctx context.Context, ts []Ticket) error {
	if len(ts) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(ts, 500).Error; err != nil {
		return fmt.Errorf("failed to create tickets: %w", err)
	}
	return nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	var ts []Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("zone ASC, row ASC, seat_number ASC").
		Find(&ts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return ts, nil
}

func (r *repository) ListByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) ([]Ticket, error) {
	var ts []Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, status).
		Order("zone ASC, row ASC, seat_number ASC").
		Find(&ts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return ts, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Ticket, error) {
	var ts []Ticket
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&ts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return ts, nil
}

// UpdateStatus transitions tickets from one status to another and returns how
// many rows actually changed. The from-status guard makes the flip conditional
// so concurrent bookings cannot double-sell a seat.
func (r *repository) UpdateStatus(ctx context.Context, ids []uuid.UUID, from, to Status) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id IN ? AND status = ?", ids, from).
		Update("status", to)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update ticket status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repository) CountByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}
