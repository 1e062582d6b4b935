package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEventNotFound is returned when an event lookup matches nothing
var ErrEventNotFound = errors.New("event not found")

// Repository defines the contract for event data operations
type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetByRef(ctx context.Context, ref string) (*Event, error)
	GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddAsset(ctx context.Context, asset *EventAsset) error
	GetAsset(ctx context.Context, eventID, assetID uuid.UUID) (*EventAsset, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create stores the event and its ticket types, assigning the next external
// reference from the event_refs sequence.
func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Raw("SELECT nextval('event_refs')").Scan(&seq).Error; err != nil {
			return fmt.Errorf("failed to allocate event ref: %w", err)
		}
		event.Ref = fmt.Sprintf("E-%03d", seq)

		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) GetByRef(ctx context.Context, ref string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("ref = ?", ref).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if query.Venue != "" {
		db = db.Where("venue ILIKE ?", "%"+query.Venue+"%")
	}
	if query.From != "" {
		if from, err := time.Parse(time.RFC3339, query.From); err == nil {
			db = db.Where("start_time >= ?", from)
		}
	}
	if query.To != "" {
		if to, err := time.Parse(time.RFC3339, query.To); err == nil {
			db = db.Where("start_time <= ?", to)
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	err := db.
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("start_time ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, totalCount, nil
}

// Delete removes the event; ticket types and assets cascade at the store level
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&TicketType{}).Error; err != nil {
			return fmt.Errorf("failed to delete ticket types: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&EventAsset{}).Error; err != nil {
			return fmt.Errorf("failed to delete event assets: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Event{}).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
}

func (r *repository) AddAsset(ctx context.Context, asset *EventAsset) error {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to store event asset: %w", err)
	}
	return nil
}

func (r *repository) GetAsset(ctx context.Context, eventID, assetID uuid.UUID) (*EventAsset, error) {
	var asset EventAsset
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", assetID, eventID).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event asset: %w", err)
	}
	return &asset, nil
}
