package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("waitlist entry not found")

const idGenerationAttempts = 3

// Repository defines the interface for waitlist data operations
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error)
	ListByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) ([]Entry, error)
	PromoteToNotified(ctx context.Context, id string, notifiedAt time.Time) (*Entry, error)
	ConfirmRegistered(ctx context.Context, id string) (*Entry, error)
	Delete(ctx context.Context, id string) error
	CountByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new waitlist repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a new entry, generating its identifier when unset. On the
// rare ID collision it regenerates and retries a few times before giving up.
func (r *repository) Create(ctx context.Context, entry *Entry) error {
	for attempt := 0; attempt < idGenerationAttempts; attempt++ {
		if entry.ID == "" {
			entry.ID = NewEntryID(time.Now().UTC())
		}

		err := r.db.WithContext(ctx).Create(entry).Error
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			entry.ID = ""
			continue
		}
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return fmt.Errorf("failed to create waitlist entry: id collisions after %d attempts", idGenerationAttempts)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get waitlist entry: %w", err)
	}
	return &entry, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}

// ListByEventAndStatus returns matching entries ordered by creation time
// ascending, which is the order the selector relies on.
func (r *repository) ListByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, status).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}

// PromoteToNotified conditionally moves an entry from WAITING to NOTIFIED and
// returns the updated record. The WHERE guard on the current status makes the
// transition safe against concurrent runs: losing the race yields a
// *TransitionError reporting the entry's actual status, never a double
// promotion.
func (r *repository) PromoteToNotified(ctx context.Context, id string, notifiedAt time.Time) (*Entry, error) {
	return r.transition(ctx, id, StatusWaiting, StatusNotified, map[string]interface{}{
		"status":      StatusNotified,
		"notified_at": notifiedAt,
	})
}

// ConfirmRegistered conditionally moves an entry from NOTIFIED to REGISTERED
func (r *repository) ConfirmRegistered(ctx context.Context, id string) (*Entry, error) {
	return r.transition(ctx, id, StatusNotified, StatusRegistered, map[string]interface{}{
		"status": StatusRegistered,
	})
}

func (r *repository) transition(ctx context.Context, id string, from, to Status, updates map[string]interface{}) (*Entry, error) {
	result := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update waitlist entry status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing entry from a state conflict for the caller.
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", id, &TransitionError{From: current.Status, To: to})
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Entry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete waitlist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) CountByEventAndStatus(ctx context.Context, eventID uuid.UUID, status Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}
	return count, nil
}
