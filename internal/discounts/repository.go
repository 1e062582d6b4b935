package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDiscountNotFound is returned when a code lookup matches nothing
var ErrDiscountNotFound = errors.New("discount not found")

// Repository defines the contract for discount data operations
type Repository interface {
	Create(ctx context.Context, discount *Discount) error
	GetByCode(ctx context.Context, code string) (*Discount, error)
	List(ctx context.Context, eventID *uuid.UUID) ([]Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new discount repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, discount *Discount) error {
	discount.Code = strings.ToUpper(discount.Code)
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Discount, error) {
	var discount Discount
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}
	return &discount, nil
}

func (r *repository) List(ctx context.Context, eventID *uuid.UUID) ([]Discount, error) {
	var ds []Discount
	query := r.db.WithContext(ctx)
	if eventID != nil {
		query = query.Where("event_id = ? OR event_id IS NULL", *eventID)
	}
	if err := query.Order("created_at DESC").Find(&ds).Error; err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return ds, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Discount{}).Error; err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	return nil
}
