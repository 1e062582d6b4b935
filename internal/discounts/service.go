package discounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines the contract for discount operations
type Service interface {
	CreateDiscount(ctx context.Context, req *CreateDiscountRequest) (*Discount, error)
	ListDiscounts(ctx context.Context, eventID *uuid.UUID) ([]Discount, error)
	DeleteDiscount(ctx context.Context, id uuid.UUID) error
	// Redeem resolves a code against an event and subtotal, returning the
	// amount to subtract.
	Redeem(ctx context.Context, code string, eventID uuid.UUID, subtotal decimal.Decimal) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService creates a new discount service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateDiscount(ctx context.Context, req *CreateDiscountRequest) (*Discount, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, fmt.Errorf("valid_until must be after valid_from")
	}
	if req.Value.IsNegative() || req.Value.IsZero() {
		return nil, fmt.Errorf("discount value must be positive")
	}
	if req.Type == TypePercentage && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}

	discount := &Discount{
		Code:       req.Code,
		Type:       req.Type,
		Value:      req.Value,
		EventID:    req.EventID,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	}
	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *service) ListDiscounts(ctx context.Context, eventID *uuid.UUID) ([]Discount, error) {
	return s.repo.List(ctx, eventID)
}

func (s *service) DeleteDiscount(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Redeem(ctx context.Context, code string, eventID uuid.UUID, subtotal decimal.Decimal) (decimal.Decimal, error) {
	discount, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	if !discount.IsValidAt(time.Now(), eventID) {
		return decimal.Zero, fmt.Errorf("promo code %s is not valid for this event", discount.Code)
	}
	return discount.AmountOff(subtotal), nil
}
