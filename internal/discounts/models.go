package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type distinguishes percentage discounts from fixed-amount ones
type Type string

const (
	TypePercentage Type = "PERCENTAGE"
	TypeFixed      Type = "FIXED"
)

// Discount represents a promo code redeemable at checkout
type Discount struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code string    `gorm:"unique;not null;size:50" json:"code"`
	Type Type      `gorm:"type:varchar(20);not null" json:"type"`
	// Value is a percentage (0-100) for PERCENTAGE, an absolute amount for FIXED
	Value decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`

	// EventID scopes the code to one event; nil means valid for any event
	EventID    *uuid.UUID `gorm:"type:uuid;index" json:"event_id,omitempty"`
	ValidFrom  time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time  `gorm:"not null" json:"valid_until"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for Discount
func (Discount) TableName() string {
	return "discounts"
}

// IsValidAt reports whether the code can be redeemed at the given time for the
// given event.
func (d *Discount) IsValidAt(t time.Time, eventID uuid.UUID) bool {
	if t.Before(d.ValidFrom) || t.After(d.ValidUntil) {
		return false
	}
	if d.EventID != nil && *d.EventID != eventID {
		return false
	}
	return true
}

// AmountOff returns the discount amount for a subtotal, never exceeding it
func (d *Discount) AmountOff(subtotal decimal.Decimal) decimal.Decimal {
	var off decimal.Decimal
	switch d.Type {
	case TypePercentage:
		off = subtotal.Mul(d.Value).Div(decimal.NewFromInt(100)).Round(2)
	case TypeFixed:
		off = d.Value
	}
	if off.GreaterThan(subtotal) {
		return subtotal
	}
	return off
}

// CreateDiscountRequest represents an organizer request to create a promo code
type CreateDiscountRequest struct {
	Code       string          `json:"code" binding:"required,min=3,max=50"`
	Type       Type            `json:"type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value      decimal.Decimal `json:"value" binding:"required"`
	EventID    *uuid.UUID      `json:"event_id"`
	ValidFrom  time.Time       `json:"valid_from" binding:"required"`
	ValidUntil time.Time       `json:"valid_until" binding:"required"`
}
