package discounts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountAmountOff(t *testing.T) {
	cases := []struct {
		name     string
		dtype    Type
		value    string
		subtotal string
		want     string
	}{
		{"percentage", TypePercentage, "10", "90.00", "9"},
		{"percentage rounds to cents", TypePercentage, "15", "33.33", "5"},
		{"fixed", TypeFixed, "20", "90.00", "20"},
		{"fixed capped at subtotal", TypeFixed, "150", "90.00", "90"},
		{"full percentage", TypePercentage, "100", "45.50", "45.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Discount{
				Type:  tc.dtype,
				Value: decimal.RequireFromString(tc.value),
			}
			got := d.AmountOff(decimal.RequireFromString(tc.subtotal))
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got),
				"want %s, got %s", tc.want, got)
		})
	}
}

func TestDiscountIsValidAt(t *testing.T) {
	eventID := uuid.New()
	otherEvent := uuid.New()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	d := &Discount{
		Code:       "EARLYBIRD",
		Type:       TypePercentage,
		Value:      decimal.NewFromInt(10),
		EventID:    &eventID,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
	}

	assert.True(t, d.IsValidAt(now, eventID))
	assert.False(t, d.IsValidAt(now.Add(-2*time.Hour), eventID), "before window")
	assert.False(t, d.IsValidAt(now.Add(2*time.Hour), eventID), "after window")
	assert.False(t, d.IsValidAt(now, otherEvent), "scoped to another event")

	d.EventID = nil
	assert.True(t, d.IsValidAt(now, otherEvent), "unscoped code applies anywhere")
}
