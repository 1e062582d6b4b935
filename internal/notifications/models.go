package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the notification template to render
type Kind string

const (
	KindSpotAvailable      Kind = "WAITLIST_SPOT_AVAILABLE"
	KindAccountCredentials Kind = "ACCOUNT_CREDENTIALS"
	KindBookingConfirmed   Kind = "BOOKING_CONFIRMED"
	KindBookingCancelled   Kind = "BOOKING_CANCELLED"
)

// Message is the notification envelope carried over the Kafka bus
type Message struct {
	ID             string                 `json:"id"`
	Kind           Kind                   `json:"kind"`
	RecipientName  string                 `json:"recipient_name"`
	RecipientEmail string                 `json:"recipient_email"`
	Subject        string                 `json:"subject"`
	HTMLBody       string                 `json:"html_body"`
	TextBody       string                 `json:"text_body"`
	Data           map[string]interface{} `json:"data,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	// ExpiresAt drops stale messages instead of delivering them late.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewMessage creates a notification message with a fresh identifier
func NewMessage(kind Kind, name, email, subject, htmlBody, textBody string) *Message {
	return &Message{
		ID:             uuid.NewString(),
		Kind:           kind,
		RecipientName:  name,
		RecipientEmail: email,
		Subject:        subject,
		HTMLBody:       htmlBody,
		TextBody:       textBody,
		CreatedAt:      time.Now().UTC(),
	}
}

// PartitionKey routes all messages for a recipient to the same partition
func (m *Message) PartitionKey() string {
	return m.RecipientEmail
}

// IsExpired checks whether the message is past its delivery window
func (m *Message) IsExpired() bool {
	return m.ExpiresAt != nil && time.Now().After(*m.ExpiresAt)
}

// ToJSON serialises the message for the wire
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification message: %w", err)
	}
	return data, nil
}
