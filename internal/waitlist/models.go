package waitlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a waitlist entry.
//
// The legal transitions are WAITING -> NOTIFIED -> REGISTERED; entries may be
// deleted from any state by administrative action. Nothing moves an entry
// backwards: once notified it is never re-selectable as waiting.
type Status string

const (
	StatusWaiting    Status = "WAITING"
	StatusNotified   Status = "NOTIFIED"
	StatusRegistered Status = "REGISTERED"
)

// IsValid checks if the waitlist status is a known value
func (ws Status) IsValid() bool {
	switch ws {
	case StatusWaiting, StatusNotified, StatusRegistered:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to the target status
func (ws Status) CanTransitionTo(target Status) bool {
	switch ws {
	case StatusWaiting:
		return target == StatusNotified
	case StatusNotified:
		return target == StatusRegistered
	default:
		return false
	}
}

// TransitionError reports an attempted illegal status transition
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal waitlist transition %s -> %s", e.From, e.To)
}

// Entry represents one attendee waiting for capacity on an event
type Entry struct {
	// ID follows the W-<timestamp-suffix><random> form; the random suffix is
	// drawn from a UUID and the repository retries on the (unlikely)
	// collision, so uniqueness is enforced at the store.
	ID      string    `gorm:"primaryKey;size:40" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Name    string    `gorm:"not null;size:150" json:"name"`
	Email   string    `gorm:"not null;size:255" json:"email"`
	Phone   string    `gorm:"size:20" json:"phone"`
	Status  Status    `gorm:"type:varchar(20);not null;default:'WAITING';index" json:"status"`

	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	// CreatedAt totally orders entries for fairness: first joined, first served.
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for Entry
func (Entry) TableName() string {
	return "waitlist_entries"
}

// PromoteToNotified applies the WAITING -> NOTIFIED transition in memory
func (e *Entry) PromoteToNotified(now time.Time) error {
	if !e.Status.CanTransitionTo(StatusNotified) {
		return &TransitionError{From: e.Status, To: StatusNotified}
	}
	e.Status = StatusNotified
	e.NotifiedAt = &now
	return nil
}

// ConfirmRegistered applies the NOTIFIED -> REGISTERED transition in memory
func (e *Entry) ConfirmRegistered() error {
	if !e.Status.CanTransitionTo(StatusRegistered) {
		return &TransitionError{From: e.Status, To: StatusRegistered}
	}
	e.Status = StatusRegistered
	return nil
}

// NewEntryID generates a waitlist entry identifier of the form
// W-<millisecond-suffix><random>.
func NewEntryID(now time.Time) string {
	random := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("W-%06d%s", now.UnixMilli()%1_000_000, random)
}

// JoinWaitlistRequest represents an attendee request to join an event waitlist
type JoinWaitlistRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=150"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

// NotifiedUser is one successfully promoted entry in a notification run
type NotifiedUser struct {
	WaitlistID string    `json:"waitlist_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	NotifiedAt time.Time `json:"notified_at"`
}

// NotifyResult is the structured outcome of one notification run. Failures are
// reported here rather than raised; Error is only set for unexpected store
// faults.
type NotifyResult struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message"`
	AvailableTickets int            `json:"availableTickets,omitempty"`
	NotifiedUsers    []NotifiedUser `json:"notifiedUsers,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// StatsResponse summarises an event's waitlist by status
type StatsResponse struct {
	EventID         uuid.UUID `json:"event_id"`
	TotalEntries    int       `json:"total_entries"`
	WaitingCount    int       `json:"waiting_count"`
	NotifiedCount   int       `json:"notified_count"`
	RegisteredCount int       `json:"registered_count"`
}
