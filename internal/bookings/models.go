package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nexusems/internal/waitlist"
)

// Status represents the booking lifecycle state
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentStatus represents the state of a booking's payment
type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Booking groups the seats an attendee purchased for one event
type Booking struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Number  string    `gorm:"unique;not null;size:20" json:"number"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`

	AttendeeName  string `gorm:"not null;size:150" json:"attendee_name"`
	AttendeeEmail string `gorm:"not null;size:255;index" json:"attendee_email"`
	AttendeePhone string `gorm:"size:20" json:"attendee_phone"`

	Status         Status          `gorm:"type:varchar(20);not null;default:'CONFIRMED'" json:"status"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountCode   *string         `gorm:"size:50" json:"discount_code,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	// WaitlistEntryID links a booking made by a notified waitlist attendee
	// back to their entry.
	WaitlistEntryID *string `gorm:"size:40" json:"waitlist_entry_id,omitempty"`

	Seats   []BookedSeat `gorm:"foreignKey:BookingID" json:"seats,omitempty"`
	Payment *Payment     `gorm:"foreignKey:BookingID" json:"payment,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BookedSeat snapshots one ticket at booking time. The unique index on
// TicketID stops a ticket appearing in two live bookings.
type BookedSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"ticket_id"`

	Zone       string          `gorm:"not null;size:50" json:"zone"`
	Row        string          `gorm:"not null;size:10" json:"row"`
	SeatNumber int             `gorm:"not null" json:"seat_number"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for BookedSeat
func (BookedSeat) TableName() string {
	return "booked_seats"
}

// Payment records the (mock) payment taken for a booking
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    PaymentStatus   `gorm:"type:varchar(20);not null;default:'PAID'" json:"status"`
	Reference string          `gorm:"not null;size:64" json:"reference"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// NewBookingNumber generates an external booking reference
func NewBookingNumber() string {
	return fmt.Sprintf("BK-%s", strings.ToUpper(uuid.NewString()[:8]))
}

// CreateBookingRequest represents a booking purchase request
type CreateBookingRequest struct {
	Name            string      `json:"name" binding:"required,min=2,max=150"`
	Email           string      `json:"email" binding:"required,email"`
	Phone           string      `json:"phone" binding:"omitempty,max=20"`
	TicketIDs       []uuid.UUID `json:"ticket_ids" binding:"required,min=1"`
	DiscountCode    string      `json:"discount_code" binding:"omitempty,max=50"`
	WaitlistEntryID string      `json:"waitlist_entry_id" binding:"omitempty,max=40"`
}

// CancelResult is returned after a cancellation, including the outcome of
// the waitlist notification run the freed tickets triggered.
type CancelResult struct {
	Booking         *Booking               `json:"booking"`
	ReleasedTickets int64                  `json:"released_tickets"`
	Waitlist        *waitlist.NotifyResult `json:"waitlist,omitempty"`
}
