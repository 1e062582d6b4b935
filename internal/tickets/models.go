package tickets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a single ticket unit
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
)

// Ticket is one sellable seat unit under an event
type Ticket struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID  uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	TypeName string    `gorm:"not null;size:100" json:"type_name"`

	// Seating coordinates
	Zone       string `gorm:"not null;size:50" json:"zone"`
	Row        string `gorm:"not null;size:10" json:"row"`
	SeatNumber int    `gorm:"not null" json:"seat_number"`

	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Status    Status          `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// IsAvailable reports whether the ticket can still be sold
func (t *Ticket) IsAvailable() bool {
	return t.Status == StatusAvailable
}

// SeatBlock describes one zone of seats to generate at setup time
type SeatBlock struct {
	Zone        string          `json:"zone" binding:"required,max=50"`
	Rows        []string        `json:"rows" binding:"required,min=1"`
	SeatsPerRow int             `json:"seats_per_row" binding:"required,min=1,max=500"`
	TypeName    string          `json:"type_name" binding:"required,max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// SetupSeatingRequest represents the bulk seat-generation request for an event
type SetupSeatingRequest struct {
	Blocks []SeatBlock `json:"blocks" binding:"required,min=1,dive"`
}

// TicketResponse represents a ticket in responses
type TicketResponse struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	TypeName   string          `json:"type_name"`
	Zone       string          `json:"zone"`
	Row        string          `json:"row"`
	SeatNumber int             `json:"seat_number"`
	Price      decimal.Decimal `json:"price"`
	Status     Status          `json:"status"`
}

// ToResponse converts a Ticket to its response shape
func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		ID:         t.ID.String(),
		EventID:    t.EventID.String(),
		TypeName:   t.TypeName,
		Zone:       t.Zone,
		Row:        t.Row,
		SeatNumber: t.SeatNumber,
		Price:      t.Price,
		Status:     t.Status,
	}
}
