package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event represents a scheduled event with its ticket-type definitions
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	// Ref is the externally visible identifier, monotonically assigned
	// from a database sequence (E-001, E-002, ...).
	Ref         string    `gorm:"unique;not null;size:20" json:"ref"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Venue       string    `gorm:"size:255" json:"venue"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	OrganizerID uuid.UUID `gorm:"type:uuid;not null;index" json:"organizer_id"`

	// Ordered ticket-type definitions for this event
	TicketTypes []TicketType `json:"ticket_types" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
	// Attached binary assets (posters, seat maps)
	Assets []EventAsset `json:"assets,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TicketType is one priced admission class within an event
type TicketType struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Name      string          `gorm:"not null;size:100" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Color     string          `gorm:"size:20" json:"color"`
	SortOrder int             `gorm:"not null;default:0" json:"sort_order"`
}

// EventAsset is a binary attachment on an event
type EventAsset struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Filename    string    `gorm:"not null;size:255" json:"filename"`
	ContentType string    `gorm:"not null;size:100" json:"content_type"`
	Data        []byte    `gorm:"type:bytea" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// TableName sets the table name for TicketType
func (TicketType) TableName() string {
	return "ticket_types"
}

// TableName sets the table name for EventAsset
func (EventAsset) TableName() string {
	return "event_assets"
}

// TicketTypeRequest represents one ticket-type definition at creation
type TicketTypeRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=100"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Color string          `json:"color" binding:"omitempty,max=20"`
}

// CreateEventRequest represents an organizer request to create an event
type CreateEventRequest struct {
	Name        string              `json:"name" binding:"required,min=3,max=255"`
	Description string              `json:"description" binding:"max=2000"`
	Venue       string              `json:"venue" binding:"omitempty,max=255"`
	StartTime   time.Time           `json:"start_time" binding:"required"`
	EndTime     time.Time           `json:"end_time" binding:"required"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

// EventListQuery represents list filters and pagination
type EventListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Venue  string `form:"venue"`
	From   string `form:"from"`
	To     string `form:"to"`
}

// EventResponse represents event data in responses
type EventResponse struct {
	ID          string               `json:"id"`
	Ref         string               `json:"ref"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Venue       string               `json:"venue"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	OrganizerID string               `json:"organizer_id"`
	TicketTypes []TicketTypeResponse `json:"ticket_types"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TicketTypeResponse represents a ticket type in responses
type TicketTypeResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Color string          `json:"color"`
}

// PaginatedEvents wraps a page of event responses
type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ToResponse converts an Event to its response shape
func (e *Event) ToResponse() EventResponse {
	types := make([]TicketTypeResponse, 0, len(e.TicketTypes))
	for _, tt := range e.TicketTypes {
		types = append(types, TicketTypeResponse{
			ID:    tt.ID.String(),
			Name:  tt.Name,
			Price: tt.Price,
			Color: tt.Color,
		})
	}

	return EventResponse{
		ID:          e.ID.String(),
		Ref:         e.Ref,
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		OrganizerID: e.OrganizerID.String(),
		TicketTypes: types,
		CreatedAt:   e.CreatedAt,
	}
}
