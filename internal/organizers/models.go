package organizers

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an account role
type Role string

const (
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// Account represents an organizer or administrator account
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName    string    `gorm:"not null;size:100" json:"first_name"`
	LastName     string    `gorm:"not null;size:100" json:"last_name"`
	Email        string    `gorm:"unique;not null;size:255" json:"email"`
	Phone        string    `gorm:"size:20" json:"phone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'ORGANIZER'" json:"role"`
	// TempPassword forces a password change on next login.
	TempPassword bool      `gorm:"default:false" json:"temp_password"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// FullName returns the display name for emails and responses
func (a *Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// IsAdmin returns true for administrator accounts
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CreateOrganizerRequest represents an admin request to provision an organizer
type CreateOrganizerRequest struct {
	FirstName string `json:"first_name" binding:"required,min=2,max=100"`
	LastName  string `json:"last_name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateOrganizerRequest represents a partial update of an organizer account
type UpdateOrganizerRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=2,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

// AccountResponse represents account data in responses (no credentials)
type AccountResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	TempPassword bool      `json:"temp_password"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts an Account to its response shape
func (a *Account) ToResponse() AccountResponse {
	return AccountResponse{
		ID:           a.ID.String(),
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		Phone:        a.Phone,
		Role:         a.Role,
		TempPassword: a.TempPassword,
		CreatedAt:    a.CreatedAt,
	}
}
