package organizers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAccountNotFound is returned when an account lookup matches nothing
var ErrAccountNotFound = errors.New("account not found")

// Repository defines the contract for account data operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	List(ctx context.Context, role Role) ([]Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new account repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *repository) Update(ctx context.Context, account *Account) error {
	err := r.db.WithContext(ctx).
		Model(account).
		Where("id = ?", account.ID).
		Updates(account).Error
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// SetPassword stores a new password hash and clears the temporary-password
// flag. A map update is used so the false flag is not skipped as a zero value.
func (r *repository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	err := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"temp_password": false,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, role Role) ([]Account, error) {
	var accounts []Account
	query := r.db.WithContext(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Account{}).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
