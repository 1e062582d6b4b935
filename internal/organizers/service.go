package organizers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"nexusems/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountMailer sends account lifecycle emails (interface here to avoid an
// import cycle with the notifications package)
type AccountMailer interface {
	SendAccountCredentials(ctx context.Context, email, name, tempPassword string) error
}

// Service defines the contract for account business operations
type Service interface {
	CreateOrganizer(ctx context.Context, req *CreateOrganizerRequest) (*AccountResponse, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateOrganizer(ctx context.Context, id uuid.UUID, req *UpdateOrganizerRequest) (*AccountResponse, error)
	ListOrganizers(ctx context.Context) ([]AccountResponse, error)
	DeleteOrganizer(ctx context.Context, id uuid.UUID) error
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
	VerifyCredentials(ctx context.Context, email, password string) (*Account, error)
}

type service struct {
	repo   Repository
	mailer AccountMailer
	log    *logger.Logger
}

// NewService creates a new account service
func NewService(repo Repository, mailer AccountMailer) Service {
	return &service{
		repo:   repo,
		mailer: mailer,
		log:    logger.GetDefault(),
	}
}

// CreateOrganizer provisions an organizer account with a generated temporary
// password and emails the credentials to the new organizer.
func (s *service) CreateOrganizer(ctx context.Context, req *CreateOrganizerRequest) (*AccountResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("account with email %s already exists", req.Email)
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         RoleOrganizer,
		TempPassword: true,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	// Credential delivery failure is non-fatal; the admin can reset the password.
	if s.mailer != nil {
		if err := s.mailer.SendAccountCredentials(ctx, account.Email, account.FullName(), tempPassword); err != nil {
			s.log.Warn("failed to email organizer credentials",
				slog.String("email", account.Email),
				slog.Any("error", err),
			)
		}
	}

	resp := account.ToResponse()
	return &resp, nil
}

func (s *service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *service) UpdateOrganizer(ctx context.Context, id uuid.UUID, req *UpdateOrganizerRequest) (*AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	resp := account.ToResponse()
	return &resp, nil
}

func (s *service) ListOrganizers(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.repo.List(ctx, RoleOrganizer)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, accounts[i].ToResponse())
	}
	return responses, nil
}

func (s *service) DeleteOrganizer(ctx context.Context, id uuid.UUID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.IsAdmin() {
		return fmt.Errorf("cannot delete an administrator account")
	}
	return s.repo.Delete(ctx, id)
}

// ChangePassword verifies the current password, stores the new hash and clears
// the temporary-password flag.
func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// SetPassword also clears the temporary-password flag in one write.
	return s.repo.SetPassword(ctx, account.ID, string(hash))
}

func (s *service) VerifyCredentials(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return account, nil
}

// generateTempPassword returns a random 12-character hex password
func generateTempPassword() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
