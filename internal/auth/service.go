package auth

import (
	"context"
	"fmt"
	"time"

	"nexusems/internal/organizers"
	"nexusems/internal/shared/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Service defines the contract for authentication operations
type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, req *ChangePasswordRequest) error
}

type service struct {
	accounts organizers.Service
	cfg      *config.Config
}

// NewService creates a new auth service
func NewService(accounts organizers.Service, cfg *config.Config) Service {
	return &service{
		accounts: accounts,
		cfg:      cfg,
	}
}

// Login verifies credentials and issues a token pair. Accounts holding a
// temporary password still authenticate, but the response flags that a
// password change is required before anything else.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	account, err := s.accounts.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	tokens, err := s.generateTokenPair(account)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		Account: AccountInfo{
			ID:        account.ID.String(),
			FirstName: account.FirstName,
			LastName:  account.LastName,
			Email:     account.Email,
			Role:      string(account.Role),
			CreatedAt: account.CreatedAt,
		},
		AccessToken:        tokens.AccessToken,
		RefreshToken:       tokens.RefreshToken,
		ExpiresIn:          tokens.ExpiresIn,
		MustChangePassword: account.TempPassword,
	}, nil
}

// RefreshToken validates a refresh token and issues a fresh pair
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token")
	}
	if claims.Type != "refresh" {
		return nil, fmt.Errorf("token is not a refresh token")
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account ID in token")
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account no longer exists")
	}

	return s.generateTokenPair(account)
}

// ChangePassword delegates to the account service; a successful change clears
// the temporary-password flag.
func (s *service) ChangePassword(ctx context.Context, accountID uuid.UUID, req *ChangePasswordRequest) error {
	return s.accounts.ChangePassword(ctx, accountID, req.CurrentPassword, req.NewPassword)
}

// generateTokenPair creates signed access and refresh tokens for an account
func (s *service) generateTokenPair(account *organizers.Account) (*TokenPair, error) {
	now := time.Now()

	accessClaims := &JWTClaims{
		AccountID: account.ID.String(),
		Email:     account.Email,
		Role:      string(account.Role),
		Type:      "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessExpiresIn)),
			Issuer:    "nexusems",
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshClaims := &JWTClaims{
		AccountID: account.ID.String(),
		Email:     account.Email,
		Role:      string(account.Role),
		Type:      "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.RefreshExpiresIn)),
			Issuer:    "nexusems",
		},
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWT.AccessExpiresIn.Seconds()),
	}, nil
}
