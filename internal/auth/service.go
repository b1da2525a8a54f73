package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/crm-api/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthResult is returned by register and login
type AuthResult struct {
	User        user.PublicUser `json:"user"`
	AccessToken string          `json:"accessToken"`
}

// Service handles authentication business logic
type Service struct {
	users               *user.Service
	tokenService        TokenService
	accessTokenDuration time.Duration
}

func NewService(users *user.Service, tokenService TokenService, accessTokenDuration time.Duration) *Service {
	return &Service{
		users:               users,
		tokenService:        tokenService,
		accessTokenDuration: accessTokenDuration,
	}
}

// Register creates a new user account and issues an access token for it.
// user.ErrDuplicateEmail is returned unchanged.
func (s *Service) Register(ctx context.Context, p user.CreateParams) (*AuthResult, error) {
	created, err := s.users.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.issue(created)
}

// Login authenticates a user. Unknown email and wrong password both return
// ErrInvalidCredentials after one password verification.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existing == nil {
		s.users.SpendVerification(password)
		return nil, ErrInvalidCredentials
	}

	if !s.users.VerifyPassword(password, existing.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(existing.Public())
}

// ResolvePrincipal returns the user a verified token refers to, or
// user.ErrNotFound when it no longer exists.
func (s *Service) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (user.PublicUser, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *Service) issue(u user.PublicUser) (*AuthResult, error) {
	token, err := s.tokenService.CreateToken(u.ID, u.Email, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AuthResult{User: u, AccessToken: token}, nil
}
