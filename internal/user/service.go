package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/crm-api/internal/password"
)

// Service holds user business logic.
type Service struct {
	repo   *Repository
	hasher password.Hasher
}

func NewService(repo *Repository, hasher password.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Create registers a new user. The email pre-check gives the common case a
// clean error; a concurrent insert that wins the race still surfaces as
// ErrDuplicateEmail through the unique constraint.
func (s *Service) Create(ctx context.Context, p CreateParams) (PublicUser, error) {
	_, err := s.repo.GetByEmail(ctx, p.Email)
	if err == nil {
		return PublicUser{}, ErrDuplicateEmail
	}
	if !errors.Is(err, ErrNotFound) {
		return PublicUser{}, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return PublicUser{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	now := now()
	u := &User{
		ID:           id,
		Email:        p.Email,
		PasswordHash: passwordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		BirthDate:    p.BirthDate.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return PublicUser{}, err
	}

	return u.Public(), nil
}

// FindByEmail returns the full record including the password hash, or nil
// when no user has that email. Callers must not pass the result to clients.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByID returns the redacted user or ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}
	return u.Public(), nil
}

// VerifyPassword reports whether plaintext matches hashed.
func (s *Service) VerifyPassword(plaintext, hashed string) bool {
	return s.hasher.Verify(plaintext, hashed)
}

// SpendVerification runs one verification against a dummy digest and
// always reports false.
func (s *Service) SpendVerification(plaintext string) bool {
	s.hasher.Verify(plaintext, s.hasher.DummyHash())
	return false
}

// UpdateProfile applies the present fields of patch to the user.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}

	if patch.Empty() {
		return u.Public(), nil
	}

	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.BirthDate != nil {
		u.BirthDate = patch.BirthDate.UTC()
	}
	u.UpdatedAt = now()

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return PublicUser{}, err
	}

	return u.Public(), nil
}

// now is truncated to the storage precision so values read back compare equal.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
