package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service implements category CRUD. Name checks before writes only produce
// the common-case error early; the unique constraint decides races and is
// reported as the same ErrDuplicateName.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new category.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Category, error) {
	if err := s.ensureNameFree(ctx, in.Name, uuid.Nil); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category id: %w", err)
	}

	now := now()
	c := &Category{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// ListAll returns every category, most recently created first.
func (s *Service) ListAll(ctx context.Context) ([]Category, error) {
	return s.repo.ListAll(ctx)
}

// ListActive returns the active categories sorted by name.
func (s *Service) ListActive(ctx context.Context) ([]Category, error) {
	return s.repo.ListActive(ctx)
}

// GetOne returns the category or ErrNotFound.
func (s *Service) GetOne(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges patch into the category. Renaming a category to its current
// name is not a conflict.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return c, nil
	}

	if patch.Name != nil && *patch.Name != c.Name {
		if err := s.ensureNameFree(ctx, *patch.Name, c.ID); err != nil {
			return nil, err
		}
	}

	patch.apply(c)
	c.UpdatedAt = now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Remove deletes the category and returns it as it was before deletion.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return c, nil
}

// ensureNameFree fails with ErrDuplicateName when a category other than self
// already uses name.
func (s *Service) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if existing.ID != self {
		return ErrDuplicateName
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
