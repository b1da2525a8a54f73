package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/crm-api/internal/database"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
)

// Repository handles category persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts c. A unique violation on name yields ErrDuplicateName.
func (r *Repository) Create(ctx context.Context, c *Category) error {
	_, err := r.db.NewInsert().
		Model(toRow(c)).
		Exec(ctx)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// ListAll returns every category, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Category, error) {
	var rows []database.Category
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("c.created_at DESC, c.id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return fromRows(rows), nil
}

// ListActive returns active categories ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]Category, error) {
	var rows []database.Category
	err := r.db.NewSelect().
		Model(&rows).
		Where("c.is_active = ?", true).
		OrderExpr("c.name ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list active categories: %w", err)
	}

	return fromRows(rows), nil
}

// GetByID retrieves a category by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return r.getOne(ctx, "c.id = ?", id)
}

// GetByName retrieves a category by its exact name
func (r *Repository) GetByName(ctx context.Context, name string) (*Category, error) {
	return r.getOne(ctx, "c.name = ?", name)
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*Category, error) {
	row := new(database.Category)
	err := r.db.NewSelect().
		Model(row).
		Where(where, arg).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return fromRow(row), nil
}

// Update writes every mutable column of c.
func (r *Repository) Update(ctx context.Context, c *Category) error {
	result, err := r.db.NewUpdate().
		Model(toRow(c)).
		Column("name", "description", "icon", "color", "is_active", "updated_at").
		WherePK().
		Exec(ctx)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	return expectOneRow(result)
}

// Delete removes the category with the given ID
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Category)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func fromRow(row *database.Category) *Category {
	return &Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Icon:        row.Icon,
		Color:       row.Color,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func fromRows(rows []database.Category) []Category {
	out := make([]Category, 0, len(rows))
	for i := range rows {
		out = append(out, *fromRow(&rows[i]))
	}
	return out
}

func toRow(c *Category) *database.Category {
	return &database.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
