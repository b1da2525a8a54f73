package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted users row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	FirstName    string    `bun:"first_name,notnull"`
	LastName     string    `bun:"last_name,notnull"`
	BirthDate    time.Time `bun:"birth_date,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Category is the persisted categories row.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          uuid.UUID `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description *string   `bun:"description"`
	Icon        *string   `bun:"icon"`
	Color       *string   `bun:"color"`
	IsActive    bool      `bun:"is_active,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
