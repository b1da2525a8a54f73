package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/crm-api/internal/nullable"
)

// Category is a named grouping shown in the public catalog.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput holds the fields of a new category. IsActive defaults to false.
type CreateInput struct {
	Name        string
	Description *string
	Icon        *string
	Color       *string
	IsActive    *bool
}

// Patch lists fields to change; nil or unset fields are left untouched. The
// optional text fields can also be cleared with nullable.Null.
type Patch struct {
	Name        *string
	Description nullable.String
	Icon        nullable.String
	Color       nullable.String
	IsActive    *bool
}

func (p Patch) apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description.Set {
		c.Description = p.Description.Value
	}
	if p.Icon.Set {
		c.Icon = p.Icon.Value
	}
	if p.Color.Set {
		c.Color = p.Color.Value
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && !p.Description.Set && !p.Icon.Set && !p.Color.Set && p.IsActive == nil
}
