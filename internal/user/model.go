package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the full user record, including the password hash. It is never
// written to a response; use Public.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string `json:"-"`
	FirstName    string
	LastName     string
	BirthDate    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the redacted view of a user returned to clients.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	BirthDate time.Time `json:"birthDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public projects u onto its client-safe fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateParams holds the fields needed to register a user.
type CreateParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate time.Time
}

// ProfilePatch lists profile fields to change; nil fields are left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	BirthDate *time.Time
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.BirthDate == nil
}
