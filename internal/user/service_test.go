package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/crm-api/internal/database/dbtest"
	"github.com/redmonkez12/crm-api/internal/password"
	"github.com/redmonkez12/crm-api/internal/user"
)

func newService(t *testing.T) (*user.Service, *user.Repository) {
	t.Helper()

	hasher, err := password.New(password.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	repo := user.NewRepository(dbtest.New(t))
	return user.NewService(repo, hasher), repo
}

func annParams() user.CreateParams {
	return user.CreateParams{
		Email:     "ann@example.com",
		Password:  "correct horse battery",
		FirstName: "Ann",
		LastName:  "Lee",
		BirthDate: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_Create(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, annParams())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "ann@example.com", created.Email)
	require.Equal(t, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), created.BirthDate)
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	stored, err := svc.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEqual(t, "correct horse battery", stored.PasswordHash)
	require.True(t, svc.VerifyPassword("correct horse battery", stored.PasswordHash))
	require.False(t, svc.VerifyPassword("wrong", stored.PasswordHash))
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, annParams())
	require.NoError(t, err)

	_, err = svc.Create(ctx, annParams())
	require.ErrorIs(t, err, user.ErrDuplicateEmail)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestService_Create_EmailIsCaseSensitive(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, annParams())
	require.NoError(t, err)

	p := annParams()
	p.Email = "Ann@example.com"
	_, err = svc.Create(ctx, p)
	require.NoError(t, err)
}

func TestRepository_Create_UniqueViolationMapsToDuplicate(t *testing.T) {
	_, repo := newService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	row := func() *user.User {
		return &user.User{
			ID: uuid.Must(uuid.NewV7()), Email: "race@example.com", PasswordHash: "x",
			FirstName: "R", LastName: "C", BirthDate: now, CreatedAt: now, UpdatedAt: now,
		}
	}

	require.NoError(t, repo.Create(ctx, row()))
	require.ErrorIs(t, repo.Create(ctx, row()), user.ErrDuplicateEmail)
}

func TestService_FindByEmail_Absent(t *testing.T) {
	svc, _ := newService(t)

	u, err := svc.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestService_FindByID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, annParams())
	require.NoError(t, err)

	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Equal(t, created.Email, found.Email)

	_, err = svc.FindByID(ctx, uuid.Must(uuid.NewV7()))
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestService_SpendVerification(t *testing.T) {
	svc, _ := newService(t)
	require.False(t, svc.SpendVerification("anything"))
}

func TestService_UpdateProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, annParams())
	require.NoError(t, err)

	first := "Annabel"
	born := time.Date(1991, 1, 2, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProfile(ctx, created.ID, user.ProfilePatch{FirstName: &first, BirthDate: &born})
	require.NoError(t, err)
	require.Equal(t, "Annabel", updated.FirstName)
	require.Equal(t, "Lee", updated.LastName)
	require.True(t, updated.BirthDate.Equal(born))
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	reloaded, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Annabel", reloaded.FirstName)
	require.Equal(t, "Lee", reloaded.LastName)
	require.True(t, reloaded.BirthDate.Equal(born))

	// the hash is not touched by a profile update
	stored, err := svc.FindByEmail(ctx, created.Email)
	require.NoError(t, err)
	require.True(t, svc.VerifyPassword("correct horse battery", stored.PasswordHash))
}

func TestService_UpdateProfile_EmptyPatch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, annParams())
	require.NoError(t, err)

	same, err := svc.UpdateProfile(ctx, created.ID, user.ProfilePatch{})
	require.NoError(t, err)
	require.True(t, created.UpdatedAt.Equal(same.UpdatedAt))
}

func TestService_UpdateProfile_NotFound(t *testing.T) {
	svc, _ := newService(t)

	name := "X"
	_, err := svc.UpdateProfile(context.Background(), uuid.Must(uuid.NewV7()), user.ProfilePatch{FirstName: &name})
	require.ErrorIs(t, err, user.ErrNotFound)
}
