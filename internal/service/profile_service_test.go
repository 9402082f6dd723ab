package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

func newProfileFixture(t *testing.T) (ProfileService, func() *model.User) {
	t.Helper()
	db := newTestDB(t)
	n := 0
	return NewProfileService(repository.NewUserRepository(db)), func() *model.User {
		n++
		return seedUser(t, db, n)
	}
}

func TestGetProfileByUsername(t *testing.T) {
	svc, user := newProfileFixture(t)
	u := user()

	got, err := svc.GetByUsername(context.Background(), u.Username)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, errors.ErrProfileNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, user := newProfileFixture(t)
	u := user()
	ctx := context.Background()

	updated, err := svc.Update(ctx, u.ID, UpdateProfileInput{
		FirstName: "New",
		LastName:  "Name",
		Bio:       "hello",
		Interests: []string{"go", "chess"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, u.Username, updated.Username, "username unchanged when not provided")
	assert.Equal(t, []string{"go", "chess"}, updated.Interests)
}

func TestUpdateProfileUsernameChange(t *testing.T) {
	svc, user := newProfileFixture(t)
	u := user()
	other := user()
	ctx := context.Background()

	in := UpdateProfileInput{FirstName: "A", LastName: "B", Interests: []string{"x"}}

	in.Username = other.Username
	_, err := svc.Update(ctx, u.ID, in)
	assert.ErrorIs(t, err, errors.ErrUsernameTaken)

	in.Username = "has spaces"
	_, err = svc.Update(ctx, u.ID, in)
	require.Error(t, err)

	in.Username = "fresh_name"
	updated, err := svc.Update(ctx, u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "fresh_name", updated.Username)
}

func TestUpdateProfileRequiresInterests(t *testing.T) {
	svc, user := newProfileFixture(t)
	u := user()

	_, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, errors.ErrInterestsEmpty)
}

func TestSetPicture(t *testing.T) {
	svc, user := newProfileFixture(t)
	u := user()

	updated, err := svc.SetPicture(context.Background(), u.ID, "/uploads/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.png", updated.ProfilePicture)
}
