package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

func newAuthFixture(t *testing.T, ttl time.Duration) AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", ttl)
}

func registerInput(username, email string) RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  username,
		Email:     email,
		Password:  "secret123",
		Interests: []string{"math"},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, registerInput("ada", "ada@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEqual(t, "secret123", u.Password, "password is stored hashed")

	logged, loginToken, err := svc.Login(ctx, "Ada@Example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
	assert.Equal(t, u.ID, logged.ID)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"username too short", registerInput("ab", "a@example.com")},
		{"username bad chars", registerInput("ada lovelace", "a@example.com")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.in)
			require.Error(t, err)
		})
	}

	in := registerInput("ada", "ada@example.com")
	in.Interests = nil
	_, _, err := svc.Register(ctx, in)
	assert.ErrorIs(t, err, errors.ErrInterestsEmpty)

	in = registerInput("ada", "ada@example.com")
	in.Password = "short"
	_, _, err = svc.Register(ctx, in)
	require.Error(t, err)
}

func TestRegisterUniqueness(t *testing.T) {
	svc := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerInput("ada", "ada@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, registerInput("ada", "other@example.com"))
	assert.ErrorIs(t, err, errors.ErrUsernameTaken)

	_, _, err = svc.Register(ctx, registerInput("ada2", "ada@example.com"))
	assert.ErrorIs(t, err, errors.ErrEmailTaken)
}

func TestResolveToken(t *testing.T) {
	svc := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, registerInput("ada", "ada@example.com"))
	require.NoError(t, err)

	resolved, err := svc.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	_, err = svc.ResolveToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestResolveTokenExpired(t *testing.T) {
	svc := newAuthFixture(t, -time.Minute)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, registerInput("ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = svc.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}
