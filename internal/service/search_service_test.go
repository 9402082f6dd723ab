package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

func newSearchFixture(t *testing.T) (SearchService, PostService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	posts := NewPostService(postRepo, userRepo, nil, &publisherRecorder{})
	return NewSearchService(userRepo, postRepo), posts, db
}

func TestSearchUsersCaseInsensitive(t *testing.T) {
	svc, _, db := newSearchFixture(t)
	ctx := context.Background()

	mkUser(t, db, "GraceHopper", "Grace", "Hopper")
	mkUser(t, db, "turing", "Alan", "Turing")

	users, pg, err := svc.Users(ctx, "grace", 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "GraceHopper", users[0].Username)
	assert.Equal(t, int64(1), pg.Total)

	// Substring of first name, different casing.
	users, _, err = svc.Users(ctx, "ALAN", 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "turing", users[0].Username)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc, _, _ := newSearchFixture(t)
	ctx := context.Background()

	_, _, err := svc.Users(ctx, "   ", 1, 10)
	assert.ErrorIs(t, err, errors.ErrQueryRequired)
	_, _, err = svc.Posts(ctx, "", 1, 10)
	assert.ErrorIs(t, err, errors.ErrQueryRequired)
	_, err = svc.Global(ctx, "", 5)
	assert.ErrorIs(t, err, errors.ErrQueryRequired)
}

func TestSearchPosts(t *testing.T) {
	svc, posts, db := newSearchFixture(t)
	ctx := context.Background()
	author := mkUser(t, db, "author", "Post", "Author")

	_, err := posts.Create(ctx, author, "Gophers assemble", "")
	require.NoError(t, err)
	_, err = posts.Create(ctx, author, "nothing to see", "")
	require.NoError(t, err)

	found, pg, err := svc.Posts(ctx, "GOPHER", 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Gophers assemble", found[0].Text)
	assert.Equal(t, int64(1), pg.Total)
}

func TestGlobalSearchCapsEachSlice(t *testing.T) {
	svc, posts, db := newSearchFixture(t)
	ctx := context.Background()

	author := mkUser(t, db, "gopher0", "Go", "Pher")
	for i := 1; i < 5; i++ {
		mkUser(t, db, fmt.Sprintf("gopher%d", i), "Go", "Pher")
	}
	for i := 0; i < 5; i++ {
		_, err := posts.Create(ctx, author, fmt.Sprintf("gopher post %d", i), "")
		require.NoError(t, err)
	}

	result, err := svc.Global(ctx, "gopher", 10)
	require.NoError(t, err)
	assert.Len(t, result.Users, 3)
	assert.Len(t, result.Posts, 3)
	assert.Equal(t, 10, result.TotalResults)
}

func mkUser(t *testing.T, db *gorm.DB, username, first, last string) *model.User {
	t.Helper()
	u := &model.User{
		FirstName: first,
		LastName:  last,
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}
