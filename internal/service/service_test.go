package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/config"
	"github.com/d60-Lab/mingle/internal/database"
	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	// In-memory sqlite is per connection; pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, n int) *model.User {
	t.Helper()
	u := &model.User{
		FirstName: "First",
		LastName:  fmt.Sprintf("Last%d", n),
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  "hashed",
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}

// published is one recorded emission from a service under test.
type published struct {
	target  string // user or conversation id, empty for broadcasts
	exclude string
	event   string
	payload any
}

// publisherRecorder stands in for the hub in service tests.
type publisherRecorder struct {
	mu     sync.Mutex
	events []published
}

func (r *publisherRecorder) PublishToUser(userID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{target: userID, event: event, payload: payload})
}

func (r *publisherRecorder) PublishToConversation(conversationID, excludeUserID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{target: conversationID, exclude: excludeUserID, event: event, payload: payload})
}

func (r *publisherRecorder) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{event: event, payload: payload})
}

func (r *publisherRecorder) byEvent(event string) []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []published
	for _, e := range r.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}
