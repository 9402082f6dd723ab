package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/config"
	"github.com/d60-Lab/mingle/internal/database"
	"github.com/d60-Lab/mingle/internal/model"
)

func setupChatDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestGetOrCreateCanonicalPair(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	ab, err := repo.GetOrCreate(ctx, "ua", "ub")
	require.NoError(t, err)
	ba, err := repo.GetOrCreate(ctx, "ub", "ua")
	require.NoError(t, err)

	assert.Equal(t, ab.ID, ba.ID)
	assert.Equal(t, "ua", ab.UserLoID)
	assert.Equal(t, "ub", ab.UserHiID)

	var count int64
	require.NoError(t, db.Model(&model.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAppendMessageBumpsLastMessageAt(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, "ua", "ub")
	require.NoError(t, err)
	before := conv.LastMessageAt

	time.Sleep(5 * time.Millisecond)
	msg, err := repo.AppendMessage(ctx, conv.ID, "ua", "hello")
	require.NoError(t, err)

	reloaded, err := repo.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastMessageAt.After(before))
	assert.Equal(t, msg.Timestamp.UnixNano(), reloaded.LastMessageAt.UnixNano())
}

func TestListMessagesSeqBreaksTimestampTies(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, "ua", "ub")
	require.NoError(t, err)

	// Same wall-clock timestamp on every row; insertion order must still be
	// reproduced.
	ts := time.Now().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		m := &model.Message{
			ID:             uuid.New().String(),
			ConversationID: conv.ID,
			SenderID:       "ua",
			Text:           fmt.Sprintf("m%d", i),
			Timestamp:      ts,
		}
		require.NoError(t, db.Create(m).Error)
	}

	msgs, err := repo.ListMessages(ctx, conv.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("m%d", i), m.Text)
	}
}

func TestCountUnread(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, "ua", "ub")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.AppendMessage(ctx, conv.ID, "ua", "ping")
		require.NoError(t, err)
	}
	_, err = repo.AppendMessage(ctx, conv.ID, "ub", "pong")
	require.NoError(t, err)

	unreadForB, err := repo.CountUnread(ctx, conv.ID, "ub")
	require.NoError(t, err)
	assert.Equal(t, int64(3), unreadForB)

	unreadForA, err := repo.CountUnread(ctx, conv.ID, "ua")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unreadForA)
}
