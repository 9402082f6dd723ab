package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/model"
)

type ChatRepository interface {
	// GetOrCreate returns the single conversation for the unordered pair,
	// creating it when absent. Safe under concurrent first contact.
	GetOrCreate(ctx context.Context, userA, userB string) (*model.Conversation, error)
	GetByID(ctx context.Context, id string) (*model.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error)
	// AppendMessage writes the message and bumps last_message_at in one
	// transaction; the append is atomic, never partially visible.
	AppendMessage(ctx context.Context, conversationID, senderID, text string) (*model.Message, error)
	ListMessages(ctx context.Context, conversationID string, offset, limit int) ([]*model.Message, error)
	ListAllMessages(ctx context.Context, conversationID string) ([]*model.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int64, error)
	CountUnread(ctx context.Context, conversationID, readerID string) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository { return &chatRepository{db: db} }

func (r *chatRepository) GetOrCreate(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	lo, hi := model.PairKey(userA, userB)

	find := func() (*model.Conversation, error) {
		var conv model.Conversation
		err := r.db.WithContext(ctx).
			Where("user_lo_id = ? AND user_hi_id = ?", lo, hi).
			First(&conv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &conv, nil
	}

	if conv, err := find(); err != nil || conv != nil {
		return conv, err
	}

	now := time.Now()
	conv := &model.Conversation{
		ID:            uuid.New().String(),
		UserLoID:      lo,
		UserHiID:      hi,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := r.db.WithContext(ctx).Create(conv).Error
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the first-contact race; idx_conversation_pair guarantees the
		// winner's row is the one to return.
		if existing, ferr := find(); ferr == nil && existing != nil {
			return existing, nil
		} else if ferr != nil {
			return nil, ferr
		}
	}
	return nil, err
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_lo_id = ? OR user_hi_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

func (r *chatRepository) AppendMessage(ctx context.Context, conversationID, senderID, text string) (*model.Message, error) {
	msg := &model.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		Timestamp:      time.Now(),
		Read:           false,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]any{"last_message_at": msg.Timestamp, "updated_at": msg.Timestamp}).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, conversationID string, offset, limit int) ([]*model.Message, error) {
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, seq ASC").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) ListAllMessages(ctx context.Context, conversationID string) ([]*model.Message, error) {
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, seq ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&cnt).Error
	return cnt, err
}

func (r *chatRepository) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
		Count(&cnt).Error
	return cnt, err
}
