package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

const defaultMessagePageSize = 50

type MessagesPage struct {
	Messages []MessageView `json:"messages"`
	HasMore  bool          `json:"hasMore"`
}

// ChatService 私信会话服务
type ChatService interface {
	// GetOrCreate returns the one conversation between requester and other,
	// creating it on first contact. Both orderings hit the same row;
	// concurrent first contact yields exactly one conversation.
	GetOrCreate(ctx context.Context, requester *model.User, otherID string) (*ConversationView, error)
	// SendMessage appends to the conversation and notifies the other
	// participant's user channel after the write is durable.
	SendMessage(ctx context.Context, conversationID string, sender *model.User, text string) (*MessageView, error)
	// Messages pages oldest-to-newest; zero/negative page or limit fall back
	// to 1/50.
	Messages(ctx context.Context, conversationID string, requester *model.User, page, limit int) (*MessagesPage, error)
	// List returns the requester's conversations, most recent activity first.
	List(ctx context.Context, requester *model.User) ([]ConversationView, error)
}

type chatService struct {
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	publisher realtime.Publisher
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, publisher realtime.Publisher) ChatService {
	return &chatService{chatRepo: chatRepo, userRepo: userRepo, publisher: publisher}
}

func (s *chatService) GetOrCreate(ctx context.Context, requester *model.User, otherID string) (*ConversationView, error) {
	if requester.ID == otherID {
		return nil, errors.ErrChatSelf
	}
	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, errors.ErrUserNotFound
	}
	conv, err := s.chatRepo.GetOrCreate(ctx, requester.ID, otherID)
	if err != nil {
		return nil, err
	}
	view := ConversationView{
		ID:           conv.ID,
		Participants: participantBriefs(conv, requester, other),
		LastMessage:  conv.LastMessageAt,
		CreatedAt:    conv.CreatedAt,
	}
	return &view, nil
}

func (s *chatService) SendMessage(ctx context.Context, conversationID string, sender *model.User, text string) (*MessageView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ErrMessageTextRequired
	}
	conv, err := s.chatRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errors.ErrChatNotFound
	}
	if !conv.HasParticipant(sender.ID) {
		return nil, errors.ErrNotParticipantSend
	}

	msg, err := s.chatRepo.AppendMessage(ctx, conversationID, sender.ID, text)
	if err != nil {
		return nil, err
	}
	view := MessageView{
		ID:        msg.ID,
		Sender:    sender.Brief(),
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
		Read:      msg.Read,
	}

	// Persisted first; delivery is best effort and cannot fail the request.
	s.publisher.PublishToUser(conv.Other(sender.ID), realtime.EventNewMessage, realtime.NewMessagePayload{
		ChatID:  conversationID,
		Message: view,
	})
	return &view, nil
}

func (s *chatService) Messages(ctx context.Context, conversationID string, requester *model.User, page, limit int) (*MessagesPage, error) {
	conv, err := s.chatRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errors.ErrChatNotFound
	}
	if !conv.HasParticipant(requester.ID) {
		return nil, errors.ErrNotParticipant
	}

	page, limit = clampPage(page, limit, defaultMessagePageSize)
	offset := (page - 1) * limit
	msgs, err := s.chatRepo.ListMessages(ctx, conversationID, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.chatRepo.CountMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	views, err := s.messageViews(ctx, conv, msgs)
	if err != nil {
		return nil, err
	}
	return &MessagesPage{
		Messages: views,
		HasMore:  total > int64(offset+limit),
	}, nil
}

func (s *chatService) List(ctx context.Context, requester *model.User) ([]ConversationView, error) {
	convs, err := s.chatRepo.ListForUser(ctx, requester.ID)
	if err != nil {
		return nil, err
	}

	otherIDs := make(map[string]struct{}, len(convs))
	for _, conv := range convs {
		otherIDs[conv.Other(requester.ID)] = struct{}{}
	}
	briefs, err := loadBriefs(ctx, s.userRepo, otherIDs)
	if err != nil {
		return nil, err
	}
	briefs[requester.ID] = requester.Brief()

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		msgs, err := s.chatRepo.ListAllMessages(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		msgViews := make([]MessageView, len(msgs))
		for i, m := range msgs {
			msgViews[i] = MessageView{
				ID:        m.ID,
				Sender:    briefs[m.SenderID],
				Text:      m.Text,
				Timestamp: m.Timestamp,
				Read:      m.Read,
			}
		}
		unread, err := s.chatRepo.CountUnread(ctx, conv.ID, requester.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, ConversationView{
			ID:           conv.ID,
			Participants: []model.UserBrief{briefs[conv.UserLoID], briefs[conv.UserHiID]},
			Messages:     msgViews,
			LastMessage:  conv.LastMessageAt,
			UnreadCount:  unread,
			CreatedAt:    conv.CreatedAt,
		})
	}
	return views, nil
}

func (s *chatService) messageViews(ctx context.Context, conv *model.Conversation, msgs []*model.Message) ([]MessageView, error) {
	senderIDs := make(map[string]struct{})
	for _, m := range msgs {
		senderIDs[m.SenderID] = struct{}{}
	}
	briefs, err := loadBriefs(ctx, s.userRepo, senderIDs)
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = MessageView{
			ID:        m.ID,
			Sender:    briefs[m.SenderID],
			Text:      m.Text,
			Timestamp: m.Timestamp,
			Read:      m.Read,
		}
	}
	return views, nil
}

func participantBriefs(conv *model.Conversation, a, b *model.User) []model.UserBrief {
	byID := map[string]model.UserBrief{a.ID: a.Brief(), b.ID: b.Brief()}
	return []model.UserBrief{byID[conv.UserLoID], byID[conv.UserHiID]}
}
