package service

import (
	"time"

	"github.com/d60-Lab/mingle/internal/model"
)

// Pagination is the standard list envelope block. The total key varies by
// entity (totalPosts, totalUsers, ...), so handlers render it with Envelope.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	HasNextPage bool
	HasPrevPage bool
}

func paginate(page int, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Envelope renders the block with the entity-specific total key.
func (p Pagination) Envelope(totalKey string) map[string]any {
	return map[string]any{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		totalKey:      p.Total,
		"hasNextPage": p.HasNextPage,
		"hasPrevPage": p.HasPrevPage,
	}
}

// clampPage falls back to defaults on zero/negative inputs.
func clampPage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

type CommentView struct {
	ID        string          `json:"id"`
	User      model.UserBrief `json:"user"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
}

type PostView struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Image     string          `json:"image"`
	User      model.UserBrief `json:"user"`
	Likes     []string        `json:"likes"`
	Comments  []CommentView   `json:"comments"`
	CreatedAt time.Time       `json:"createdAt"`
}

type MessageView struct {
	ID        string          `json:"id"`
	Sender    model.UserBrief `json:"sender"`
	Text      string          `json:"text"`
	Timestamp time.Time       `json:"timestamp"`
	Read      bool            `json:"read"`
}

type ConversationView struct {
	ID           string            `json:"id"`
	Participants []model.UserBrief `json:"participants"`
	Messages     []MessageView     `json:"messages,omitempty"`
	LastMessage  time.Time         `json:"lastMessage"`
	UnreadCount  int64             `json:"unreadCount"`
	CreatedAt    time.Time         `json:"createdAt"`
}
