package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/internal/middleware"
	"github.com/d60-Lab/mingle/pkg/response"
)

// GetChats lists the caller's conversations with unread counts.
// @Summary List chats
// @Tags chats
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/chats [get]
func (h *Handler) GetChats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	chats, err := h.chatService.List(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"chats": chats})
}

// GetOrCreateChat returns the two-party chat with :userId, creating it on
// first contact. Both orderings of the pair resolve to the same chat.
// @Summary Get or create chat
// @Tags chats
// @Security BearerAuth
// @Param userId path string true "other participant id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/chats/user/{userId} [get]
func (h *Handler) GetOrCreateChat(c *gin.Context) {
	user := middleware.CurrentUser(c)
	chat, err := h.chatService.GetOrCreate(c.Request.Context(), user, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"chat": chat})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage appends a message and pushes newMessage to the other side.
// @Summary Send message
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "chat id"
// @Param request body sendMessageRequest true "message text"
// @Success 201 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/chats/{chatId}/message [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user := middleware.CurrentUser(c)
	msg, err := h.chatService.SendMessage(c.Request.Context(), c.Param("chatId"), user, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": msg})
}

// GetMessages pages a chat's messages in chronological order.
// @Summary Chat messages
// @Tags chats
// @Security BearerAuth
// @Param chatId path string true "chat id"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(50)
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/chats/{chatId}/messages [get]
func (h *Handler) GetMessages(c *gin.Context) {
	page, limit := pageParams(c, 50)
	user := middleware.CurrentUser(c)
	pageOut, err := h.chatService.Messages(c.Request.Context(), c.Param("chatId"), user, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"messages": pageOut.Messages, "hasMore": pageOut.HasMore})
}
