package realtime

// Server→client event names.
const (
	EventNewMessage        = "newMessage"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
	EventNewFollower       = "newFollower"
	EventUserUnfollowed    = "userUnfollowed"
	EventNewComment        = "newComment"
)

// Client→server event names.
const (
	eventJoin       = "join"
	eventJoinChat   = "joinChat"
	eventLeaveChat  = "leaveChat"
	eventTyping     = "typing"
	eventStopTyping = "stopTyping"
)

// Publisher is the seam services emit through. The hub implements it; tests
// swap in a recorder. Publishing is best effort: no delivery guarantee, no
// persistence, and it never blocks or fails the caller.
type Publisher interface {
	// PublishToUser emits to every live connection on the user's channel.
	PublishToUser(userID, event string, payload any)
	// PublishToConversation emits to the conversation channel, excluding
	// connections owned by excludeUserID (the origin of the signal).
	PublishToConversation(conversationID, excludeUserID, event string, payload any)
	// Broadcast emits to every live connection.
	Broadcast(event string, payload any)
}

// NewMessagePayload is pushed to each participant other than the sender.
type NewMessagePayload struct {
	ChatID  string `json:"chatId"`
	Message any    `json:"message"`
}

// TypingPayload carries the ephemeral co-presence signal.
type TypingPayload struct {
	ChatID   string `json:"chatId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// NewFollowerPayload is pushed to the followee's user channel.
type NewFollowerPayload struct {
	FollowerID       string `json:"followerId"`
	FollowerName     string `json:"followerName"`
	FollowerUsername string `json:"followerUsername"`
}

// UnfollowedPayload is pushed to the followee's user channel.
type UnfollowedPayload struct {
	FollowerID string `json:"followerId"`
}

// NewCommentPayload is a global broadcast.
type NewCommentPayload struct {
	PostID       string `json:"postId"`
	Comment      any    `json:"comment"`
	CommentCount int64  `json:"commentCount"`
}
