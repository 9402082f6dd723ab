package errors

var (
	// Users / profiles
	ErrUserNotFound    = NotFound("User not found")
	ErrProfileNotFound = NotFound("Profile not found")
	ErrUsernameTaken   = InvalidInput("Username already exists")
	ErrEmailTaken      = InvalidInput("Email already exists")
	ErrInterestsEmpty  = InvalidInput("At least one interest is required")

	// Auth
	ErrNoToken            = Unauthorized("No token, authorization denied")
	ErrInvalidToken       = Unauthorized("Token is not valid")
	ErrInvalidCredentials = Unauthorized("Invalid credentials")

	// Posts
	ErrPostNotFound     = NotFound("Post not found")
	ErrPostTextRequired = InvalidInput("Post text is required")
	ErrPostTooLong      = InvalidInput("Post cannot exceed 280 characters")
	ErrAlreadyLiked     = InvalidOperation("Post already liked")
	ErrNotLiked         = InvalidOperation("Post not liked")

	// Comments
	ErrCommentNotFound       = NotFound("Comment not found")
	ErrCommentTextRequired   = InvalidInput("Comment text is required")
	ErrCommentTooLong        = InvalidInput("Comment cannot exceed 500 characters")
	ErrCommentDeleteDenied   = Forbidden("Not authorized to delete this comment")
	ErrPostDeleteDenied      = Forbidden("Not authorized to delete this post")

	// Follows
	ErrFollowSelf     = InvalidOperation("You cannot follow yourself")
	ErrAlreadyFollows = InvalidOperation("Already following this user")
	ErrFollowNotFound = NotFound("Follow relationship not found")

	// Chats
	ErrChatSelf            = InvalidOperation("Cannot chat with yourself")
	ErrChatNotFound        = NotFound("Chat not found")
	ErrNotParticipant      = Forbidden("Not authorized to view this chat")
	ErrNotParticipantSend  = Forbidden("Not authorized to send message in this chat")
	ErrMessageTextRequired = InvalidInput("Message text is required")

	// Search
	ErrQueryRequired = InvalidInput("Search query is required")
)
