package model

import "time"

// Conversation 两人私信会话。参与者按字典序规整存储，
// idx_conversation_pair = (user_lo_id, user_hi_id) 唯一，
// 保证同一对用户至多一个会话（两个方向命中同一行）。
type Conversation struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	UserLoID      string    `gorm:"type:varchar(36);index:idx_conversation_pair,unique;not null"`
	UserHiID      string    `gorm:"type:varchar(36);index:idx_conversation_hi;index:idx_conversation_pair,unique;not null"`
	LastMessageAt time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Conversation) TableName() string { return "conversations" }

// PairKey returns the canonical (lo, hi) ordering for two participant ids.
func PairKey(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Participants returns both participant ids in storage order.
func (c *Conversation) Participants() []string {
	return []string{c.UserLoID, c.UserHiID}
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserLoID == userID || c.UserHiID == userID
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID string) string {
	if c.UserLoID == userID {
		return c.UserHiID
	}
	return c.UserLoID
}

// Message 会话内消息。Seq 单调递增，作为 Timestamp 相同时的次级排序键。
// 消息一经写入不可变。
type Message struct {
	Seq            int64     `gorm:"primaryKey;autoIncrement"`
	ID             string    `gorm:"type:varchar(36);uniqueIndex:ux_message_id;not null"`
	ConversationID string    `gorm:"type:varchar(36);index:idx_message_conv_ts;not null"`
	SenderID       string    `gorm:"type:varchar(36);not null"`
	Text           string    `gorm:"type:text;not null"`
	Timestamp      time.Time `gorm:"index:idx_message_conv_ts"`
	Read           bool      `gorm:"not null;default:false"`
}

func (Message) TableName() string { return "messages" }
