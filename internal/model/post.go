package model

import "time"

// Post 内容主体
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);index:idx_post_user_created;not null"`
	Text      string    `gorm:"type:varchar(280);not null"`
	Image     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index:idx_post_user_created;index:idx_post_created"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

// PostLike 点赞关系，一个用户对一条 Post 至多一条
// idx_like_pair = (post_id, user_id)
type PostLike struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_like_pair,unique;not null"`
	UserID    string `gorm:"type:varchar(36);index:idx_like_pair,unique;not null"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }

// Comment 评论，归属单条 Post
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post_created;not null"`
	UserID    string    `gorm:"type:varchar(36);not null"`
	Text      string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"index:idx_comment_post_created"`
}

func (Comment) TableName() string { return "comments" }
