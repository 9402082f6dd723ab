package model

import "time"

// User 用户主体
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FirstName      string    `gorm:"type:varchar(50);not null" json:"firstName"`
	LastName       string    `gorm:"type:varchar(50);not null" json:"lastName"`
	Username       string    `gorm:"type:varchar(30);uniqueIndex:ux_user_username;not null" json:"username"`
	Email          string    `gorm:"type:varchar(254);uniqueIndex:ux_user_email;not null" json:"-"`
	Password       string    `gorm:"type:varchar(100);not null" json:"-"`
	Bio            string    `gorm:"type:varchar(500)" json:"bio"`
	Interests      []string  `gorm:"serializer:json;type:text" json:"interests"`
	ProfilePicture string    `gorm:"type:text" json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// UserBrief is the populated shape embedded in posts, comments, messages and
// follower lists.
type UserBrief struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
}

func (u *User) Brief() UserBrief {
	return UserBrief{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

func (u *User) FullName() string { return u.FirstName + " " + u.LastName }
