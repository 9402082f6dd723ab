package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/model"
)

// ErrDuplicateFollow is returned when the (follower, followee) edge already
// exists; idx_follow_pair enforces it at the storage layer.
var ErrDuplicateFollow = errors.New("follow edge already exists")

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID string) error
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowers(ctx context.Context, followeeID string) ([]model.UserBrief, error)
	ListFollowing(ctx context.Context, followerID string) ([]model.UserBrief, error)
	ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	err := r.db.WithContext(ctx).Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateFollow
	}
	return err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID string) ([]model.UserBrief, error) {
	var rows []model.UserBrief
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id", "users.username", "users.first_name", "users.last_name", "users.profile_picture").
		Joins("JOIN users ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", followeeID).
		Order("follows.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string) ([]model.UserBrief, error) {
	var rows []model.UserBrief
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id", "users.username", "users.first_name", "users.last_name", "users.profile_picture").
		Joins("JOIN users ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *followRepository) ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("follower_id").
		Where("followee_id = ?", followeeID).
		Order("created_at DESC").
		Scan(&ids).Error
	return ids, err
}
