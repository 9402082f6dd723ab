package service

import (
	"context"
	stderrors "errors"

	"github.com/d60-Lab/mingle/internal/cache"
	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

// FollowService 关注关系服务
type FollowService interface {
	Follow(ctx context.Context, follower *model.User, followeeID string) error
	Unfollow(ctx context.Context, follower *model.User, followeeID string) error
	Followers(ctx context.Context, userID string) ([]model.UserBrief, error)
	Following(ctx context.Context, userID string) ([]model.UserBrief, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	followers  *cache.FollowerCache // nil when redis is disabled
	publisher  realtime.Publisher
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, followers *cache.FollowerCache, publisher realtime.Publisher) FollowService {
	return &followService{followRepo: followRepo, userRepo: userRepo, followers: followers, publisher: publisher}
}

func (s *followService) Follow(ctx context.Context, follower *model.User, followeeID string) error {
	if follower.ID == followeeID {
		return errors.ErrFollowSelf
	}
	followee, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}
	if followee == nil {
		return errors.ErrUserNotFound
	}
	if err := s.followRepo.Create(ctx, follower.ID, followeeID); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateFollow) {
			return errors.ErrAlreadyFollows
		}
		return err
	}
	if s.followers != nil {
		s.followers.Invalidate(ctx, followeeID)
	}
	s.publisher.PublishToUser(followeeID, realtime.EventNewFollower, realtime.NewFollowerPayload{
		FollowerID:       follower.ID,
		FollowerName:     follower.FullName(),
		FollowerUsername: follower.Username,
	})
	return nil
}

func (s *followService) Unfollow(ctx context.Context, follower *model.User, followeeID string) error {
	deleted, err := s.followRepo.Delete(ctx, follower.ID, followeeID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.ErrFollowNotFound
	}
	if s.followers != nil {
		s.followers.Invalidate(ctx, followeeID)
	}
	s.publisher.PublishToUser(followeeID, realtime.EventUserUnfollowed, realtime.UnfollowedPayload{
		FollowerID: follower.ID,
	})
	return nil
}

func (s *followService) Followers(ctx context.Context, userID string) ([]model.UserBrief, error) {
	if s.followers != nil {
		return s.followers.ListFollowers(ctx, userID)
	}
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *followService) Following(ctx context.Context, userID string) ([]model.UserBrief, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}
