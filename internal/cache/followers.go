package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/logger"
)

// FollowerCache serves follower list reads from redis: an id index per user
// ("followers:index:<id>", a list in follow-recency order) plus one JSON
// snapshot per user ("user:<id>"). The database stays the source of truth;
// every follow/unfollow invalidates the index.
type FollowerCache struct {
	cache      *redis.Client
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	ttl        time.Duration
}

func NewFollowerCache(cache *redis.Client, followRepo repository.FollowRepository, userRepo repository.UserRepository, ttl time.Duration) *FollowerCache {
	return &FollowerCache{cache: cache, followRepo: followRepo, userRepo: userRepo, ttl: ttl}
}

func indexKey(userID string) string { return "followers:index:" + userID }
func userKey(userID string) string  { return "user:" + userID }

// ListFollowers returns follower snapshots newest-first.
func (s *FollowerCache) ListFollowers(ctx context.Context, userID string) ([]model.UserBrief, error) {
	ids, err := s.cache.LRange(ctx, indexKey(userID), 0, -1).Result()
	if err != nil || len(ids) == 0 {
		ids, err = s.loadIndex(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	return s.loadUsers(ctx, ids)
}

// Invalidate drops the id index for userID; snapshots stay until TTL.
func (s *FollowerCache) Invalidate(ctx context.Context, userID string) {
	if err := s.cache.Del(ctx, indexKey(userID)).Err(); err != nil {
		logger.Warn("follower cache invalidate failed", zap.String("user", userID), zap.Error(err))
	}
}

// InvalidateUser drops the profile snapshot after a profile update.
func (s *FollowerCache) InvalidateUser(ctx context.Context, userID string) {
	if err := s.cache.Del(ctx, userKey(userID)).Err(); err != nil {
		logger.Warn("user snapshot invalidate failed", zap.String("user", userID), zap.Error(err))
	}
}

func (s *FollowerCache) loadIndex(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.ListFollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		key := indexKey(userID)
		pipe := s.cache.Pipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, toAnySlice(ids)...)
		pipe.Expire(ctx, key, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("follower index cache write failed", zap.String("user", userID), zap.Error(err))
		}
	}
	return ids, nil
}

func (s *FollowerCache) loadUsers(ctx context.Context, ids []string) ([]model.UserBrief, error) {
	if len(ids) == 0 {
		return []model.UserBrief{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	cached := make(map[string]model.UserBrief, len(ids))
	if vals, err := s.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var snap model.UserBrief
			if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
				cached[ids[i]] = snap
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		users, err := s.userRepo.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			snap := u.Brief()
			cached[u.ID] = snap
			if payload, err := json.Marshal(snap); err == nil {
				if sErr := s.cache.Set(ctx, userKey(u.ID), payload, s.ttl).Err(); sErr != nil {
					logger.Warn("user snapshot cache write failed", zap.String("user", u.ID), zap.Error(sErr))
				}
			}
		}
	}

	result := make([]model.UserBrief, 0, len(ids))
	for _, id := range ids {
		if snap, ok := cached[id]; ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

func toAnySlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
