package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CountCache caches follower/following counts per user id.
type CountCache interface {
	Get(ctx context.Context, userID uint) (FollowCounts, bool)
	Set(ctx context.Context, userID uint, counts FollowCounts)
	Invalidate(ctx context.Context, userIDs ...uint)
}

type noCountCache struct{}

func (noCountCache) Get(context.Context, uint) (FollowCounts, bool) { return FollowCounts{}, false }
func (noCountCache) Set(context.Context, uint, FollowCounts)        {}
func (noCountCache) Invalidate(context.Context, ...uint)            {}

type RedisCountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCountCache(rdb *redis.Client, ttl time.Duration) *RedisCountCache {
	return &RedisCountCache{rdb: rdb, ttl: ttl}
}

func countKey(userID uint) string { return fmt.Sprintf("follow:counts:%d", userID) }

func (c *RedisCountCache) Get(ctx context.Context, userID uint) (FollowCounts, bool) {
	raw, err := c.rdb.Get(ctx, countKey(userID)).Bytes()
	if err != nil {
		return FollowCounts{}, false
	}
	var fc FollowCounts
	if err := json.Unmarshal(raw, &fc); err != nil {
		return FollowCounts{}, false
	}
	return fc, true
}

func (c *RedisCountCache) Set(ctx context.Context, userID uint, counts FollowCounts) {
	raw, _ := json.Marshal(counts)
	c.rdb.Set(ctx, countKey(userID), raw, c.ttl)
}

func (c *RedisCountCache) Invalidate(ctx context.Context, userIDs ...uint) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = countKey(id)
	}
	c.rdb.Del(ctx, keys...)
}
