package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Response cache helpers on top of Redis. All helpers are no-ops when the
// client is not configured so handlers work without a cache layer.

// CacheGetBytes returns the raw cached payload for key, or (nil, false).
func CacheGetBytes(ctx context.Context, key string) ([]byte, bool) {
	if RedisClient == nil {
		return nil, false
	}
	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Warnw("cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return data, true
}

// CacheSetJSON marshals value as JSON and stores it under key with a TTL.
func CacheSetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		Sugar.Warnw("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := RedisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		Sugar.Warnw("cache set failed", "key", key, "err", err)
	}
}

// CacheDelete removes specific keys.
func CacheDelete(ctx context.Context, keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}
	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		Sugar.Warnw("cache delete failed", "keys", keys, "err", err)
	}
}

// InvalidateByPrefix removes every key under the given prefix. Used after
// writes that change the post list or a post's comment thread.
func InvalidateByPrefix(ctx context.Context, prefix string) {
	if RedisClient == nil {
		return
	}
	iter := RedisClient.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		Sugar.Warnw("cache scan failed", "prefix", prefix, "err", err)
		return
	}
	if len(keys) > 0 {
		if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
			Sugar.Warnw("cache invalidate failed", "prefix", prefix, "err", err)
		}
	}
}
