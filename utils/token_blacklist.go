package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistPrefix = "session:blacklist:"

// In-memory fallback when Redis is not configured. Entries expire lazily.
var (
	memBlacklist   = map[string]time.Time{}
	memBlacklistMu sync.Mutex
)

// BlacklistToken revokes a session token until its natural expiry.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if RedisClient != nil {
		if err := RedisClient.Set(ctx, blacklistPrefix+token, "1", ttl).Err(); err != nil {
			Sugar.Warnw("token blacklist set failed", "err", err)
		}
		return
	}
	memBlacklistMu.Lock()
	defer memBlacklistMu.Unlock()
	memBlacklist[token] = time.Now().Add(ttl)
	for k, exp := range memBlacklist {
		if time.Now().After(exp) {
			delete(memBlacklist, k)
		}
	}
}

// IsTokenBlacklisted reports whether a token has been revoked by logout.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if RedisClient != nil {
		n, err := RedisClient.Exists(ctx, blacklistPrefix+token).Result()
		if err != nil {
			Sugar.Warnw("token blacklist check failed", "err", err)
			return false
		}
		return n > 0
	}
	memBlacklistMu.Lock()
	defer memBlacklistMu.Unlock()
	exp, ok := memBlacklist[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(memBlacklist, token)
		return false
	}
	return true
}
