package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const turnLockKeyPrefix = "turn_lock:"

// TurnLock serializes turn processing per session at the persistence
// boundary. Locking is best-effort: when the wait budget runs out the
// caller proceeds anyway and the last write wins.
type TurnLock struct {
	redis *redis.Client
	ttl   time.Duration
	wait  time.Duration
}

// NewTurnLock returns nil when no redis client is configured; a nil lock
// is a no-op.
func NewTurnLock(redisClient *redis.Client, ttl, wait time.Duration) *TurnLock {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if wait < 0 {
		wait = 0
	}
	return &TurnLock{redis: redisClient, ttl: ttl, wait: wait}
}

// Acquire takes the per-session lock, waiting up to the configured budget.
// The returned release func is always safe to call.
func (l *TurnLock) Acquire(ctx context.Context, sessionID string) func() {
	if l == nil || l.redis == nil || sessionID == "" {
		return func() {}
	}

	key := turnLockKeyPrefix + sessionID
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil || ok {
			break
		}
		if time.Now().After(deadline) {
			// Budget exhausted; process the turn without the lock.
			return func() {}
		}
		select {
		case <-ctx.Done():
			return func() {}
		case <-time.After(50 * time.Millisecond):
		}
	}

	return func() {
		// Only delete the lock if we still own it.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		_ = l.redis.Eval(context.Background(), script, []string{key}, token).Err()
	}
}
