package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps one sorted set per key, scored by request time.
type RedisRateLimiter struct {
	redis     redis.Cmdable
	keyPrefix string
	now       func() time.Time
}

func NewRedisRateLimiter(client redis.Cmdable, keyPrefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:     client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (l *RedisRateLimiter) formatKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", l.keyPrefix, key)
}

// Allow counts the request against key's window. Errors are returned so the
// caller decides whether to fail open.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit Rate) (bool, Info, error) {
	now := l.now()
	windowKey := l.formatKey(key)
	windowStart := now.Add(-limit.Window).UnixNano()

	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, windowKey, "0", strconv.FormatInt(windowStart, 10))
	card := pipe.ZCard(ctx, windowKey)
	pipe.ZAdd(ctx, windowKey, redis.Z{
		Score: float64(now.UnixNano()),
		// unique member so concurrent requests in the same nanosecond all count
		Member: strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString(),
	})
	pipe.Expire(ctx, windowKey, limit.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, Info{Limit: limit.Requests, Reset: now.Add(limit.Window)}, err
	}

	count := int(card.Val())
	remaining := limit.Requests - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < limit.Requests, Info{
		Limit:     limit.Requests,
		Remaining: remaining,
		Reset:     now.Add(limit.Window),
	}, nil
}
