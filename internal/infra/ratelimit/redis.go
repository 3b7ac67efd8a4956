package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docflow/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Counters are namespaced so the limiter can share a redis instance with
// session or cache data from the main application.
const redisKeyPrefix = "docflow:ratelimit:"

type redisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// allowScript bumps the window counter and stamps the window TTL on first
// increment, atomically. It returns the counter and the remaining TTL so a
// single round trip yields the whole decision.
var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

func NewRedisLimiter(addr, password string, db int, now func() time.Time) (domain.RateLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if now == nil {
		now = time.Now
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisLimiter{client: client, now: now}, nil
}

func (r *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	windowMillis := window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}
	result, err := allowScript.Run(ctx, r.client, []string{redisKeyPrefix + key}, windowMillis).Result()
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	current, ttlMillis, err := parseAllowReply(result)
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	resetAt := r.now()
	if ttlMillis > 0 {
		resetAt = resetAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	remaining := limit - int(current)
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   current <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// parseAllowReply unpacks the {counter, ttl} pair answered by allowScript.
func parseAllowReply(reply any) (current, ttlMillis int64, err error) {
	values, ok := reply.([]any)
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply: %v", reply)
	}
	current, ok = values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limit counter: %v", values[0])
	}
	// PTTL answers -1/-2 for missing expiry; treat both as no known reset.
	if ttl, ok := values[1].(int64); ok && ttl > 0 {
		ttlMillis = ttl
	}
	return current, ttlMillis, nil
}
