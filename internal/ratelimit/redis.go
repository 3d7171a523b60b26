package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ensure Redis implements Limiter
var _ Limiter = (*Redis)(nil)

// Redis is a fixed window limiter shared by every server using the same
// Redis instance.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRedis allows limit attempts per key in each window.
func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

func (r *Redis) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// allowScript counts an attempt and opens the window in one step. A key
// left without an expiry gets one on its next attempt.
var allowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Allow increments key's counter for the current window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	n, err := allowScript.Run(ctx, r.client, []string{r.key(key)}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to count attempt: %w", err)
	}
	return n <= r.limit, nil
}
