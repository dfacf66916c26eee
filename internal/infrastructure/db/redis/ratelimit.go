package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowLimiter counts hits per key in fixed windows shared by every
// server instance.
// Key format: ratelimit:<name>:<key>
type WindowLimiter struct {
	client *redis.Client
	name   string
	limit  int64
	window time.Duration
}

// NewWindowLimiter allows limit hits per key in each window.
func NewWindowLimiter(client *redis.Client, name string, limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{client: client, name: name, limit: int64(limit), window: window}
}

// Allow records one hit for key and reports whether it is within the limit.
// INCR and EXPIRE NX run in one MULTI block, so a counter never outlives its
// window and a key left without a TTL gets one on the next hit.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	var hits *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		hits = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit hit: %w", err)
	}
	return hits.Val() <= l.limit, nil
}

func (l *WindowLimiter) key(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.name, key)
}
