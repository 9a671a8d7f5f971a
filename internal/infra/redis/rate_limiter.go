// File: internal/infra/redis/rate_limiter.go
package redis

import (
	"context"
	"fmt"
	"time"
)

type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// VoteKey throttles vote toggles per user so a rapid double-click cannot
// stampede the tallies.
func VoteKey(userID, pollID string) string {
	return fmt.Sprintf("rate_limit:vote:%s:%s", userID, pollID)
}

// LoginKey throttles admin password attempts per source address.
func LoginKey(addr string) string {
	return fmt.Sprintf("rate_limit:login:%s", addr)
}
