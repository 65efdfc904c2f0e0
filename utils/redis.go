package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedisPool initializes a Redis connection pool.
func OpenRedisPool(dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing redis DSN: %w", err)
	}

	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// Limiter is a fixed-window rate limiter for the credential endpoints.
// A nil *Limiter allows everything, which keeps redis optional.
type Limiter struct {
	Client *redis.Client
	Max    int64
	Window time.Duration
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{Client: client, Max: 10, Window: time.Minute}
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.Client == nil {
		return true, nil
	}

	redisKey := "ratelimit:" + key
	count, err := l.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.Client.Expire(ctx, redisKey, l.Window).Err(); err != nil {
			return false, err
		}
	}

	return count <= l.Max, nil
}
