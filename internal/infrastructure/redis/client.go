package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 2 * time.Second

// NewClient creates a Redis client from a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = defaultDialTimeout
	}

	client := redis.NewClient(opts)

	if err := Ping(ctx, client); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// Ping reports whether the server answers. Used by readiness checks.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
