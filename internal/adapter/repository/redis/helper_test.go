package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	infraredis "github.com/iho/abrazar/internal/infrastructure/redis"
)

// newTestRedisClient dials miniredis through the same constructor the
// binaries use.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}
	return client, mr
}
