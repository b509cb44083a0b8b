package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const processingPlaceholder = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client redis.UniversalClient
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore. Keys are namespaced
// under prefix so the backend can share a Redis with client sessions.
func NewIdempotencyStore(client redis.UniversalClient, prefix string) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: prefix + "idempotency:",
	}
}

// CheckAndSet claims key with SET NX. A nil response claims it with the
// processing placeholder. When the key is already held its value is returned.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	value := response
	if value == nil {
		value = []byte(processingPlaceholder)
	}

	claimed, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		// Expired between the two commands; the holder is still in flight.
		return true, []byte(processingPlaceholder), nil
	case err != nil:
		return false, nil, err
	}
	return true, existing, nil
}

// Update replaces the placeholder with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
