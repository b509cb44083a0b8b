package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/iho/abrazar/internal/domain"
)

// KVStore implements usecase.KeyValueStore using Redis. Session keys carry no
// TTL; the token store owns their lifetime.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKVStore creates a new KVStore. Every key is stored under prefix.
func NewKVStore(client redis.UniversalClient, prefix string) *KVStore {
	return &KVStore{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a value by key.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	return val, err
}

// Set stores a value without expiry.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
