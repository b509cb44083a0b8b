package memory

import (
	"context"
	"sync"

	"github.com/iho/abrazar/internal/domain"
)

// KVStore is a map-backed usecase.KeyValueStore. It holds an ephemeral
// session that is lost when the process exits.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStore creates an empty KVStore.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
