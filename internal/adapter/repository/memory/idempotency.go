package memory

import (
	"context"
	"sync"
	"time"
)

const processingPlaceholder = "processing"

type idempotencyEntry struct {
	value     []byte
	expiresAt time.Time
}

// IdempotencyStore implements usecase.IdempotencyStore in process memory.
// Expired entries are dropped lazily on access.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	now     func() time.Time
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		now:     time.Now,
	}
}

// CheckAndSet atomically checks if key exists, sets if not.
func (s *IdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return true, e.value, nil
	}

	value := response
	if value == nil {
		value = []byte(processingPlaceholder)
	}
	s.entries[key] = idempotencyEntry{value: value, expiresAt: now.Add(ttl)}
	return false, nil, nil
}

// Update stores the final response for key.
func (s *IdempotencyStore) Update(_ context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{value: response, expiresAt: s.now().Add(ttl)}
	return nil
}
