package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/abrazar/internal/domain"
)

// FakeKeyValueStore is a map-backed KeyValueStore whose methods can be
// overridden per test.
type FakeKeyValueStore struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewFakeKeyValueStore() *FakeKeyValueStore {
	return &FakeKeyValueStore{data: make(map[string]string)}
}

func (f *FakeKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, key)
	}
	return f.RawGet(key)
}

func (f *FakeKeyValueStore) Set(ctx context.Context, key, value string) error {
	if f.SetFunc != nil {
		return f.SetFunc(ctx, key, value)
	}
	f.RawSet(key, value)
	return nil
}

func (f *FakeKeyValueStore) Delete(ctx context.Context, key string) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, key)
	}
	f.RawDelete(key)
	return nil
}

// RawGet reads the backing map, bypassing overrides.
func (f *FakeKeyValueStore) RawGet(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

// RawSet writes the backing map, bypassing overrides.
func (f *FakeKeyValueStore) RawSet(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// RawDelete deletes from the backing map, bypassing overrides.
func (f *FakeKeyValueStore) RawDelete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
}

// Len returns the number of stored keys.
func (f *FakeKeyValueStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

// FakeIDGenerator returns sequential IDs unless GenerateFunc is set.
type FakeIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewFakeIDGenerator() *FakeIDGenerator {
	return &FakeIDGenerator{}
}

func (f *FakeIDGenerator) Generate() string {
	if f.GenerateFunc != nil {
		return f.GenerateFunc()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("mock-id-%d", f.counter)
}

// FakeIdempotencyStore is a map-backed IdempotencyStore.
type FakeIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewFakeIdempotencyStore() *FakeIdempotencyStore {
	return &FakeIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (f *FakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.CheckAndSetFunc != nil {
		return f.CheckAndSetFunc(ctx, key, response, ttl)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		f.data[key] = response
	} else {
		f.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (f *FakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, key, response, ttl)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = response
	return nil
}

func (f *FakeIdempotencyStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

// FakeSessionRecorder records the kinds of events it receives.
type FakeSessionRecorder struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func NewFakeSessionRecorder() *FakeSessionRecorder {
	return &FakeSessionRecorder{}
}

func (f *FakeSessionRecorder) add(kind domain.SessionEventKind, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, domain.SessionEvent{Kind: kind, Timestamp: time.Now(), Detail: detail})
}

func (f *FakeSessionRecorder) LogLogin(email string)         { f.add(domain.EventLogin, email) }
func (f *FakeSessionRecorder) LogLogout()                    { f.add(domain.EventLogout, "") }
func (f *FakeSessionRecorder) LogForcedLogout(reason string) { f.add(domain.EventForcedLogout, reason) }
func (f *FakeSessionRecorder) LogTokenExpired()              { f.add(domain.EventTokenExpired, "") }
func (f *FakeSessionRecorder) LogRefreshSuccess()            { f.add(domain.EventRefreshSuccess, "") }
func (f *FakeSessionRecorder) LogRefreshFailed(reason string) {
	f.add(domain.EventRefreshFailed, reason)
}
func (f *FakeSessionRecorder) LogAuthError(reason string) { f.add(domain.EventAuthError, reason) }

// Count returns how many events of kind were recorded.
func (f *FakeSessionRecorder) Count(kind domain.SessionEventKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Events returns a copy of the recorded events.
func (f *FakeSessionRecorder) Events() []domain.SessionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SessionEvent, len(f.events))
	copy(out, f.events)
	return out
}
