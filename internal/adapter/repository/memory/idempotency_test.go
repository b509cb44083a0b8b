package memory

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStore_LocksThenReplays(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewIdempotencyStore()

	exists, _, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil || exists {
		t.Fatalf("expected first call to take the lock, got exists=%v err=%v", exists, err)
	}

	exists, resp, _ := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if !exists || string(resp) != processingPlaceholder {
		t.Fatalf("expected placeholder, got exists=%v resp=%s", exists, resp)
	}

	if err := store.Update(ctx, "key", []byte(`{"ok":true}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	_, resp, _ = store.CheckAndSet(ctx, "key", nil, time.Minute)
	if string(resp) != `{"ok":true}` {
		t.Fatalf("expected stored response, got %s", resp)
	}
}

func TestIdempotencyStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewIdempotencyStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	_, _, _ = store.CheckAndSet(ctx, "key", []byte("done"), time.Minute)

	now = now.Add(2 * time.Minute)
	exists, _, _ := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if exists {
		t.Fatal("expected expired key to be treated as new")
	}
}
