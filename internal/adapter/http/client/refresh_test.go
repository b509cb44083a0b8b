package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/usecase"
	"github.com/iho/abrazar/internal/usecase/mocks"
)

func newTestRefresher(t *testing.T, refresh func(context.Context) (string, error)) (*refresher, *usecase.TokenStore, *atomic.Int32) {
	t.Helper()

	tokens := usecase.NewTokenStore(mocks.NewFakeKeyValueStore(), nil, zerolog.Nop(), nil)
	var failures atomic.Int32
	r := &refresher{
		tokens:    tokens,
		refresh:   refresh,
		onFailure: func(context.Context, error) { failures.Add(1) },
		timeout:   time.Second,
		sessions:  mocks.NewFakeSessionRecorder(),
		logger:    zerolog.Nop(),
	}
	return r, tokens, &failures
}

func TestRefresher_StaleTokenSkipsRefresh(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	r, tokens, _ := newTestRefresher(t, func(context.Context) (string, error) {
		calls.Add(1)
		return "unexpected", nil
	})
	_ = tokens.SaveAccessToken(context.Background(), "access-2")

	got, err := r.acquire(context.Background(), "access-1")
	if err != nil || got != "access-2" {
		t.Fatalf("expected current token, got %q (%v)", got, err)
	}
	if calls.Load() != 0 {
		t.Fatal("expected no refresh for a stale token")
	}
}

func TestRefresher_WaitersGetTheSameOutcome(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	r, _, failures := newTestRefresher(t, func(context.Context) (string, error) {
		<-release
		return "", errors.New("rejected")
	})

	triggerErr := make(chan error, 1)
	go func() {
		_, err := r.acquire(context.Background(), "")
		triggerErr <- err
	}()
	waitFor(t, r.inFlight)

	waiterErrs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		go func() {
			_, err := r.acquire(context.Background(), "")
			waiterErrs <- err
		}()
	}
	waitFor(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.waiters) == 3
	})
	close(release)

	if err := <-triggerErr; err == nil {
		t.Fatal("expected trigger to fail")
	}
	for i := 0; i < 3; i++ {
		if err := <-waiterErrs; err == nil || err.Error() != "rejected" {
			t.Fatalf("expected waiter to share the refresh error, got %v", err)
		}
	}
	if failures.Load() != 1 {
		t.Fatalf("expected one failure handler call, got %d", failures.Load())
	}
	if r.inFlight() {
		t.Fatal("expected idle state after refresh")
	}
}

func TestRefresher_AbandonedWaiterDoesNotBlockRelease(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	r, _, _ := newTestRefresher(t, func(context.Context) (string, error) {
		<-release
		return "access-2", nil
	})

	done := make(chan string, 1)
	go func() {
		token, _ := r.acquire(context.Background(), "")
		done <- token
	}()
	waitFor(t, r.inFlight)

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := make(chan error, 1)
	go func() {
		_, err := r.acquire(ctx, "")
		abandoned <- err
	}()
	waitFor(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.waiters) == 1
	})
	cancel()
	if err := <-abandoned; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(release)
	select {
	case token := <-done:
		if token != "access-2" {
			t.Fatalf("unexpected token %q", token)
		}
	case <-time.After(time.Second):
		t.Fatal("refresh did not complete")
	}
}

func TestRefresher_TriggerCancellationDoesNotCancelRefresh(t *testing.T) {
	t.Parallel()

	var sawCanceled atomic.Bool
	r, _, _ := newTestRefresher(t, func(ctx context.Context) (string, error) {
		time.Sleep(20 * time.Millisecond)
		sawCanceled.Store(ctx.Err() != nil)
		return "access-2", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	token, err := r.acquire(ctx, "")
	if err != nil || token != "access-2" {
		t.Fatalf("expected refresh to complete, got %q (%v)", token, err)
	}
	if sawCanceled.Load() {
		t.Fatal("refresh context must be detached from the trigger")
	}
}

func TestRefreshState_String(t *testing.T) {
	t.Parallel()

	if stateIdle.String() != "IDLE" || stateRefreshing.String() != "REFRESHING" {
		t.Fatal("unexpected state names")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
