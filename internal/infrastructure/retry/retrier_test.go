package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("flaky")

func fastRetrier(isRetryable func(error) bool, maxRetries int) *Retrier {
	return NewRetrier(isRetryable,
		WithMaxRetries(maxRetries),
		WithIntervals(time.Millisecond, 2*time.Millisecond, time.Second),
	)
}

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	r := fastRetrier(func(err error) bool { return errors.Is(err, errFlaky) }, 2)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errFlaky
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := fastRetrier(func(err error) bool { return errors.Is(err, errFlaky) }, 3)
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(nil, 2)
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		return errFlaky
	})

	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected last error to surface, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierHonorsContext(t *testing.T) {
	r := NewRetrier(nil, WithIntervals(50*time.Millisecond, 100*time.Millisecond, time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Retry(ctx, func() error { return errFlaky })
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestRetrierFailurePolicySeesFailureCount(t *testing.T) {
	var seen []int
	r := NewRetrier(func(error) bool { return false },
		WithMaxRetries(5),
		WithIntervals(time.Millisecond, 2*time.Millisecond, time.Second),
		WithFailurePolicy(func(err error, failures int) bool {
			seen = append(seen, failures)
			return failures < 2
		}),
	)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return errFlaky
	})

	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected last error to surface, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected policy to allow 2 retries, got %d attempts", attempts)
	}
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Fatalf("expected failure counts [0 1 2], got %v", seen)
	}
}
