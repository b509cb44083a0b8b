package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Retrier implements usecase.Retrier with exponential backoff.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	isRetryable     func(error) bool
	policy          func(err error, failures int) bool
	logger          zerolog.Logger
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithMaxRetries caps the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(r *Retrier) { r.maxRetries = n }
}

// WithIntervals sets the backoff bounds.
func WithIntervals(initial, max, elapsed time.Duration) Option {
	return func(r *Retrier) {
		r.initialInterval = initial
		r.maxInterval = max
		r.maxElapsedTime = elapsed
	}
}

// WithFailurePolicy replaces the isRetryable check with one that also sees
// how many attempts already failed before err (0 on the first failure).
func WithFailurePolicy(policy func(err error, failures int) bool) Option {
	return func(r *Retrier) { r.policy = policy }
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Retrier) { r.logger = logger }
}

// NewRetrier creates a retrier. isRetryable decides which errors are worth
// another attempt; a nil func retries every error.
func NewRetrier(isRetryable func(error) bool, opts ...Option) *Retrier {
	if isRetryable == nil {
		isRetryable = func(error) bool { return true }
	}
	r := &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  5 * time.Second,
		isRetryable:     isRetryable,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retry executes an operation with exponential backoff on retryable errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		retryable := r.isRetryable(err)
		if r.policy != nil {
			retryable = r.policy(err, retryCount)
		}
		if !retryable {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("retryable error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}
