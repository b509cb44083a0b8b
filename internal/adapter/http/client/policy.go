package client

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/retry"
)

// Retry bounds for read and write helpers.
const (
	QueryMaxRetries        = 3
	QueryNetworkMaxRetries = 1
	MutationMaxRetries     = 1

	retryInitialInterval = time.Second
	retryMaxInterval     = 30 * time.Second
	retryMaxElapsed      = 2 * time.Minute
)

// ShouldRetryQuery reports whether a failed read is worth another attempt:
// server errors, 408 and timeouts. Other 4xx responses are final. Unreachable
// backends are left to QueryRetryPolicy, which bounds them separately.
func ShouldRetryQuery(err error) bool {
	if errors.Is(err, domain.ErrRequestTimeout) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError || apiErr.Status == http.StatusRequestTimeout
	}
	return false
}

// QueryRetryPolicy is ShouldRetryQuery plus a single retry for a backend that
// could not be reached. failures counts the attempts that failed before err.
func QueryRetryPolicy(err error, failures int) bool {
	if errors.Is(err, domain.ErrNetworkUnavailable) {
		return failures < QueryNetworkMaxRetries
	}
	return ShouldRetryQuery(err)
}

// ShouldRetryMutation retries a write only when it never reached the backend.
func ShouldRetryMutation(err error) bool {
	return errors.Is(err, domain.ErrNetworkUnavailable)
}

// NewQueryRetrier returns the retrier used for GET helpers.
func NewQueryRetrier(logger zerolog.Logger) *retry.Retrier {
	return retry.NewRetrier(ShouldRetryQuery,
		retry.WithFailurePolicy(QueryRetryPolicy),
		retry.WithMaxRetries(QueryMaxRetries),
		retry.WithIntervals(retryInitialInterval, retryMaxInterval, retryMaxElapsed),
		retry.WithLogger(logger),
	)
}

// NewMutationRetrier returns the retrier used for mutating helpers.
func NewMutationRetrier(logger zerolog.Logger) *retry.Retrier {
	return retry.NewRetrier(ShouldRetryMutation,
		retry.WithMaxRetries(MutationMaxRetries),
		retry.WithIntervals(retryInitialInterval, retryInitialInterval, retryMaxElapsed),
		retry.WithLogger(logger),
	)
}
