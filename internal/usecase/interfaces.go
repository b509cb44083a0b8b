package usecase

import (
	"context"
	"time"

	"github.com/iho/abrazar/internal/domain"
)

// KeyValueStore is the persistence capability behind the token store.
// Get returns domain.ErrKeyNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Retrier retries an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// SessionRecorder receives auth lifecycle events for diagnostics.
type SessionRecorder interface {
	LogLogin(email string)
	LogLogout()
	LogForcedLogout(reason string)
	LogTokenExpired()
	LogRefreshSuccess()
	LogRefreshFailed(reason string)
	LogAuthError(reason string)
}

// UserRepository defines data access for backend accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// RecordRepository defines data access for the casework records served by the
// development backend.
type RecordRepository interface {
	ListHomeless(ctx context.Context) ([]*domain.Homeless, error)
	GetHomeless(ctx context.Context, id string) (*domain.Homeless, error)
	SaveHomeless(ctx context.Context, h *domain.Homeless) error
	DeleteHomeless(ctx context.Context, id string) error

	ListCases(ctx context.Context) ([]*domain.Case, error)
	GetCase(ctx context.Context, id string) (*domain.Case, error)
	SaveCase(ctx context.Context, c *domain.Case) error
	DeleteCase(ctx context.Context, id string) error
	AppendCaseHistory(ctx context.Context, caseID string, entry *domain.CaseHistoryEntry) error
	CaseHistory(ctx context.Context, caseID string) ([]*domain.CaseHistoryEntry, error)

	ListServicePoints(ctx context.Context) ([]*domain.ServicePoint, error)
	GetServicePoint(ctx context.Context, id string) (*domain.ServicePoint, error)
	SaveServicePoint(ctx context.Context, sp *domain.ServicePoint) error
	DeleteServicePoint(ctx context.Context, id string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
