package usecase

import "time"

// Token store keys
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserData     = "user_data"
)

const (
	// ClearAllTimeout bounds the whole ClearAll operation including retries
	ClearAllTimeout = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
