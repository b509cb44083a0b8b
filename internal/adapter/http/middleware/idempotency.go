package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	// DefaultIdempotencyTTL is how long a stored response is replayed.
	DefaultIdempotencyTTL = 24 * time.Hour

	processingPlaceholder = "processing"
)

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key so a retried mutation is applied once.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking. Keys are scoped to
// the authenticated user and the request path.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if user, ok := GetUserFromContext(r.Context()); ok {
			key = user.ID + ":" + key
		}
		key = r.Method + " " + r.URL.Path + ":" + key

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, "Internal server error", "idempotency check failed")
			return
		}

		if exists {
			if string(cached) == processingPlaceholder {
				writeError(w, http.StatusConflict, "Conflict", "request already in progress")
				return
			}
			var stored storedResponse
			if json.Unmarshal(cached, &stored) == nil && stored.Status >= 200 && stored.Status < 300 {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Failed attempts are stored too so the key is released for a retry.
		body := recorder.body.Bytes()
		if !json.Valid(body) {
			body = []byte("null")
		}
		payload, _ := json.Marshal(storedResponse{Status: recorder.statusCode, Body: body})
		if err := m.store.Update(r.Context(), key, payload, m.ttl); err != nil {
			m.logger.Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
