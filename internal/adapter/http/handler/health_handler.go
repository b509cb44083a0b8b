package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	redisClient redis.UniversalClient
}

// NewHealthHandler creates a new HealthHandler. redisClient may be nil when
// the server runs on in-memory stores.
func NewHealthHandler(redisClient redis.UniversalClient) *HealthHandler {
	return &HealthHandler{redisClient: redisClient}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ready", "redis": "disabled"}

	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
			return
		}
		status["redis"] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
