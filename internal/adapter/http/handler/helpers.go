package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/adapter/http/middleware"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Internal failures
// are reported without their cause.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = "Internal server error"
	}
	writeError(w, status, message, details)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole),
		errors.Is(err, usecase.ErrInactiveUser):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

// actor returns the authenticated caller, or nil when the route is public.
func actor(r *http.Request) *domain.UserProfile {
	user, _ := middleware.GetUserFromContext(r.Context())
	return user
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseFloatQuery parses a float query parameter. ok is false when the
// parameter is missing or malformed.
func parseFloatQuery(r *http.Request, key string) (float64, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
