package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// Messages the client recognizes on a 401.
const (
	MessageTokenExpired = "Token expired"
	MessageInvalidToken = "Invalid token"
)

// AccessVerifier checks access tokens.
type AccessVerifier interface {
	VerifyAccess(token string) (*auth.Claims, error)
}

// AuthMiddleware rejects requests without a valid access token and puts the
// caller's profile into the request context.
func AuthMiddleware(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized", MessageInvalidToken)
				return
			}

			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				msg := MessageInvalidToken
				if errors.Is(err, domain.ErrExpiredToken) {
					msg = MessageTokenExpired
				}
				writeError(w, http.StatusUnauthorized, "Unauthorized", msg)
				return
			}

			user := &domain.UserProfile{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects callers whose role does not hold c. Legacy-only
// roles are checked against the legacy permission matrix.
func RequireCapability(c domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized", MessageInvalidToken)
				return
			}

			if !Allows(user.Role, c) {
				writeError(w, http.StatusForbidden, "Forbidden", "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Allows reports whether a role from either vocabulary holds c.
func Allows(role domain.Role, c domain.Capability) bool {
	subject := domain.SubjectFor(string(role))
	if !subject.IsLegacy() {
		return c.Allows(subject.Role)
	}
	for _, p := range domain.AllPermissions {
		if pc, ok := p.Capability(); ok && pc == c {
			return subject.Can(p)
		}
	}
	return false
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.UserProfile, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.UserProfile)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Message: details})
}
