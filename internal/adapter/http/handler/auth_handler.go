package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/adapter/http/dto"
	"github.com/iho/abrazar/internal/adapter/http/middleware"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/auth"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
	"github.com/iho/abrazar/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.UserProfile, error)
	GetUser(ctx context.Context, id string) (*domain.UserProfile, error)
}

// TokenIssuer issues and checks session tokens.
type TokenIssuer interface {
	Issue(user *domain.UserProfile) (auth.TokenPair, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users   UserService
	tokens  TokenIssuer
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService, tokens TokenIssuer, logger zerolog.Logger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		users:   users,
		tokens:  tokens,
		logger:  logger,
		metrics: m,
	}
}

// Login exchanges credentials for an access and refresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.metrics.AuthAttempt("failure")
		if errors.Is(err, usecase.ErrInactiveUser) {
			writeError(w, http.StatusForbidden, "Forbidden", "Account disabled")
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		writeDomainError(w, "Login failed", err)
		return
	}

	pair, err := h.tokens.Issue(user)
	if err != nil {
		h.metrics.AuthAttempt("error")
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue tokens")
		writeError(w, http.StatusInternalServerError, "Login failed", "Internal server error")
		return
	}

	h.metrics.AuthAttempt("success")
	h.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	writeJSON(w, http.StatusOK, dto.Envelope{Data: dto.AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}})
}

// Refresh rotates the refresh token and issues a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		h.metrics.AuthAttempt("refresh_rejected")
		msg := middleware.MessageInvalidToken
		if errors.Is(err, domain.ErrExpiredToken) {
			msg = middleware.MessageTokenExpired
		}
		writeError(w, http.StatusUnauthorized, "Unauthorized", msg)
		return
	}

	// The account may have been disabled since the token was issued.
	user, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.metrics.AuthAttempt("refresh_rejected")
		writeError(w, http.StatusUnauthorized, "Unauthorized", middleware.MessageInvalidToken)
		return
	}

	pair, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue tokens")
		writeError(w, http.StatusInternalServerError, "Refresh failed", "Internal server error")
		return
	}

	h.metrics.AuthAttempt("refreshed")
	writeJSON(w, http.StatusOK, dto.Envelope{Data: dto.RefreshResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}})
}

// Logout acknowledges a logout. Tokens are stateless, so nothing is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := actor(r); user != nil {
		h.logger.Info().Str("user_id", user.ID).Msg("user logged out")
	}
	writeJSON(w, http.StatusOK, dto.Envelope{Message: "Logged out"})
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claimed := actor(r)
	if claimed == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", middleware.MessageInvalidToken)
		return
	}

	user, err := h.users.GetUser(r.Context(), claimed.ID)
	if err != nil {
		writeDomainError(w, "Failed to load user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Keyed("user", user))
}
