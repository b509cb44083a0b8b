package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/iho/abrazar/internal/domain"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles login, logout and the current identity on top of a
// Client and its token store.
type AuthService struct {
	client *Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

// Login validates the form, exchanges it for a session and stores the
// session. A 401 here means bad credentials and never triggers a refresh.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*domain.Session, error) {
	c := s.client
	creds.Email = strings.TrimSpace(creds.Email)
	if err := domain.ValidateCredentials(creds.Email, creds.Password); err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: LoginPath, Body: creds})
	if err != nil {
		c.sessions.LogAuthError(fmt.Sprintf("login failed for %s: %v", creds.Email, err))
		return nil, err
	}

	var body tokenResponse
	if err := resp.Decode("", &body); err != nil {
		return nil, err
	}
	session := &domain.Session{
		AccessToken:  body.accessToken(),
		RefreshToken: body.RefreshToken,
		User:         body.User,
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no access token", domain.ErrClientError)
	}

	if err := c.tokens.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	c.cache.Purge()
	c.sessions.LogLogin(creds.Email)
	c.logger.Info().Str("email", creds.Email).Msg("logged in")
	return session, nil
}

// Logout tells the backend, then clears the local session regardless of the
// backend's answer.
func (s *AuthService) Logout(ctx context.Context) error {
	c := s.client
	if c.tokens.HasToken(ctx) {
		if _, err := c.Do(ctx, Request{Method: http.MethodPost, Path: LogoutPath, NoRefresh: true}); err != nil {
			c.logger.Debug().Err(err).Msg("backend logout failed")
		}
	}

	err := c.tokens.ClearAll(ctx)
	c.cache.Purge()
	c.sessions.LogLogout()
	return err
}

// CurrentUser returns the stored profile, fetching it from the backend when
// only the token is present.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.UserProfile, error) {
	c := s.client
	if user := c.tokens.User(ctx); user != nil {
		return user, nil
	}
	if !c.tokens.HasToken(ctx) {
		return nil, nil
	}

	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: MePath})
	if err != nil {
		return nil, err
	}
	var user domain.UserProfile
	if err := resp.Decode("user", &user); err != nil {
		return nil, err
	}
	if err := c.tokens.SaveUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// IsAuthenticated reports whether a user profile is stored.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.client.tokens.User(ctx) != nil
}

// Permissions returns the capability snapshot for the stored user.
func (s *AuthService) Permissions(ctx context.Context) domain.Permissions {
	return domain.PermissionsFor(s.client.tokens.Session(ctx).Role())
}
