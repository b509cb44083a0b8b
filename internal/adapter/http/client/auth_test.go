package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iho/abrazar/internal/domain"
)

func loginHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("failed to decode login body: %v", err)
		}
		if creds.Email != "coordinator@abrazar.dev" || creds.Password != "abrazar123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"user": domain.UserProfile{
				ID: "user-coordinator", Email: creds.Email, Name: "Coordinador", Role: domain.RoleCoordinator,
			},
		}})
	}
}

func TestAuthService_LoginStoresSession(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, loginHandler(t))
	env := newTestEnv(t, mux, func(cfg *Config) {
		cfg.Cache = NewResponseCache(4, time.Minute, nil)
	})
	env.client.Cache().Add("/cases", &Response{Status: http.StatusOK})
	auth := NewAuthService(env.client)
	ctx := context.Background()

	session, err := auth.Login(ctx, Credentials{Email: " coordinator@abrazar.dev ", Password: "abrazar123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.AccessToken != "access-1" || session.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected session %+v", session)
	}

	stored := env.tokens.Session(ctx)
	if !stored.Authenticated() || stored.User.Role != domain.RoleCoordinator {
		t.Fatalf("expected stored session, got %+v", stored)
	}
	if !auth.IsAuthenticated(ctx) {
		t.Fatal("expected authenticated")
	}
	if perms := auth.Permissions(ctx); !perms.CanAssignCases || perms.CanManageUsers {
		t.Fatalf("unexpected permissions %+v", perms)
	}
	if env.sessions.Count(domain.EventLogin) != 1 {
		t.Fatal("expected LOGIN event")
	}
	if env.client.Cache().Len() != 0 {
		t.Fatal("expected login to purge cached responses")
	}
}

func TestAuthService_LoginWithoutProfileDropsPreviousUser(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"token": "new-access"}})
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()
	_ = env.tokens.SaveSession(ctx, &domain.Session{
		AccessToken: "old",
		User:        &domain.UserProfile{ID: "1", Email: "admin@abrazar.org", Role: domain.RoleAdmin},
	})
	auth := NewAuthService(env.client)

	if _, err := auth.Login(ctx, Credentials{Email: "volunteer@abrazar.org", Password: "abrazar123"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.tokens.AccessToken(ctx); got != "new-access" {
		t.Fatalf("expected new access token, got %q", got)
	}
	if user := env.tokens.User(ctx); user != nil {
		t.Fatalf("expected previous profile removed, got %s with role %s", user.Email, user.Role)
	}
	if perms := auth.Permissions(ctx); perms.CanManageUsers || perms.CanViewHomeless {
		t.Fatalf("expected no permissions without a profile, got %+v", perms)
	}
}

func TestAuthService_LoginRejectsInvalidFormWithoutCallingBackend(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	auth := NewAuthService(env.client)

	tests := []struct {
		creds Credentials
		want  error
	}{
		{Credentials{Email: "", Password: "abrazar123"}, domain.ErrEmailRequired},
		{Credentials{Email: "nope", Password: "abrazar123"}, domain.ErrInvalidEmail},
		{Credentials{Email: "a@abrazar.dev", Password: "123"}, domain.ErrPasswordTooShort},
	}
	for _, tt := range tests {
		if _, err := auth.Login(context.Background(), tt.creds); !errors.Is(err, tt.want) {
			t.Fatalf("expected %v, got %v", tt.want, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatal("expected no backend calls for invalid forms")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, loginHandler(t))
	env := newTestEnv(t, mux)
	auth := NewAuthService(env.client)

	_, err := auth.Login(context.Background(), Credentials{Email: "coordinator@abrazar.dev", Password: "incorrecta"})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
	if env.tokens.HasToken(context.Background()) {
		t.Fatal("expected no stored token")
	}
	if env.sessions.Count(domain.EventAuthError) != 1 {
		t.Fatal("expected AUTH_ERROR event")
	}
}

func TestAuthService_LogoutClearsEvenWhenBackendRejects(t *testing.T) {
	t.Parallel()

	var refreshCalls, logoutCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(LogoutPath, func(w http.ResponseWriter, r *http.Request) {
		logoutCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, nil)
	})
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "refresh-1")
	auth := NewAuthService(env.client)

	if err := auth.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logoutCalls.Load() != 1 || refreshCalls.Load() != 0 {
		t.Fatalf("expected one logout call and no refresh, got %d and %d", logoutCalls.Load(), refreshCalls.Load())
	}
	if env.kv.Len() != 0 {
		t.Fatal("expected local session cleared")
	}
	if env.sessions.Count(domain.EventLogout) != 1 {
		t.Fatal("expected LOGOUT event")
	}
}

func TestAuthService_CurrentUserFetchesMissingProfile(t *testing.T) {
	t.Parallel()

	var meCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(MePath, func(w http.ResponseWriter, r *http.Request) {
		meCalls.Add(1)
		protectedHandler("access-1", map[string]any{"data": map[string]any{
			"user": domain.UserProfile{ID: "u9", Role: domain.RoleVolunteer},
		}})(w, r)
	})
	env := newTestEnv(t, mux)
	auth := NewAuthService(env.client)
	ctx := context.Background()

	if user, err := auth.CurrentUser(ctx); err != nil || user != nil {
		t.Fatalf("expected no user without a token, got %+v (%v)", user, err)
	}

	_ = env.tokens.SaveAccessToken(ctx, "access-1")
	user, err := auth.CurrentUser(ctx)
	if err != nil || user == nil || user.ID != "u9" {
		t.Fatalf("expected fetched profile, got %+v (%v)", user, err)
	}
	if _, err := auth.CurrentUser(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meCalls.Load() != 1 {
		t.Fatalf("expected profile to be cached after first fetch, got %d calls", meCalls.Load())
	}
}
