package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/retry"
)

func seedSession(t *testing.T, env *testEnv, access, refresh string) {
	t.Helper()
	err := env.tokens.SaveSession(context.Background(), &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &domain.UserProfile{ID: "u1", Email: "ana@abrazar.org", Role: domain.RoleCoordinator},
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{BaseURL: "http://localhost"}); err == nil {
		t.Fatal("expected error without token store")
	}

	env := newTestEnv(t, http.NotFoundHandler())
	if _, err := New(Config{BaseURL: "not a url", Tokens: env.tokens}); err == nil {
		t.Fatal("expected error for invalid base URL")
	}
}

func TestClient_SendsBearerAndIdempotencyKey(t *testing.T) {
	t.Parallel()

	type seen struct{ auth, key, contentType string }
	var mu sync.Mutex
	requests := map[string]seen{}

	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests[r.Method] = seen{
			auth:        r.Header.Get("Authorization"),
			key:         r.Header.Get(IdempotencyKeyHeader),
			contentType: r.Header.Get("Content-Type"),
		}
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	seedSession(t, env, "access-1", "refresh-1")

	ctx := context.Background()
	if _, err := env.client.Get(ctx, "/items", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.client.Post(ctx, "/items", map[string]string{"name": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got := requests[http.MethodGet]; got.auth != "Bearer access-1" || got.key != "" {
		t.Fatalf("unexpected GET headers %+v", got)
	}
	if got := requests[http.MethodPost]; got.auth != "Bearer access-1" || got.key == "" || got.contentType != "application/json" {
		t.Fatalf("unexpected POST headers %+v", got)
	}
}

func TestClient_NoTokenSendsNoAuthorization(t *testing.T) {
	t.Parallel()

	var auth atomic.Value
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, nil)
	}))

	if _, err := env.client.Do(context.Background(), Request{Path: "/health"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := auth.Load().(string); got != "" {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
}

func TestClient_RefreshSuccessRetriesTransparently(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/items", protectedHandler("access-2", map[string]any{"data": map[string]any{"items": []int{1, 2}}}))
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		if r.Header.Get("Authorization") != "" {
			t.Errorf("refresh must not carry a bearer token")
		}
		refreshHandler("refresh-1", "access-2", "refresh-2")(w, r)
	})

	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "refresh-1")
	ctx := context.Background()

	resp, err := env.client.Get(ctx, "/items", nil)
	if err != nil {
		t.Fatalf("expected transparent refresh, got %v", err)
	}
	var items []int
	if err := resp.Decode("items", &items); err != nil || len(items) != 2 {
		t.Fatalf("unexpected body %s (%v)", resp.Body, err)
	}

	if refreshCalls.Load() != 1 {
		t.Fatalf("expected 1 refresh call, got %d", refreshCalls.Load())
	}
	if got := env.tokens.AccessToken(ctx); got != "access-2" {
		t.Fatalf("expected new access token stored, got %q", got)
	}
	if got := env.tokens.RefreshToken(ctx); got != "refresh-2" {
		t.Fatalf("expected rotated refresh token stored, got %q", got)
	}
	if env.sessions.Count(domain.EventTokenExpired) != 1 || env.sessions.Count(domain.EventRefreshSuccess) != 1 {
		t.Fatalf("unexpected session events %+v", env.sessions.Events())
	}
	if env.client.Refreshing() {
		t.Fatal("expected refresh state to return to idle")
	}
}

func TestClient_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	t.Parallel()

	const callers = 10
	var (
		unauthorized atomic.Int32
		refreshCalls atomic.Int32
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) != "access-2" {
			unauthorized.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	})
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		deadline := time.Now().Add(2 * time.Second)
		for unauthorized.Load() < callers && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		refreshHandler("refresh-1", "access-2", "")(w, r)
	})

	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "refresh-1")

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/items"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("expected every caller to succeed, got %v", err)
		}
	}
	if refreshCalls.Load() != 1 {
		t.Fatalf("expected exactly 1 refresh call, got %d", refreshCalls.Load())
	}
	if env.sessions.Count(domain.EventRefreshSuccess) != 1 {
		t.Fatalf("expected one REFRESH_SUCCESS, got %d", env.sessions.Count(domain.EventRefreshSuccess))
	}
}

func TestClient_RefreshRejectedForcesLogout(t *testing.T) {
	t.Parallel()

	const callers = 5
	var (
		refreshCalls atomic.Int32
		logouts      atomic.Int32
		unauthorized atomic.Int32
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		unauthorized.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		deadline := time.Now().Add(2 * time.Second)
		for unauthorized.Load() < callers && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
	})

	env := newTestEnv(t, mux, func(cfg *Config) {
		cfg.OnForcedLogout = func(error) { logouts.Add(1) }
	})
	seedSession(t, env, "access-1", "refresh-1")

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.client.Get(context.Background(), "/items", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Path != "/items" || !errors.Is(err, domain.ErrAuthExpired) {
			t.Fatalf("expected original 401 for /items, got %v", err)
		}
	}
	if refreshCalls.Load() != 1 {
		t.Fatalf("expected exactly 1 refresh call, got %d", refreshCalls.Load())
	}
	if env.kv.Len() != 0 {
		t.Fatalf("expected token store to be cleared, %d keys remain", env.kv.Len())
	}
	if env.sessions.Count(domain.EventForcedLogout) != 1 || env.sessions.Count(domain.EventRefreshFailed) != 1 {
		t.Fatalf("unexpected session events %+v", env.sessions.Events())
	}
	if logouts.Load() != 1 {
		t.Fatalf("expected forced logout hook once, got %d", logouts.Load())
	}
}

func TestClient_MissingRefreshTokenForcesLogout(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/items", protectedHandler("never", nil))
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "")

	_, err := env.client.Get(context.Background(), "/items", nil)
	if !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if refreshCalls.Load() != 0 {
		t.Fatal("expected no refresh call without a refresh token")
	}
	events := env.sessions.Events()
	last := events[len(events)-1]
	if last.Kind != domain.EventForcedLogout || last.Detail != domain.ErrRefreshUnavailable.Error() {
		t.Fatalf("unexpected last event %+v", last)
	}
	if env.tokens.HasToken(context.Background()) {
		t.Fatal("expected session to be cleared")
	}
}

func TestClient_RetriedRequestIsNotRetriedAgain(t *testing.T) {
	t.Parallel()

	var hits, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		refreshHandler("refresh-1", "access-2", "")(w, r)
	})

	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "refresh-1")

	_, err := env.client.Get(context.Background(), "/items", nil)
	if !IsAuthError(err) {
		t.Fatalf("expected final 401, got %v", err)
	}
	if hits.Load() != 2 || refreshCalls.Load() != 1 {
		t.Fatalf("expected 2 hits and 1 refresh, got %d and %d", hits.Load(), refreshCalls.Load())
	}
	if env.sessions.Count(domain.EventAuthError) != 1 {
		t.Fatal("expected AUTH_ERROR after the retried request failed")
	}
	if env.sessions.Count(domain.EventForcedLogout) != 0 {
		t.Fatal("a rejected retry is not a refresh failure")
	}
}

func TestClient_LoginUnauthorizedNeverRefreshes(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "refresh-1")

	_, err := env.client.Do(context.Background(), Request{Method: http.MethodPost, Path: LoginPath, Body: Credentials{}})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
	if refreshCalls.Load() != 0 {
		t.Fatal("login 401 must not refresh")
	}
	if got := DisplayMessage(err); got != "Email o contraseña incorrectos" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestClient_TimeoutIsNotRefreshed(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	env := newTestEnv(t, mux, func(cfg *Config) { cfg.Timeout = 20 * time.Millisecond })
	seedSession(t, env, "access-1", "refresh-1")

	_, err := env.client.Do(context.Background(), Request{Path: "/slow"})
	if !errors.Is(err, domain.ErrRequestTimeout) {
		t.Fatalf("expected ErrRequestTimeout, got %v", err)
	}
	if !IsNetworkError(err) {
		t.Fatal("expected timeout to count as a network error")
	}
	if refreshCalls.Load() != 0 {
		t.Fatal("timeouts must not refresh")
	}
}

func TestClient_CallerCancellationIsReturned(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := env.client.Do(ctx, Request{Path: "/hang"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClient_UnreachableBackend(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.NotFoundHandler())
	env.server.Close()

	_, err := env.client.Do(context.Background(), Request{Path: "/items"})
	if !errors.Is(err, domain.ErrNetworkUnavailable) {
		t.Fatalf("expected ErrNetworkUnavailable, got %v", err)
	}
}

func TestClient_ErrorStatusesBecomeAPIErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  int
		body    map[string]string
		kind    error
		message string
	}{
		{http.StatusInternalServerError, map[string]string{"message": "Internal server error"}, domain.ErrServerError, "Error del servidor. Por favor intenta nuevamente"},
		{http.StatusNotFound, map[string]string{"error": "Not found"}, domain.ErrClientError, "No se encontró el recurso solicitado"},
		{http.StatusConflict, nil, domain.ErrClientError, "Ya existe un elemento con estos datos"},
		{http.StatusTeapot, nil, domain.ErrClientError, DefaultErrorMessage},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))

			_, err := env.client.Do(context.Background(), Request{Path: "/items"})
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Status != tt.status {
				t.Fatalf("expected APIError %d, got %v", tt.status, err)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected kind %v, got %v", tt.kind, apiErr.Kind)
			}
			if got := apiErr.Message(); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
		})
	}
}

func TestClient_IdempotencyKeyStableAcrossRefreshRetry(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var keys []string
	mux := http.NewServeMux()
	mux.HandleFunc("/cases", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get(IdempotencyKeyHeader))
		mu.Unlock()
		protectedHandler("access-2", map[string]string{"id": "c1"})(w, r)
	})
	mux.HandleFunc(RefreshPath, refreshHandler("refresh-1", "access-2", ""))

	env := newTestEnv(t, mux)
	seedSession(t, env, "access-1", "refresh-1")

	if _, err := env.client.Post(context.Background(), "/cases", map[string]string{"description": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 2 || keys[0] == "" || keys[0] != keys[1] {
		t.Fatalf("expected the same key on both attempts, got %v", keys)
	}
}

func TestClient_QueryRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}), func(cfg *Config) {
		cfg.QueryRetrier = retry.NewRetrier(ShouldRetryQuery,
			retry.WithMaxRetries(QueryMaxRetries), retry.WithIntervals(time.Millisecond, time.Millisecond, time.Second))
	})

	if _, err := env.client.Get(context.Background(), "/items", nil); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
}

func TestClient_QueryDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusNotFound, nil)
	}), func(cfg *Config) {
		cfg.QueryRetrier = retry.NewRetrier(ShouldRetryQuery, retry.WithIntervals(time.Millisecond, time.Millisecond, time.Second))
	})

	if _, err := env.client.Get(context.Background(), "/items", nil); !errors.Is(err, domain.ErrClientError) {
		t.Fatalf("expected ErrClientError, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

type flakyTransport struct {
	failures atomic.Int32
	keys     chan string
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.keys <- r.Header.Get(IdempotencyKeyHeader)
	if f.failures.Add(1) == 1 {
		return nil, errors.New("connection reset by peer")
	}
	return http.DefaultTransport.RoundTrip(r)
}

type downTransport struct {
	attempts atomic.Int32
}

func (d *downTransport) RoundTrip(*http.Request) (*http.Response, error) {
	d.attempts.Add(1)
	return nil, errors.New("connection refused")
}

func TestClient_QueryRetriesUnreachableBackendOnce(t *testing.T) {
	t.Parallel()

	transport := &downTransport{}
	env := newTestEnv(t, http.NotFoundHandler(), func(cfg *Config) {
		cfg.HTTPClient = &http.Client{Transport: transport}
		cfg.QueryRetrier = retry.NewRetrier(ShouldRetryQuery,
			retry.WithFailurePolicy(QueryRetryPolicy),
			retry.WithMaxRetries(QueryMaxRetries),
			retry.WithIntervals(time.Millisecond, time.Millisecond, time.Second))
	})

	_, err := env.client.Get(context.Background(), "/items", nil)
	if !errors.Is(err, domain.ErrNetworkUnavailable) {
		t.Fatalf("expected ErrNetworkUnavailable, got %v", err)
	}
	if transport.attempts.Load() != 2 {
		t.Fatalf("expected one retry for an unreachable backend, got %d attempts", transport.attempts.Load())
	}
}

func TestClient_MutationRetriesNetworkFailureWithSameKey(t *testing.T) {
	t.Parallel()

	transport := &flakyTransport{keys: make(chan string, 4)}
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"id": "h1"})
	}), func(cfg *Config) {
		cfg.HTTPClient = &http.Client{Transport: transport}
		cfg.MutationRetrier = retry.NewRetrier(ShouldRetryMutation,
			retry.WithMaxRetries(MutationMaxRetries), retry.WithIntervals(time.Millisecond, time.Millisecond, time.Second))
	})

	if _, err := env.client.Post(context.Background(), "/homeless", map[string]string{"firstName": "Ana"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	close(transport.keys)

	var keys []string
	for k := range transport.keys {
		keys = append(keys, k)
	}
	if len(keys) != 2 || keys[0] != keys[1] {
		t.Fatalf("expected two attempts with one key, got %v", keys)
	}
}

func TestClient_GetUsesCacheAndMutationInvalidates(t *testing.T) {
	t.Parallel()

	var gets atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		writeJSON(w, http.StatusOK, map[string]int{"n": int(gets.Load())})
	}), func(cfg *Config) {
		cfg.Cache = NewResponseCache(16, time.Minute, nil)
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := env.client.Get(ctx, "/cases", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := env.client.Get(ctx, "/statistics/overview", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gets.Load() != 2 {
		t.Fatalf("expected cached reads, got %d backend GETs", gets.Load())
	}

	if _, err := env.client.Patch(ctx, "/cases/42", map[string]string{"status": "CLOSED"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.client.Cache().Len() != 0 {
		t.Fatalf("expected cases and statistics to be invalidated, %d entries left", env.client.Cache().Len())
	}

	if _, err := env.client.Get(ctx, "/cases", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gets.Load() != 3 {
		t.Fatalf("expected a fresh read after the mutation, got %d", gets.Load())
	}
}

func TestClient_ForcedLogoutPurgesCache(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/homeless", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{})
	})
	mux.HandleFunc("/cases", protectedHandler("never", nil))
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, nil)
	})

	env := newTestEnv(t, mux, func(cfg *Config) {
		cfg.Cache = NewResponseCache(16, time.Minute, nil)
	})
	seedSession(t, env, "access-1", "refresh-1")
	ctx := context.Background()

	if _, err := env.client.Get(ctx, "/homeless", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.client.Get(ctx, "/cases", nil); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if env.client.Cache().Len() != 0 {
		t.Fatal("expected forced logout to purge cached responses")
	}
}

func TestResourceRoot(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/cases":             "/cases",
		"/cases/42":          "/cases",
		"/cases/42/assign":   "/cases",
		"service-points/1":   "/service-points",
		"/statistics/zones/": "/statistics",
	}
	for in, want := range tests {
		if got := resourceRoot(in); got != want {
			t.Errorf("resourceRoot(%q) = %q, want %q", in, got, want)
		}
	}
}
