package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/usecase"
	"github.com/iho/abrazar/internal/usecase/mocks"
)

type testEnv struct {
	client   *Client
	tokens   *usecase.TokenStore
	kv       *mocks.FakeKeyValueStore
	sessions *mocks.FakeSessionRecorder
	server   *httptest.Server
}

func newTestEnv(t *testing.T, handler http.Handler, configure ...func(*Config)) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	kv := mocks.NewFakeKeyValueStore()
	tokens := usecase.NewTokenStore(kv, nil, zerolog.Nop(), nil)
	sessions := mocks.NewFakeSessionRecorder()

	cfg := Config{
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
		Tokens:   tokens,
		Sessions: sessions,
		Logger:   zerolog.Nop(),
	}
	for _, fn := range configure {
		fn(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return &testEnv{client: c, tokens: tokens, kv: kv, sessions: sessions, server: srv}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) {
		return h[len(prefix):]
	}
	return ""
}

// refreshHandler answers the refresh endpoint with newToken when the posted
// refresh token matches.
func refreshHandler(wantRefresh, newToken, rotated string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken != wantRefresh {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		resp := map[string]string{"token": newToken}
		if rotated != "" {
			resp["refreshToken"] = rotated
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": resp})
	}
}

// protectedHandler accepts only the given token.
func protectedHandler(token string, payload any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) != token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}
