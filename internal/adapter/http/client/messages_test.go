package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iho/abrazar/internal/domain"
)

func TestDisplayMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"backend exact", newAPIError("GET", "/x", 400, []byte(`{"message":"Validation failed"}`), false), "Por favor verifica los datos ingresados"},
		{"backend substring", newAPIError("GET", "/x", 400, []byte(`{"message":"field: invalid EMAIL supplied"}`), false), "El email ingresado no es válido"},
		{"status table", newAPIError("GET", "/x", http.StatusTooManyRequests, nil, false), "Demasiadas solicitudes. Por favor espera un momento"},
		{"login 401", newAPIError("POST", LoginPath, 401, nil, true), "Email o contraseña incorrectos"},
		{"session 401", newAPIError("GET", "/x", 401, nil, false), "Tu sesión ha expirado. Por favor inicia sesión nuevamente"},
		{"unknown status", newAPIError("GET", "/x", 418, nil, false), DefaultErrorMessage},
		{"email required", domain.ErrEmailRequired, "El email es requerido"},
		{"password short", fmt.Errorf("%w: must be at least 6 characters", domain.ErrPasswordTooShort), "La contraseña debe tener al menos 6 caracteres"},
		{"timeout", fmt.Errorf("%w: GET /x", domain.ErrRequestTimeout), "La solicitud tardó demasiado. Intenta nuevamente"},
		{"refused", fmt.Errorf("%w: dial: %w", domain.ErrNetworkUnavailable, syscall.ECONNREFUSED), "No se pudo conectar al servidor"},
		{"offline", fmt.Errorf("%w: no route", domain.ErrNetworkUnavailable), "Sin conexión a Internet. Verifica tu conexión"},
		{"refresh rejected", domain.ErrRefreshRejected, "Tu sesión ha expirado. Por favor inicia sesión nuevamente"},
		{"short plain error", errors.New("algo salió mal"), "algo salió mal"},
		{"long plain error", errors.New(strings.Repeat("x", 120)), DefaultErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}

func TestExtractBackendMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "boom", extractBackendMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "bad field", extractBackendMessage([]byte(`{"detail":"bad field"}`)))
	assert.Equal(t, "a, b", extractBackendMessage([]byte(`{"errors":["a",{"message":"b"}]}`)))
	assert.Empty(t, extractBackendMessage([]byte(`not json`)))
	assert.Empty(t, extractBackendMessage(nil))
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	unauthorized := newAPIError("GET", "/x", 401, nil, false)
	unprocessable := newAPIError("POST", "/x", 422, nil, false)

	assert.True(t, IsAuthError(unauthorized))
	assert.False(t, IsAuthError(unprocessable))
	assert.True(t, IsValidationError(unprocessable))
	assert.True(t, IsValidationError(domain.ErrInvalidEmail))
	assert.False(t, IsValidationError(unauthorized))
	assert.True(t, IsNetworkError(fmt.Errorf("%w: x", domain.ErrNetworkUnavailable)))
	assert.False(t, IsNetworkError(unauthorized))
	assert.ErrorIs(t, unauthorized, domain.ErrAuthExpired)
	assert.Contains(t, unauthorized.Error(), "GET /x: 401")
}

func TestRetryPolicies(t *testing.T) {
	t.Parallel()

	assert.True(t, ShouldRetryQuery(newAPIError("GET", "/x", 503, nil, false)))
	assert.True(t, ShouldRetryQuery(newAPIError("GET", "/x", 408, nil, false)))
	assert.True(t, ShouldRetryQuery(fmt.Errorf("%w: x", domain.ErrRequestTimeout)))
	assert.False(t, ShouldRetryQuery(newAPIError("GET", "/x", 404, nil, false)))
	assert.False(t, ShouldRetryQuery(fmt.Errorf("%w: x", domain.ErrNetworkUnavailable)))

	offline := fmt.Errorf("%w: x", domain.ErrNetworkUnavailable)
	assert.True(t, QueryRetryPolicy(offline, 0))
	assert.False(t, QueryRetryPolicy(offline, 1))
	assert.True(t, QueryRetryPolicy(newAPIError("GET", "/x", 503, nil, false), 2))
	assert.False(t, QueryRetryPolicy(newAPIError("GET", "/x", 404, nil, false), 0))

	assert.True(t, ShouldRetryMutation(fmt.Errorf("%w: x", domain.ErrNetworkUnavailable)))
	assert.False(t, ShouldRetryMutation(fmt.Errorf("%w: x", domain.ErrRequestTimeout)))
	assert.False(t, ShouldRetryMutation(newAPIError("POST", "/x", 500, nil, false)))
}
