package client

import (
	"errors"
	"net/http"
	"strings"
	"syscall"

	"github.com/iho/abrazar/internal/domain"
)

// DefaultErrorMessage is shown when nothing more specific is known.
const DefaultErrorMessage = "Ocurrió un error inesperado. Por favor intenta nuevamente"

type friendlyMessage struct {
	match string
	text  string
}

// backendMessages is checked in order; the first exact or case-insensitive
// substring match wins.
var backendMessages = []friendlyMessage{
	{"Invalid credentials", "Email o contraseña incorrectos"},
	{"Invalid token", "Tu sesión ha expirado. Por favor inicia sesión nuevamente"},
	{"Token expired", "Tu sesión ha expirado. Por favor inicia sesión nuevamente"},
	{"Unauthorized", "No tienes permisos para realizar esta acción"},
	{"User already exists", "Ya estás registrado. Intenta iniciar sesión"},
	{"Email already in use", "Este email ya está registrado"},

	{"Validation failed", "Por favor verifica los datos ingresados"},
	{"Invalid email", "El email ingresado no es válido"},
	{"Invalid password", "La contraseña debe tener al menos 6 caracteres"},
	{"Missing required fields", "Datos incompletos. Por favor completa todos los campos"},
	{"Invalid input", "Los datos ingresados no son válidos"},

	{"Internal server error", "Error del servidor. Por favor intenta nuevamente"},
	{"Service unavailable", "Servidor no disponible. Intenta más tarde"},
	{"Bad gateway", "Servidor no disponible. Intenta más tarde"},
	{"Gateway timeout", "El servidor tardó demasiado en responder"},

	{"Network Error", "Sin conexión a Internet. Verifica tu conexión"},
	{"ECONNREFUSED", "No se pudo conectar al servidor"},
	{"timeout", "La solicitud tardó demasiado. Intenta nuevamente"},

	{"Not found", "No se encontró el recurso solicitado"},
	{"Resource not found", "No se encontró el recurso solicitado"},
	{"Already exists", "Este elemento ya existe"},

	{"Forbidden", "No tienes permisos para acceder a este recurso"},
	{"Access denied", "Acceso denegado"},
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Solicitud inválida. Verifica los datos ingresados",
	http.StatusUnauthorized:        "Tu sesión ha expirado. Por favor inicia sesión nuevamente",
	http.StatusForbidden:           "No tienes permisos para realizar esta acción",
	http.StatusNotFound:            "No se encontró el recurso solicitado",
	http.StatusConflict:            "Ya existe un elemento con estos datos",
	http.StatusUnprocessableEntity: "Los datos ingresados no son válidos",
	http.StatusTooManyRequests:     "Demasiadas solicitudes. Por favor espera un momento",
	http.StatusInternalServerError: "Error del servidor. Por favor intenta nuevamente",
	http.StatusBadGateway:          "Servidor no disponible. Intenta más tarde",
	http.StatusServiceUnavailable:  "Servidor no disponible. Intenta más tarde",
	http.StatusGatewayTimeout:      "El servidor tardó demasiado en responder",
}

// Login form messages.
var validationMessages = []struct {
	err  error
	text string
}{
	{domain.ErrEmailRequired, "El email es requerido"},
	{domain.ErrInvalidEmail, "Email inválido"},
	{domain.ErrPasswordTooShort, "La contraseña debe tener al menos 6 caracteres"},
	{domain.ErrPasswordTooLong, "La contraseña es demasiado larga"},
}

func findFriendly(msg string) (string, bool) {
	if msg == "" {
		return "", false
	}
	for _, m := range backendMessages {
		if m.match == msg {
			return m.text, true
		}
	}
	lower := strings.ToLower(msg)
	for _, m := range backendMessages {
		if strings.Contains(lower, strings.ToLower(m.match)) {
			return m.text, true
		}
	}
	return "", false
}

// DisplayMessage turns any error returned by this package into the text shown
// to the user.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if text, ok := findFriendly(apiErr.BackendMessage); ok {
			return text
		}
		if errors.Is(apiErr.Kind, domain.ErrCredentialsInvalid) {
			return "Email o contraseña incorrectos"
		}
		if text, ok := statusMessages[apiErr.Status]; ok {
			return text
		}
		return DefaultErrorMessage
	}

	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			return v.text
		}
	}

	switch {
	case errors.Is(err, domain.ErrRequestTimeout):
		return "La solicitud tardó demasiado. Intenta nuevamente"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "No se pudo conectar al servidor"
	case errors.Is(err, domain.ErrNetworkUnavailable):
		return "Sin conexión a Internet. Verifica tu conexión"
	case errors.Is(err, domain.ErrCredentialsInvalid):
		return "Email o contraseña incorrectos"
	case errors.Is(err, domain.ErrAuthExpired),
		errors.Is(err, domain.ErrRefreshRejected),
		errors.Is(err, domain.ErrRefreshUnavailable):
		return statusMessages[http.StatusUnauthorized]
	}

	msg := err.Error()
	if text, ok := findFriendly(msg); ok {
		return text
	}
	if len(msg) < 100 && !strings.Contains(msg, "\n") {
		return msg
	}
	return DefaultErrorMessage
}

// IsNetworkError reports whether the request never got a response.
func IsNetworkError(err error) bool {
	return errors.Is(err, domain.ErrNetworkUnavailable) || errors.Is(err, domain.ErrRequestTimeout)
}

// IsAuthError reports whether the backend answered 401.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsValidationError reports whether the input was rejected, either by the
// backend (400, 422) or by local form validation.
func IsValidationError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity
	}
	return domain.IsValidationError(err)
}
