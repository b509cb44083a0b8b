package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/iho/abrazar/internal/domain"
)

// APIError is a non-2xx response from the backend. Kind is one of
// domain.ErrAuthExpired, domain.ErrCredentialsInvalid, domain.ErrServerError or
// domain.ErrClientError, so callers can branch with errors.Is.
type APIError struct {
	Status         int
	Kind           error
	Method         string
	Path           string
	BackendMessage string
	Body           []byte
}

func (e *APIError) Error() string {
	msg := e.BackendMessage
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// Message is the user-facing text for the error.
func (e *APIError) Message() string {
	return DisplayMessage(e)
}

func newAPIError(method, path string, status int, body []byte, login bool) *APIError {
	return &APIError{
		Status:         status,
		Kind:           kindFor(status, login),
		Method:         method,
		Path:           path,
		BackendMessage: extractBackendMessage(body),
		Body:           body,
	}
}

func kindFor(status int, login bool) error {
	switch {
	case status == http.StatusUnauthorized && login:
		return domain.ErrCredentialsInvalid
	case status == http.StatusUnauthorized:
		return domain.ErrAuthExpired
	case status >= http.StatusInternalServerError:
		return domain.ErrServerError
	default:
		return domain.ErrClientError
	}
}

// extractBackendMessage pulls a message out of the common error body shapes:
// message, error, detail or details as strings, or an errors array.
func extractBackendMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}

	for _, key := range []string{"message", "error", "detail", "details"} {
		var s string
		if raw, ok := payload[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}

	var list []json.RawMessage
	if raw, ok := payload["errors"]; ok && json.Unmarshal(raw, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			var s string
			if json.Unmarshal(item, &s) == nil {
				parts = append(parts, s)
				continue
			}
			var obj struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(item, &obj) == nil && obj.Message != "" {
				parts = append(parts, obj.Message)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
