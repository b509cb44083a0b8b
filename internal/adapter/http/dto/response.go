package dto

import "github.com/iho/abrazar/internal/domain"

// Envelope wraps every successful response body.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Keyed wraps v as {"data": {"<key>": v}}.
func Keyed(key string, v any) Envelope {
	return Envelope{Data: map[string]any{key: v}}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refreshToken"`
	User         *domain.UserProfile `json:"user"`
}

// RefreshResponse is returned by the refresh endpoint. The refresh token is
// rotated on every call.
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ListMeta describes a page of results.
type ListMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// CaseListResponse is a page of cases.
type CaseListResponse struct {
	Cases []*domain.Case `json:"cases"`
	Meta  ListMeta       `json:"meta"`
}

// NonNil replaces a nil slice with an empty one so lists encode as [].
func NonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
