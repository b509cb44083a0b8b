package domain

import (
	"errors"
	"fmt"
)

var (
	// Client auth errors
	ErrAuthExpired        = errors.New("authorization expired")
	ErrCredentialsInvalid = errors.New("invalid credentials")
	ErrRefreshUnavailable = errors.New("no refresh token available")
	ErrRefreshRejected    = errors.New("refresh token rejected")

	// Transport errors
	ErrNetworkUnavailable = errors.New("backend unreachable")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServerError        = errors.New("server error")
	ErrClientError        = errors.New("request rejected")

	// Storage errors
	ErrStorage     = errors.New("storage failure")
	ErrKeyNotFound = errors.New("key not found")

	// Role errors
	ErrUnknownRole = errors.New("unknown role")

	// Backend errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
	ErrNotFound         = errors.New("resource not found")
)

// StorageError is returned by the token store when the persistence layer fails.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
