package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidStatus    = errors.New("invalid case status")
	ErrInvalidPriority  = errors.New("invalid case priority")
	ErrInvalidType      = errors.New("invalid service point type")
	ErrInvalidLocation  = errors.New("invalid coordinates")
	ErrRequiredField    = errors.New("required field missing")
)

// Validation constants
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MinNameLength     = 2
	MaxNameLength     = 100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return ErrEmailRequired
	}

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooLong, MaxPasswordLength)
	}

	return nil
}

// ValidateCredentials validates a login form
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateName validates a display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidName, MinNameLength)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(page, limit int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if page <= 0 {
		page = 1
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit
}

// ValidateLocation validates latitude and longitude ranges
func ValidateLocation(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidLocation, lat, lng)
	}
	return nil
}

// IsValidationError reports whether err is one of the validation errors above.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmailRequired, ErrInvalidEmail, ErrPasswordTooShort, ErrPasswordTooLong,
		ErrInvalidName, ErrInvalidStatus, ErrInvalidPriority, ErrInvalidType,
		ErrInvalidLocation, ErrRequiredField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
