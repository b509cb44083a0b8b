package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/abrazar/internal/domain"
)

// ErrInactiveUser is returned when a disabled account tries to log in.
var ErrInactiveUser = errors.New("user account is inactive")

// UserUseCase handles backend account operations
type UserUseCase struct {
	userRepo UserRepository
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

// AuthenticateInput represents authentication input
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials and returns the public profile.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.UserProfile, error) {
	if err := domain.ValidateCredentials(input.Email, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, ErrInactiveUser
	}

	if err := VerifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return user.Profile(), nil
}

// GetUser retrieves an active user's profile by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}
	return user.Profile(), nil
}

// ListUsers lists every account's profile
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*domain.UserProfile, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	return profiles, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
