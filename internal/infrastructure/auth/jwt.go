package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/iho/abrazar/internal/domain"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Type   TokenType   `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is what the backend issues on login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, accessDuration, refreshDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:       []byte(secretKey),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

// Issue generates a fresh access and refresh token for a user.
func (m *JWTManager) Issue(user *domain.UserProfile) (TokenPair, error) {
	access, err := m.sign(user, TokenAccess, m.accessDuration)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(user, TokenRefresh, m.refreshDuration)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *JWTManager) sign(user *domain.UserProfile, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyAccess verifies an access token and returns its claims.
func (m *JWTManager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TokenAccess)
}

// VerifyRefresh verifies a refresh token and returns its claims.
func (m *JWTManager) VerifyRefresh(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TokenRefresh)
}

func (m *JWTManager) verify(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	// An access token must never be accepted as a refresh token and vice versa.
	if claims.Type != want {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
