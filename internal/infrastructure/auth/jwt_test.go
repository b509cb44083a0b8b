package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/auth"
)

func TestJWTManagerIssueAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute, time.Hour)

	user := &domain.UserProfile{
		ID:    "user-123",
		Email: "user@example.com",
		Role:  domain.RoleCoordinator,
	}

	pair, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	claims, err := manager.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected access token to verify, got %v", err)
	}

	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("expected claims to match user, got %+v", claims)
	}

	if _, err := manager.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("expected refresh token to verify, got %v", err)
	}
}

func TestJWTManagerRejectsWrongTokenType(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute, time.Hour)
	pair, err := manager.Issue(&domain.UserProfile{ID: "u1", Role: domain.RoleVolunteer})
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	if _, err := manager.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected refresh token to be rejected as access token, got %v", err)
	}
	if _, err := manager.VerifyRefresh(pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected access token to be rejected as refresh token, got %v", err)
	}
}

func TestJWTManagerIssuesDistinctTokens(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute, time.Hour)
	user := &domain.UserProfile{ID: "u1", Role: domain.RoleVolunteer}

	first, _ := manager.Issue(user)
	second, _ := manager.Issue(user)
	if first.AccessToken == second.AccessToken {
		t.Fatal("expected each issue to produce a distinct access token")
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute, time.Hour)

	expiredClaims := auth.Claims{
		UserID: "expired",
		Email:  "expired@example.com",
		Role:   domain.RoleVolunteer,
		Type:   auth.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := manager.VerifyAccess(expiredToken); err != domain.ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	otherManager := auth.NewJWTManager("other-secret", time.Minute, time.Hour)
	if _, err := otherManager.VerifyAccess(expiredToken); err == nil || err == domain.ErrExpiredToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, err := manager.VerifyAccess("not-a-token"); err == nil {
		t.Fatalf("expected failure for malformed token")
	}
}
