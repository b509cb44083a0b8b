package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/abrazar/internal/domain"
)

func TestUserRepository_Lookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository(DevUsers("hash")...)

	u, err := repo.GetByEmail(ctx, "COORDINATOR@abrazar.dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleCoordinator || !u.Active || u.HashedPassword != "hash" {
		t.Fatalf("unexpected user %+v", u)
	}

	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil || byID.Email != u.Email {
		t.Fatalf("expected lookup by id to match, got %+v err=%v", byID, err)
	}

	byID.Name = "changed"
	again, _ := repo.GetByID(ctx, u.ID)
	if again.Name == "changed" {
		t.Fatal("expected repository to return copies")
	}

	if _, err := repo.GetByEmail(ctx, "nadie@abrazar.dev"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDevUsers_CoverEveryRole(t *testing.T) {
	t.Parallel()

	users := DevUsers("hash")
	seen := make(map[domain.Role]bool)
	for _, u := range users {
		seen[u.Role] = true
	}
	for _, r := range domain.Roles() {
		if !seen[r] {
			t.Fatalf("missing dev user for %s", r)
		}
	}
	if !seen[domain.Role(domain.LegacyNGO)] || !seen[domain.Role(domain.LegacyMunicipality)] {
		t.Fatal("expected legacy-only dev users")
	}
}

func TestUserRepository_ListOrdersByRank(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(DevUsers("hash")...)
	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 7 {
		t.Fatalf("expected 7 users, got %d", len(users))
	}
	if users[0].Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN first, got %s", users[0].Role)
	}
}
