package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iho/abrazar/internal/domain"
)

// UserRepository is an in-memory account store for the development backend.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// NewUserRepository creates a repository holding users.
func NewUserRepository(users ...*domain.User) *UserRepository {
	r := &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

// Add inserts or replaces a user.
func (r *UserRepository) Add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	u.Email = strings.ToLower(u.Email)
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = u.ID
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by lower-cased email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List returns every user ordered by role rank, then email.
func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := domain.Rank(out[i].Role), domain.Rank(out[j].Role)
		if ri != rj {
			return ri > rj
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

// DevOrganizationID is the organization every seeded account belongs to.
const DevOrganizationID = "org-abrazar"

// DevUsers builds one active account per hierarchy role plus one per
// legacy-only role, all sharing hashedPassword. Emails follow
// "<role>@abrazar.dev" in lower case, e.g. "social_worker@abrazar.dev".
func DevUsers(hashedPassword string) []*domain.User {
	now := time.Now().UTC()
	roles := append(domain.Roles(), domain.Role(domain.LegacyMunicipality), domain.Role(domain.LegacyNGO))

	users := make([]*domain.User, 0, len(roles))
	for _, role := range roles {
		name := strings.ToLower(string(role))
		users = append(users, &domain.User{
			UserProfile: domain.UserProfile{
				ID:             "user-" + strings.ReplaceAll(name, "_", "-"),
				Email:          name + "@abrazar.dev",
				Name:           role.DisplayName(),
				Role:           role,
				OrganizationID: DevOrganizationID,
			},
			HashedPassword: hashedPassword,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return users
}
