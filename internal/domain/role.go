package domain

import (
	"fmt"
	"strings"
)

// Role represents a user's access level in the role hierarchy.
type Role string

const (
	// RoleVolunteer can view records and register new people and cases
	RoleVolunteer Role = "VOLUNTEER"

	// RoleSocialWorker can additionally edit people and cases
	RoleSocialWorker Role = "SOCIAL_WORKER"

	// RoleCoordinator can additionally assign cases and manage teams
	RoleCoordinator Role = "COORDINATOR"

	// RoleOrganizationAdmin can additionally delete records, manage service points and users
	RoleOrganizationAdmin Role = "ORGANIZATION_ADMIN"

	// RoleAdmin has full access to all operations
	RoleAdmin Role = "ADMIN"

	// RoleNone is the absence of a role (unauthenticated).
	RoleNone Role = ""
)

// RankNone is the rank of an absent or unknown role. It is below every role in the hierarchy.
const RankNone = -1

// roleHierarchy lists roles from lowest to highest. A role's rank is its index.
var roleHierarchy = []Role{
	RoleVolunteer,
	RoleSocialWorker,
	RoleCoordinator,
	RoleOrganizationAdmin,
	RoleAdmin,
}

// Roles returns the hierarchy from lowest to highest.
func Roles() []Role {
	out := make([]Role, len(roleHierarchy))
	copy(out, roleHierarchy)
	return out
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// IsValid checks if the role is part of the hierarchy
func (r Role) IsValid() bool {
	return Rank(r) != RankNone
}

// Rank returns the position of the role in the hierarchy, or RankNone.
func Rank(r Role) int {
	for i, h := range roleHierarchy {
		if h == r {
			return i
		}
	}
	return RankNone
}

// HasRole reports whether userRole is at least requiredRole.
// An absent or unknown user role satisfies nothing, and an unknown
// required role is never satisfied.
func HasRole(userRole, requiredRole Role) bool {
	userRank := Rank(userRole)
	requiredRank := Rank(requiredRole)
	if userRank == RankNone || requiredRank == RankNone {
		return false
	}
	return userRank >= requiredRank
}

// IsAdmin is an exact match on ADMIN, not a hierarchy check.
func IsAdmin(r Role) bool {
	return r == RoleAdmin
}

// DisplayName returns the label shown to users for a role.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleOrganizationAdmin:
		return "Admin de Organización"
	case RoleCoordinator:
		return "Coordinador"
	case RoleSocialWorker:
		return "Trabajador Social"
	case RoleVolunteer:
		return "Voluntario"
	default:
		return "Usuario"
	}
}

// RoleBadge is the compact visual marker used next to a user's name.
type RoleBadge struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Badge returns the badge for a role. Unknown roles get the generic user badge.
func (r Role) Badge() RoleBadge {
	switch r {
	case RoleAdmin:
		return RoleBadge{Icon: "🔑", Label: "Admin", Color: "#e74c3c"}
	case RoleOrganizationAdmin:
		return RoleBadge{Icon: "🏢", Label: "Org Admin", Color: "#9b59b6"}
	case RoleCoordinator:
		return RoleBadge{Icon: "📋", Label: "Coordinador", Color: "#3498db"}
	case RoleSocialWorker:
		return RoleBadge{Icon: "🤝", Label: "Trabajador Social", Color: "#2ecc71"}
	case RoleVolunteer:
		return RoleBadge{Icon: "👤", Label: "Voluntario", Color: "#95a5a6"}
	default:
		return RoleBadge{Icon: "👤", Label: "Usuario", Color: "#7f8c8d"}
	}
}
