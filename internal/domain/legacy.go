package domain

import "strings"

// LegacyRole is the older four-role vocabulary that predates the hierarchy.
// It is kept alongside Role because some backend accounts still carry it.
type LegacyRole string

const (
	LegacyAdmin        LegacyRole = "ADMIN"
	LegacyMunicipality LegacyRole = "MUNICIPALITY"
	LegacyNGO          LegacyRole = "NGO"
	LegacyVolunteer    LegacyRole = "VOLUNTEER"
)

// Permission is a legacy permission name.
type Permission string

const (
	PermViewHomeless       Permission = "view_homeless"
	PermCreateHomeless     Permission = "create_homeless"
	PermEditHomeless       Permission = "edit_homeless"
	PermDeleteHomeless     Permission = "delete_homeless"
	PermViewServicePoints  Permission = "view_service_points"
	PermCreateServicePoint Permission = "create_service_point"
	PermEditServicePoint   Permission = "edit_service_point"
	PermDeleteServicePoint Permission = "delete_service_point"
	PermManageUsers        Permission = "manage_users"
	PermViewStats          Permission = "view_stats"
)

// AllPermissions lists the legacy permissions in their canonical order.
var AllPermissions = []Permission{
	PermViewHomeless,
	PermCreateHomeless,
	PermEditHomeless,
	PermDeleteHomeless,
	PermViewServicePoints,
	PermCreateServicePoint,
	PermEditServicePoint,
	PermDeleteServicePoint,
	PermManageUsers,
	PermViewStats,
}

// legacyMatrix is the explicit permission list for every legacy role.
// It is not derived from the hierarchy thresholds.
var legacyMatrix = map[LegacyRole][]Permission{
	LegacyAdmin: AllPermissions,
	LegacyMunicipality: {
		PermViewHomeless,
		PermCreateHomeless,
		PermEditHomeless,
		PermViewServicePoints,
		PermCreateServicePoint,
		PermEditServicePoint,
		PermDeleteServicePoint,
		PermViewStats,
	},
	LegacyNGO: {
		PermViewHomeless,
		PermCreateHomeless,
		PermEditHomeless,
		PermViewServicePoints,
		PermCreateServicePoint,
		PermViewStats,
	},
	LegacyVolunteer: {
		PermViewHomeless,
		PermViewServicePoints,
		PermViewStats,
	},
}

// permissionCapabilities maps each legacy permission name onto the hierarchy capability
// with the same meaning.
var permissionCapabilities = map[Permission]Capability{
	PermViewHomeless:       CapViewHomeless,
	PermCreateHomeless:     CapCreateHomeless,
	PermEditHomeless:       CapEditHomeless,
	PermDeleteHomeless:     CapDeleteHomeless,
	PermViewServicePoints:  CapViewServicePoints,
	PermCreateServicePoint: CapCreateServicePoint,
	PermEditServicePoint:   CapEditServicePoint,
	PermDeleteServicePoint: CapDeleteServicePoint,
	PermManageUsers:        CapManageUsers,
	PermViewStats:          CapViewStats,
}

// Capability returns the hierarchy capability for a legacy permission.
func (p Permission) Capability() (Capability, bool) {
	c, ok := permissionCapabilities[p]
	return c, ok
}

// IsValid checks if the legacy role is known
func (r LegacyRole) IsValid() bool {
	_, ok := legacyMatrix[r]
	return ok
}

// HasPermission consults the legacy matrix. Absent or unknown roles have no permissions.
func HasPermission(role LegacyRole, p Permission) bool {
	for _, granted := range legacyMatrix[role] {
		if granted == p {
			return true
		}
	}
	return false
}

// GetRolePermissions returns the legacy permission list for role, empty when the
// role is absent or unknown. The returned slice is a copy.
func GetRolePermissions(role LegacyRole) []Permission {
	perms := legacyMatrix[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// vocabularyMapping is the explicit bridge between the two role vocabularies.
// Only identical names are mapped. MUNICIPALITY and NGO have no hierarchy
// equivalent and stay unmapped.
var vocabularyMapping = map[LegacyRole]Role{
	LegacyAdmin:     RoleAdmin,
	LegacyVolunteer: RoleVolunteer,
}

// HierarchyRole returns the hierarchy role for a legacy role, if one is defined.
func (r LegacyRole) HierarchyRole() (Role, bool) {
	role, ok := vocabularyMapping[r]
	return role, ok
}

// LegacyRoleFor returns the legacy role for a hierarchy role, if one is defined.
func LegacyRoleFor(role Role) (LegacyRole, bool) {
	for legacy, h := range vocabularyMapping {
		if h == role {
			return legacy, true
		}
	}
	return "", false
}

// Subject is the role a profile carries, tagged with the vocabulary it belongs to.
// Hierarchy roles win when a name exists in both vocabularies.
type Subject struct {
	Role   Role
	Legacy LegacyRole
}

// SubjectFor classifies a raw role name from a user profile.
func SubjectFor(raw string) Subject {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if r := Role(name); r.IsValid() {
		return Subject{Role: r}
	}
	if l := LegacyRole(name); l.IsValid() {
		return Subject{Legacy: l}
	}
	return Subject{}
}

// IsLegacy reports whether the subject only exists in the legacy vocabulary.
func (s Subject) IsLegacy() bool {
	return s.Role == RoleNone && s.Legacy != ""
}

// Can answers a legacy permission check for either vocabulary: hierarchy roles go
// through the capability thresholds, legacy-only roles through the legacy matrix.
func (s Subject) Can(p Permission) bool {
	if s.IsLegacy() {
		return HasPermission(s.Legacy, p)
	}
	c, ok := p.Capability()
	if !ok {
		return false
	}
	return c.Allows(s.Role)
}
