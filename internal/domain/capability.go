package domain

// Capability is a named permission derived from a minimum role in the hierarchy.
type Capability string

const (
	CapViewHomeless   Capability = "view_homeless"
	CapCreateHomeless Capability = "create_homeless"
	CapEditHomeless   Capability = "edit_homeless"
	CapDeleteHomeless Capability = "delete_homeless"

	CapViewCases   Capability = "view_cases"
	CapCreateCases Capability = "create_cases"
	CapEditCases   Capability = "edit_cases"
	CapDeleteCases Capability = "delete_cases"
	CapAssignCases Capability = "assign_cases"

	CapViewServicePoints   Capability = "view_service_points"
	CapCreateServicePoint  Capability = "create_service_point"
	CapEditServicePoint    Capability = "edit_service_point"
	CapDeleteServicePoint  Capability = "delete_service_point"
	CapManageServicePoints Capability = "manage_service_points"

	CapViewStats   Capability = "view_stats"
	CapManageUsers Capability = "manage_users"
	CapManageTeams Capability = "manage_teams"
	CapManageZones Capability = "manage_zones"

	// Generic checks used by shared UI actions
	CapEdit   Capability = "edit"
	CapDelete Capability = "delete"
)

// capabilityThresholds maps every capability to the lowest role that holds it.
var capabilityThresholds = map[Capability]Role{
	CapViewHomeless:   RoleVolunteer,
	CapCreateHomeless: RoleVolunteer,
	CapEditHomeless:   RoleSocialWorker,
	CapDeleteHomeless: RoleOrganizationAdmin,

	CapViewCases:   RoleVolunteer,
	CapCreateCases: RoleVolunteer,
	CapEditCases:   RoleSocialWorker,
	CapDeleteCases: RoleOrganizationAdmin,
	CapAssignCases: RoleCoordinator,

	CapViewServicePoints:   RoleVolunteer,
	CapCreateServicePoint:  RoleOrganizationAdmin,
	CapEditServicePoint:    RoleOrganizationAdmin,
	CapDeleteServicePoint:  RoleOrganizationAdmin,
	CapManageServicePoints: RoleOrganizationAdmin,

	CapViewStats:   RoleVolunteer,
	CapManageUsers: RoleOrganizationAdmin,
	CapManageTeams: RoleCoordinator,
	CapManageZones: RoleOrganizationAdmin,

	CapEdit:   RoleSocialWorker,
	CapDelete: RoleOrganizationAdmin,
}

// MinimumRole returns the lowest role holding the capability.
// ok is false for unknown capabilities.
func (c Capability) MinimumRole() (role Role, ok bool) {
	role, ok = capabilityThresholds[c]
	return role, ok
}

// IsValid checks if the capability is known
func (c Capability) IsValid() bool {
	_, ok := capabilityThresholds[c]
	return ok
}

// Allows reports whether role holds the capability. Unknown capabilities allow nobody.
func (c Capability) Allows(role Role) bool {
	minRole, ok := capabilityThresholds[c]
	if !ok {
		return false
	}
	return HasRole(role, minRole)
}

// Capabilities returns every known capability.
func Capabilities() []Capability {
	out := make([]Capability, 0, len(capabilityThresholds))
	for c := range capabilityThresholds {
		out = append(out, c)
	}
	return out
}

func CanViewHomeless(r Role) bool   { return CapViewHomeless.Allows(r) }
func CanCreateHomeless(r Role) bool { return CapCreateHomeless.Allows(r) }
func CanEditHomeless(r Role) bool   { return CapEditHomeless.Allows(r) }
func CanDeleteHomeless(r Role) bool { return CapDeleteHomeless.Allows(r) }

func CanViewCases(r Role) bool   { return CapViewCases.Allows(r) }
func CanCreateCases(r Role) bool { return CapCreateCases.Allows(r) }
func CanEditCases(r Role) bool   { return CapEditCases.Allows(r) }
func CanDeleteCases(r Role) bool { return CapDeleteCases.Allows(r) }
func CanAssignCases(r Role) bool { return CapAssignCases.Allows(r) }

func CanViewServicePoints(r Role) bool   { return CapViewServicePoints.Allows(r) }
func CanCreateServicePoint(r Role) bool  { return CapCreateServicePoint.Allows(r) }
func CanEditServicePoint(r Role) bool    { return CapEditServicePoint.Allows(r) }
func CanDeleteServicePoint(r Role) bool  { return CapDeleteServicePoint.Allows(r) }
func CanManageServicePoints(r Role) bool { return CapManageServicePoints.Allows(r) }

func CanViewStats(r Role) bool   { return CapViewStats.Allows(r) }
func CanManageUsers(r Role) bool { return CapManageUsers.Allows(r) }
func CanManageTeams(r Role) bool { return CapManageTeams.Allows(r) }
func CanManageZones(r Role) bool { return CapManageZones.Allows(r) }

func CanEdit(r Role) bool   { return CapEdit.Allows(r) }
func CanDelete(r Role) bool { return CapDelete.Allows(r) }

// Permissions is a snapshot of every capability for one role.
type Permissions struct {
	Role            Role      `json:"role"`
	RoleDisplayName string    `json:"roleDisplayName"`
	RoleBadge       RoleBadge `json:"roleBadge"`

	CanEdit        bool `json:"canEdit"`
	CanDelete      bool `json:"canDelete"`
	CanManageTeams bool `json:"canManageTeams"`

	CanViewHomeless   bool `json:"canViewHomeless"`
	CanCreateHomeless bool `json:"canCreateHomeless"`
	CanEditHomeless   bool `json:"canEditHomeless"`
	CanDeleteHomeless bool `json:"canDeleteHomeless"`

	CanViewCases   bool `json:"canViewCases"`
	CanCreateCases bool `json:"canCreateCases"`
	CanEditCases   bool `json:"canEditCases"`
	CanDeleteCases bool `json:"canDeleteCases"`
	CanAssignCases bool `json:"canAssignCases"`

	CanViewServicePoints  bool `json:"canViewServicePoints"`
	CanCreateServicePoint bool `json:"canCreateServicePoint"`
	CanEditServicePoint   bool `json:"canEditServicePoint"`
	CanDeleteServicePoint bool `json:"canDeleteServicePoint"`

	CanViewStats   bool `json:"canViewStats"`
	CanManageUsers bool `json:"canManageUsers"`
}

// PermissionsFor computes the capability snapshot for role.
func PermissionsFor(r Role) Permissions {
	return Permissions{
		Role:            r,
		RoleDisplayName: r.DisplayName(),
		RoleBadge:       r.Badge(),

		CanEdit:        CanEdit(r),
		CanDelete:      CanDelete(r),
		CanManageTeams: CanManageTeams(r),

		CanViewHomeless:   CanViewHomeless(r),
		CanCreateHomeless: CanCreateHomeless(r),
		CanEditHomeless:   CanEditHomeless(r),
		CanDeleteHomeless: CanDeleteHomeless(r),

		CanViewCases:   CanViewCases(r),
		CanCreateCases: CanCreateCases(r),
		CanEditCases:   CanEditCases(r),
		CanDeleteCases: CanDeleteCases(r),
		CanAssignCases: CanAssignCases(r),

		CanViewServicePoints:  CanViewServicePoints(r),
		CanCreateServicePoint: CanCreateServicePoint(r),
		CanEditServicePoint:   CanEditServicePoint(r),
		CanDeleteServicePoint: CanDeleteServicePoint(r),

		CanViewStats:   CanViewStats(r),
		CanManageUsers: CanManageUsers(r),
	}
}
