package domain

import "testing"

func TestCapability_Thresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		check   func(Role) bool
		lowest  Role
		missing Role
	}{
		{"view homeless", CanViewHomeless, RoleVolunteer, RoleNone},
		{"create homeless", CanCreateHomeless, RoleVolunteer, RoleNone},
		{"edit homeless", CanEditHomeless, RoleSocialWorker, RoleVolunteer},
		{"delete homeless", CanDeleteHomeless, RoleOrganizationAdmin, RoleCoordinator},
		{"view cases", CanViewCases, RoleVolunteer, RoleNone},
		{"create cases", CanCreateCases, RoleVolunteer, RoleNone},
		{"edit cases", CanEditCases, RoleSocialWorker, RoleVolunteer},
		{"delete cases", CanDeleteCases, RoleOrganizationAdmin, RoleCoordinator},
		{"assign cases", CanAssignCases, RoleCoordinator, RoleSocialWorker},
		{"view service points", CanViewServicePoints, RoleVolunteer, RoleNone},
		{"create service point", CanCreateServicePoint, RoleOrganizationAdmin, RoleCoordinator},
		{"edit service point", CanEditServicePoint, RoleOrganizationAdmin, RoleCoordinator},
		{"delete service point", CanDeleteServicePoint, RoleOrganizationAdmin, RoleCoordinator},
		{"manage service points", CanManageServicePoints, RoleOrganizationAdmin, RoleCoordinator},
		{"view stats", CanViewStats, RoleVolunteer, RoleNone},
		{"manage users", CanManageUsers, RoleOrganizationAdmin, RoleCoordinator},
		{"manage teams", CanManageTeams, RoleCoordinator, RoleSocialWorker},
		{"manage zones", CanManageZones, RoleOrganizationAdmin, RoleCoordinator},
		{"edit", CanEdit, RoleSocialWorker, RoleVolunteer},
		{"delete", CanDelete, RoleOrganizationAdmin, RoleCoordinator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.lowest) {
				t.Fatalf("expected %s to be allowed", tt.lowest)
			}
			if !tt.check(RoleAdmin) {
				t.Fatal("expected ADMIN to be allowed")
			}
			if tt.check(tt.missing) {
				t.Fatalf("expected %q to be denied", tt.missing)
			}
		})
	}
}

// A role holding a capability implies every higher role holds it too.
func TestCapability_UpwardClosed(t *testing.T) {
	t.Parallel()

	roles := Roles()
	for _, c := range Capabilities() {
		for i, r := range roles {
			if !c.Allows(r) {
				continue
			}
			for _, higher := range roles[i:] {
				if !c.Allows(higher) {
					t.Fatalf("%s allowed for %s but not for %s", c, r, higher)
				}
			}
		}
	}
}

func TestCapability_AbsentRoleDeniedEverything(t *testing.T) {
	t.Parallel()

	p := PermissionsFor(RoleNone)
	if p.CanViewHomeless || p.CanViewCases || p.CanViewStats || p.CanEdit {
		t.Fatalf("absent role must have no capabilities: %+v", p)
	}
}

func TestCapability_Unknown(t *testing.T) {
	t.Parallel()

	c := Capability("launch_rockets")
	if c.IsValid() {
		t.Fatal("expected unknown capability to be invalid")
	}
	if c.Allows(RoleAdmin) {
		t.Fatal("unknown capability must allow nobody")
	}
	if _, ok := c.MinimumRole(); ok {
		t.Fatal("unknown capability has no minimum role")
	}
}

func TestPermissionsFor_Coordinator(t *testing.T) {
	t.Parallel()

	p := PermissionsFor(RoleCoordinator)
	if !p.CanAssignCases || !p.CanManageTeams || !p.CanEdit {
		t.Fatalf("coordinator missing capabilities: %+v", p)
	}
	if p.CanDelete || p.CanManageUsers || p.CanCreateServicePoint {
		t.Fatalf("coordinator has too many capabilities: %+v", p)
	}
	if p.RoleDisplayName != "Coordinador" {
		t.Fatalf("unexpected display name %q", p.RoleDisplayName)
	}
}
