package authz

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":      RoleAdmin,
		" Admin ":    RoleAdmin,
		"missionary": RoleMissionary,
		"DONOR":      RoleDonor,
		"":           RoleUnknown,
		"superuser":  RoleUnknown,
		"user":       RoleUnknown,
	}
	for raw, expected := range cases {
		if got := ParseRole(raw); got != expected {
			t.Fatalf("ParseRole(%q)=%v, want %v", raw, got, expected)
		}
	}
}

func TestCanPerformGrantedPolicies(t *testing.T) {
	cases := []struct {
		role     Role
		resource Resource
		action   Action
		allowed  bool
	}{
		{RoleMissionary, ResourceCampaigns, ActionCreate, true},
		{RoleMissionary, ResourceCampaigns, ActionUpdate, true},
		{RoleMissionary, ResourceCampaigns, ActionDelete, true},
		{RoleAdmin, ResourceCampaigns, ActionRead, true},
		{RoleDonor, ResourceCampaigns, ActionRead, true},
		{RoleDonor, ResourceCampaigns, ActionCreate, false},
		{RoleAdmin, ResourceCampaigns, ActionCreate, false},
		{RoleDonor, ResourceDonations, ActionCreate, true},
		{RoleDonor, ResourceDonations, ActionUpdate, true},
		{RoleMissionary, ResourceDonations, ActionCreate, false},
		{RoleMissionary, ResourceDonations, ActionRead, true},
		{RoleMissionary, ResourceOrganizations, ActionCreate, true},
		{RoleAdmin, ResourceOrganizations, ActionDelete, true},
		{RoleMissionary, ResourceOrganizations, ActionDelete, false},
		{RoleDonor, ResourceProfiles, ActionUpdate, true},
		{RoleAdmin, ResourceUsers, ActionRead, true},
		{RoleAdmin, ResourceUsers, ActionUpdate, true},
		{RoleMissionary, ResourceUsers, ActionRead, false},
		{RoleAdmin, ResourceAuditLogs, ActionRead, true},
		{RoleDonor, ResourceAuditLogs, ActionRead, false},
	}
	for _, tc := range cases {
		if got := CanPerform(tc.role, tc.resource, tc.action); got != tc.allowed {
			t.Fatalf("CanPerform(%v,%s,%s)=%v, want %v", tc.role, tc.resource, tc.action, got, tc.allowed)
		}
	}
}

func TestCanPerformFailsClosed(t *testing.T) {
	// Unknown role never matches, whatever the grant.
	if CanPerform(RoleUnknown, ResourceCampaigns, ActionRead) {
		t.Fatal("unknown role must be denied")
	}
	// A pair with no policy at all denies every role.
	for _, role := range []Role{RoleAdmin, RoleMissionary, RoleDonor, RoleUnknown} {
		if CanPerform(role, ResourceUsers, ActionDelete) {
			t.Fatalf("role %v allowed on grant-less pair", role)
		}
		if CanPerform(role, ResourceAuditLogs, ActionCreate) {
			t.Fatalf("role %v allowed to create audit logs", role)
		}
		if CanPerform(role, Resource("projects"), ActionRead) {
			t.Fatalf("role %v allowed on unknown resource", role)
		}
	}
}

func TestCanPerformIsIdempotent(t *testing.T) {
	first := CanPerform(RoleDonor, ResourceDonations, ActionCreate)
	for i := 0; i < 100; i++ {
		if got := CanPerform(RoleDonor, ResourceDonations, ActionCreate); got != first {
			t.Fatalf("result changed on call %d", i)
		}
	}
}
