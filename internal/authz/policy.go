// Package authz implements the role-based access policy evaluator that gates
// every read and write on the platform: a static policy table, an ownership
// check against the relational store, and a combined gate that records
// denials in the audit log.
package authz

import "strings"

// Role is the authorization tier carried by an authenticated session. The
// zero value RoleUnknown never matches any policy; unrecognized role claims
// must map to it rather than to a default role.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleMissionary
	RoleDonor
)

var roleNames = map[Role]string{
	RoleAdmin:      "admin",
	RoleMissionary: "missionary",
	RoleDonor:      "donor",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a role claim to its enumerated value. Anything it does not
// recognize, including the empty string, becomes RoleUnknown.
func ParseRole(raw string) Role {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "admin":
		return RoleAdmin
	case "missionary":
		return RoleMissionary
	case "donor":
		return RoleDonor
	default:
		return RoleUnknown
	}
}

// Resource names a class of persisted entity subject to access control.
type Resource string

const (
	ResourceCampaigns     Resource = "campaigns"
	ResourceDonations     Resource = "donations"
	ResourceOrganizations Resource = "organizations"
	ResourceProfiles      Resource = "profiles"
	ResourceUsers         Resource = "users"
	ResourceAuditLogs     Resource = "audit_logs"
)

// Action is one of the four operations a policy can grant.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Policy grants an action on a resource to a set of roles. Grants are purely
// additive: a role may act if any policy includes it.
type Policy struct {
	Roles    []Role
	Resource Resource
	Action   Action
}

var accessPolicies = []Policy{
	{Roles: []Role{RoleMissionary}, Resource: ResourceCampaigns, Action: ActionCreate},
	{Roles: []Role{RoleMissionary}, Resource: ResourceCampaigns, Action: ActionUpdate},
	{Roles: []Role{RoleMissionary}, Resource: ResourceCampaigns, Action: ActionDelete},
	{Roles: []Role{RoleAdmin, RoleMissionary, RoleDonor}, Resource: ResourceCampaigns, Action: ActionRead},

	{Roles: []Role{RoleDonor}, Resource: ResourceDonations, Action: ActionCreate},
	{Roles: []Role{RoleDonor}, Resource: ResourceDonations, Action: ActionUpdate},
	{Roles: []Role{RoleAdmin, RoleMissionary, RoleDonor}, Resource: ResourceDonations, Action: ActionRead},

	{Roles: []Role{RoleMissionary}, Resource: ResourceOrganizations, Action: ActionCreate},
	{Roles: []Role{RoleMissionary}, Resource: ResourceOrganizations, Action: ActionUpdate},
	{Roles: []Role{RoleAdmin}, Resource: ResourceOrganizations, Action: ActionDelete},
	{Roles: []Role{RoleAdmin, RoleMissionary, RoleDonor}, Resource: ResourceOrganizations, Action: ActionRead},

	{Roles: []Role{RoleAdmin, RoleMissionary, RoleDonor}, Resource: ResourceProfiles, Action: ActionRead},
	{Roles: []Role{RoleAdmin, RoleMissionary, RoleDonor}, Resource: ResourceProfiles, Action: ActionUpdate},

	{Roles: []Role{RoleAdmin}, Resource: ResourceUsers, Action: ActionRead},
	{Roles: []Role{RoleAdmin}, Resource: ResourceUsers, Action: ActionUpdate},
	{Roles: []Role{RoleAdmin}, Resource: ResourceAuditLogs, Action: ActionRead},
}

type grantKey struct {
	resource Resource
	action   Action
}

// grants indexes the policy table by (resource, action) for O(1) lookup.
// Semantically identical to scanning accessPolicies; built once at init and
// never mutated afterwards.
var grants = buildGrants(accessPolicies)

func buildGrants(policies []Policy) map[grantKey]map[Role]struct{} {
	idx := make(map[grantKey]map[Role]struct{}, len(policies))
	for _, p := range policies {
		key := grantKey{resource: p.Resource, action: p.Action}
		set, ok := idx[key]
		if !ok {
			set = make(map[Role]struct{}, len(p.Roles))
			idx[key] = set
		}
		for _, r := range p.Roles {
			set[r] = struct{}{}
		}
	}
	return idx
}

// CanPerform reports whether role may apply action to resource. It is a pure
// lookup over the static table: no grant means deny, and RoleUnknown is
// denied everything.
func CanPerform(role Role, resource Resource, action Action) bool {
	if role == RoleUnknown {
		return false
	}
	set, ok := grants[grantKey{resource: resource, action: action}]
	if !ok {
		return false
	}
	_, allowed := set[role]
	return allowed
}
