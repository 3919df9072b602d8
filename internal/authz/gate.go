package authz

import (
	"context"
	"fmt"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/obs"
)

// Reason explains a gate decision. Callers map every denial to the same
// user-visible 403; the reason only drives audit severity and metrics.
type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonPolicyDenied    Reason = "policy_denied"
	ReasonOwnershipDenied Reason = "ownership_denied"
	ReasonInternalError   Reason = "internal_error"
)

// Decision is the outcome of one authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// RequestMeta carries client metadata into audit entries. Optional.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	Path      string
}

// Gate combines the policy evaluator with the ownership checker and records
// denials. It holds no mutable state and is safe for concurrent use.
type Gate struct {
	checker  *Checker
	recorder audit.Recorder
}

// NewGate builds a gate. recorder may be nil, in which case denials are not
// audited (used by tests and by read-only tooling).
func NewGate(checker *Checker, recorder audit.Recorder) *Gate {
	return &Gate{checker: checker, recorder: recorder}
}

// Authorize makes the combined decision for an actor acting on a resource.
// Create and read are role-gated only; update and delete on a specific
// instance additionally require ownership unless the role is admin. Any
// unexpected failure during evaluation resolves to deny and is audited at
// error level rather than propagated.
func (g *Gate) Authorize(ctx context.Context, actorID string, role Role, resource Resource, action Action, instanceID string, meta RequestMeta) (decision Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			decision = Decision{Allowed: false, Reason: ReasonInternalError}
			g.audit(ctx, actorID, role, resource, action, instanceID, meta, audit.LevelError, map[string]string{
				"panic": fmt.Sprint(rec),
			})
			obs.ObserveAuthzDecision(string(resource), string(action), string(ReasonInternalError))
		}
	}()

	if !CanPerform(role, resource, action) {
		decision = Decision{Allowed: false, Reason: ReasonPolicyDenied}
		g.audit(ctx, actorID, role, resource, action, instanceID, meta, audit.LevelWarning, nil)
		obs.ObserveAuthzDecision(string(resource), string(action), string(ReasonPolicyDenied))
		return decision
	}

	if requiresOwnership(role, action, instanceID) {
		if !g.checker.IsOwner(ctx, resource, instanceID, actorID) {
			decision = Decision{Allowed: false, Reason: ReasonOwnershipDenied}
			g.audit(ctx, actorID, role, resource, action, instanceID, meta, audit.LevelWarning, nil)
			obs.ObserveAuthzDecision(string(resource), string(action), string(ReasonOwnershipDenied))
			return decision
		}
	}

	obs.ObserveAuthzDecision(string(resource), string(action), string(ReasonAllowed))
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

// requiresOwnership: create has no prior instance and read is intentionally
// broad per the policy table. Admins mutate without owning the row.
func requiresOwnership(role Role, action Action, instanceID string) bool {
	if role == RoleAdmin {
		return false
	}
	if action != ActionUpdate && action != ActionDelete {
		return false
	}
	return instanceID != ""
}

func (g *Gate) audit(ctx context.Context, actorID string, role Role, resource Resource, action Action, instanceID string, meta RequestMeta, level audit.Level, extra map[string]string) {
	if g.recorder == nil {
		return
	}
	details := map[string]string{
		"role":   role.String(),
		"action": string(action),
	}
	if meta.Path != "" {
		details["path"] = meta.Path
	}
	for k, v := range extra {
		details[k] = v
	}
	entry := audit.Entry{
		ActorID:    actorID,
		Action:     "ACCESS_DENIED",
		Resource:   string(resource),
		ResourceID: instanceID,
		Details:    details,
		Level:      level,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}
	if err := g.recorder.Record(ctx, entry); err != nil {
		// Logging failure must not change the decision already made.
		obs.Errorf("audit record failed", err, map[string]any{
			"resource": string(resource),
			"action":   string(action),
		})
	}
}
