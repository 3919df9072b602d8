package authz

import (
	"context"
	"errors"
	"strings"

	"missiondonate.org/internal/obs"
)

// ErrNoOwner is returned by OwnershipStore implementations when the row does
// not exist or the resource type carries no owner column.
var ErrNoOwner = errors.New("authz: no owner")

// OwnershipStore resolves the owning identity of a resource instance via a
// point lookup against the relational store.
type OwnershipStore interface {
	OwnerOf(ctx context.Context, resource Resource, id string) (string, error)
}

// ownedResources maps each ownable resource type to truth; anything absent
// is denied ownership unconditionally, before any store query.
var ownedResources = map[Resource]struct{}{
	ResourceCampaigns:     {},
	ResourceDonations:     {},
	ResourceOrganizations: {},
}

// Checker answers per-instance ownership questions. Every failure mode
// resolves to "not owned": an authorization check must never crash the
// request pipeline.
type Checker struct {
	store OwnershipStore
}

// NewChecker wraps the given store.
func NewChecker(store OwnershipStore) *Checker {
	return &Checker{store: store}
}

// IsOwner reports whether actorID owns the given resource instance. Missing
// rows, unrecognized resource types, blank ids and store errors all yield
// false; store errors are additionally reported to local diagnostics.
func (c *Checker) IsOwner(ctx context.Context, resource Resource, id, actorID string) bool {
	id = strings.TrimSpace(id)
	actorID = strings.TrimSpace(actorID)
	if id == "" || actorID == "" {
		return false
	}
	if _, ok := ownedResources[resource]; !ok {
		return false
	}
	if c == nil || c.store == nil {
		return false
	}
	owner, err := c.store.OwnerOf(ctx, resource, id)
	if err != nil {
		if !errors.Is(err, ErrNoOwner) {
			obs.Errorf("ownership lookup failed", err, map[string]any{
				"resource": string(resource),
				"id":       id,
			})
		}
		return false
	}
	return owner != "" && owner == actorID
}
