package pg

import (
	"context"
	"database/sql"
	"errors"

	"missiondonate.org/internal/authz"
)

// ownerQueries maps each ownable resource to its point lookup. The evaluator
// reads this relation but never writes it.
var ownerQueries = map[authz.Resource]string{
	authz.ResourceCampaigns:     `select missionary_id from campaigns where id=$1`,
	authz.ResourceDonations:     `select donor_id from donations where id=$1`,
	authz.ResourceOrganizations: `select owner_id from organizations where id=$1`,
}

// OwnerOf returns the owning user id for a resource instance. Missing rows
// and resource types without an owner column yield authz.ErrNoOwner.
func (s *Store) OwnerOf(ctx context.Context, resource authz.Resource, id string) (string, error) {
	query, ok := ownerQueries[resource]
	if !ok {
		return "", authz.ErrNoOwner
	}
	var owner string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", authz.ErrNoOwner
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}
