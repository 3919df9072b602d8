package pg

import (
	"context"

	"missiondonate.org/internal/donate"
)

const organizationColumns = `id, owner_id, name, description, website, created_at, updated_at`

func scanOrganization(row interface{ Scan(...any) error }) (donate.Organization, error) {
	var o donate.Organization
	err := row.Scan(&o.ID, &o.OwnerID, &o.Name, &o.Description, &o.Website, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return donate.Organization{}, mapRowErr(err)
	}
	return o, nil
}

func (s *Store) CreateOrganization(ctx context.Context, o *donate.Organization) error {
	return s.db.QueryRowContext(ctx, `
		insert into organizations(id, owner_id, name, description, website)
		values ($1,$2,$3,$4,$5)
		returning created_at, updated_at
	`, o.ID, o.OwnerID, o.Name, o.Description, o.Website).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (s *Store) GetOrganization(ctx context.Context, id string) (donate.Organization, error) {
	return scanOrganization(s.db.QueryRowContext(ctx,
		`select `+organizationColumns+` from organizations where id=$1`, id))
}

func (s *Store) ListOrganizations(ctx context.Context, limit int) ([]donate.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+organizationColumns+` from organizations order by created_at desc limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []donate.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (s *Store) UpdateOrganization(ctx context.Context, id string, upd donate.OrganizationUpdate) (donate.Organization, error) {
	return scanOrganization(s.db.QueryRowContext(ctx, `
		update organizations set
			name        = coalesce($2, name),
			description = coalesce($3, description),
			website     = coalesce($4, website),
			updated_at  = now()
		where id=$1
		returning `+organizationColumns+`
	`, id, upd.Name, upd.Description, upd.Website))
}

func (s *Store) DeleteOrganization(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from organizations where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return donate.ErrNotFound
	}
	return nil
}
