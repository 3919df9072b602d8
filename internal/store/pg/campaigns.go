package pg

import (
	"context"
	"fmt"

	"missiondonate.org/internal/donate"
)

const campaignColumns = `id, missionary_id, title, slug, description, goal, raised, status, image_url, start_date, end_date, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (donate.Campaign, error) {
	var c donate.Campaign
	err := row.Scan(
		&c.ID, &c.MissionaryID, &c.Title, &c.Slug, &c.Description,
		&c.Goal, &c.Raised, &c.Status, &c.ImageURL,
		&c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return donate.Campaign{}, mapRowErr(err)
	}
	return c, nil
}

func (s *Store) CreateCampaign(ctx context.Context, c *donate.Campaign) error {
	err := s.db.QueryRowContext(ctx, `
		insert into campaigns(id, missionary_id, title, slug, description, goal, status, image_url, start_date, end_date)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		returning raised, created_at, updated_at
	`, c.ID, c.MissionaryID, c.Title, c.Slug, c.Description, c.Goal, c.Status, c.ImageURL, c.StartDate, c.EndDate).
		Scan(&c.Raised, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: slug already in use", donate.ErrConflict)
	}
	return err
}

func (s *Store) GetCampaign(ctx context.Context, id string) (donate.Campaign, error) {
	return scanCampaign(s.db.QueryRowContext(ctx,
		`select `+campaignColumns+` from campaigns where id=$1`, id))
}

func (s *Store) GetCampaignBySlug(ctx context.Context, slug string) (donate.Campaign, error) {
	return scanCampaign(s.db.QueryRowContext(ctx,
		`select `+campaignColumns+` from campaigns where slug=$1`, slug))
}

func (s *Store) ListCampaigns(ctx context.Context, status string, limit int) ([]donate.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+campaignColumns+`
		from campaigns
		where ($1 = '' or status = $1)
		order by created_at desc
		limit $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []donate.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (s *Store) UpdateCampaign(ctx context.Context, id string, upd donate.CampaignUpdate) (donate.Campaign, error) {
	return scanCampaign(s.db.QueryRowContext(ctx, `
		update campaigns set
			title       = coalesce($2, title),
			description = coalesce($3, description),
			goal        = coalesce($4, goal),
			status      = coalesce($5, status),
			image_url   = coalesce($6, image_url),
			start_date  = coalesce($7, start_date),
			end_date    = coalesce($8, end_date),
			updated_at  = now()
		where id=$1
		returning `+campaignColumns+`
	`, id, upd.Title, upd.Description, upd.Goal, upd.Status, upd.ImageURL, upd.StartDate, upd.EndDate))
}

func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from campaigns where id=$1`, id)
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
