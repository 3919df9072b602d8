package pg

import (
	"context"
	"database/sql"
	"fmt"

	"missiondonate.org/internal/donate"
)

const donationColumns = `id, campaign_id, donor_id, amount, status, donor_email, message, created_at, updated_at`

func scanDonation(row interface{ Scan(...any) error }) (donate.Donation, error) {
	var d donate.Donation
	err := row.Scan(
		&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.Status,
		&d.DonorEmail, &d.Message, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return donate.Donation{}, mapRowErr(err)
	}
	return d, nil
}

func (s *Store) CreateDonation(ctx context.Context, d *donate.Donation) error {
	return s.db.QueryRowContext(ctx, `
		insert into donations(id, campaign_id, donor_id, amount, status, donor_email, message)
		values ($1,$2,$3,$4,$5,$6,$7)
		returning created_at, updated_at
	`, d.ID, d.CampaignID, d.DonorID, d.Amount, d.Status, d.DonorEmail, d.Message).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (s *Store) GetDonation(ctx context.Context, id string) (donate.Donation, error) {
	return scanDonation(s.db.QueryRowContext(ctx,
		`select `+donationColumns+` from donations where id=$1`, id))
}

func (s *Store) ListDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]donate.Donation, error) {
	return s.listDonations(ctx, `campaign_id`, campaignID, limit)
}

func (s *Store) ListDonationsByDonor(ctx context.Context, donorID string, limit int) ([]donate.Donation, error) {
	return s.listDonations(ctx, `donor_id`, donorID, limit)
}

func (s *Store) listDonations(ctx context.Context, column, value string, limit int) ([]donate.Donation, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+donationColumns+`
		from donations
		where `+column+` = $1
		order by created_at desc
		limit $2
	`, value, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []donate.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// SettleDonation transitions a donation to completed or refunded and adjusts
// the campaign's raised amount in one serializable transaction. Completing
// requires a pending donation; refunding requires a completed one.
func (s *Store) SettleDonation(ctx context.Context, id, status string) (donate.Donation, error) {
	var fromStatus string
	var delta int64
	switch status {
	case donate.DonationCompleted:
		fromStatus, delta = donate.DonationPending, 1
	case donate.DonationRefunded:
		fromStatus, delta = donate.DonationCompleted, -1
	default:
		return donate.Donation{}, fmt.Errorf("%w: cannot settle to status %s", donate.ErrInvalidInput, status)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return donate.Donation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	d, err := scanDonation(tx.QueryRowContext(ctx,
		`select `+donationColumns+` from donations where id=$1 for update`, id))
	if err != nil {
		return donate.Donation{}, err
	}
	if d.Status != fromStatus {
		return donate.Donation{}, fmt.Errorf("%w: donation is %s, not %s", donate.ErrConflict, d.Status, fromStatus)
	}

	if _, err := tx.ExecContext(ctx, `
		update donations set status=$2, updated_at=now() where id=$1
	`, id, status); err != nil {
		return donate.Donation{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		update campaigns set raised = raised + $2, updated_at=now() where id=$1
	`, d.CampaignID, delta*d.Amount); err != nil {
		return donate.Donation{}, err
	}

	if err := tx.Commit(); err != nil {
		return donate.Donation{}, err
	}
	d.Status = status
	return d, nil
}

// DonorStats aggregates giving for one donor. Pending and refunded gifts
// count toward the donation count but not the total.
func (s *Store) DonorStats(ctx context.Context, donorID string) (donate.DonorStats, error) {
	var st donate.DonorStats
	err := s.db.QueryRowContext(ctx, `
		select coalesce(sum(amount) filter (where status = 'completed'), 0),
		       count(*),
		       count(distinct campaign_id)
		from donations where donor_id = $1
	`, donorID).Scan(&st.TotalDonated, &st.DonationCount, &st.CampaignsSupported)
	if err != nil {
		return donate.DonorStats{}, err
	}
	return st, nil
}
