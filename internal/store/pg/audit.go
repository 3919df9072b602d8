package pg

import (
	"context"
	"encoding/json"
	"time"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/ids"
)

// Record appends one audit entry. Rows are never updated or deleted by the
// service; retention is handled outside the application.
func (s *Store) Record(ctx context.Context, entry audit.Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into audit_logs(id, actor_id, action, resource, resource_id, details, level, ip_address, user_agent, created_at)
		values ($1, nullif($2,''), $3, $4, nullif($5,''), $6, $7, nullif($8,''), nullif($9,''), $10)
	`, entry.ID, entry.ActorID, entry.Action, entry.Resource, entry.ResourceID,
		details, string(entry.Level), entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	return err
}

// ListAuditLogs returns the newest entries for the admin review screen.
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, coalesce(actor_id,''), action, resource, coalesce(resource_id,''),
		       details, level, coalesce(ip_address,''), coalesce(user_agent,''), created_at
		from audit_logs
		order by created_at desc
		limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var details []byte
		var level string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Resource, &e.ResourceID,
			&details, &level, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Level = audit.Level(level)
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
