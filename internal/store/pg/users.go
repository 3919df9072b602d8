package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"missiondonate.org/internal/donate"
)

func (s *Store) CreateUser(ctx context.Context, u *donate.User) error {
	err := s.db.QueryRowContext(ctx, `
		insert into users(id, email, password_hash, role, status)
		values ($1,$2,$3,$4,$5)
		returning created_at, updated_at
	`, u.ID, u.Email, u.PasswordHash, u.Role, u.Status).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email already registered", donate.ErrConflict)
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (donate.User, error) {
	var u donate.User
	err := s.db.QueryRowContext(ctx, `
		select id, email, password_hash, role, status, created_at, updated_at
		from users where id=$1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return donate.User{}, mapRowErr(err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (donate.User, error) {
	var u donate.User
	err := s.db.QueryRowContext(ctx, `
		select id, email, password_hash, role, status, created_at, updated_at
		from users where email=$1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return donate.User{}, mapRowErr(err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]donate.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, email, password_hash, role, status, created_at, updated_at
		from users order by created_at desc limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []donate.User
	for rows.Next() {
		var u donate.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserStatus(ctx context.Context, id, status string) (donate.User, error) {
	var u donate.User
	err := s.db.QueryRowContext(ctx, `
		update users set status=$2, updated_at=now()
		where id=$1
		returning id, email, password_hash, role, status, created_at, updated_at
	`, id, status).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return donate.User{}, mapRowErr(err)
	}
	return u, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *donate.Profile) error {
	return s.db.QueryRowContext(ctx, `
		insert into profiles(id, full_name, bio, city, country, avatar_url)
		values ($1,$2,$3,$4,$5,$6)
		returning created_at, updated_at
	`, p.ID, p.FullName, p.Bio, p.City, p.Country, p.AvatarURL).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *Store) GetProfile(ctx context.Context, id string) (donate.Profile, error) {
	var p donate.Profile
	err := s.db.QueryRowContext(ctx, `
		select id, full_name, bio, city, country, avatar_url, created_at, updated_at
		from profiles where id=$1
	`, id).Scan(&p.ID, &p.FullName, &p.Bio, &p.City, &p.Country, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return donate.Profile{}, mapRowErr(err)
	}
	return p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, upd donate.ProfileUpdate) (donate.Profile, error) {
	var p donate.Profile
	err := s.db.QueryRowContext(ctx, `
		update profiles set
			full_name  = coalesce($2, full_name),
			bio        = coalesce($3, bio),
			city       = coalesce($4, city),
			country    = coalesce($5, country),
			avatar_url = coalesce($6, avatar_url),
			updated_at = now()
		where id=$1
		returning id, full_name, bio, city, country, avatar_url, created_at, updated_at
	`, id, upd.FullName, upd.Bio, upd.City, upd.Country, upd.AvatarURL).
		Scan(&p.ID, &p.FullName, &p.Bio, &p.City, &p.Country, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return donate.Profile{}, donate.ErrNotFound
		}
		return donate.Profile{}, err
	}
	return p, nil
}
