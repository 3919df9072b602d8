// Package pg implements the platform's persistence on PostgreSQL through
// the database/sql interface with the pgx driver.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/donate"
)

// Store provides the domain store, the ownership lookups used by the
// authorization gate, and the append-only audit sink.
type Store struct {
	db *sql.DB
}

var (
	_ donate.Store         = (*Store)(nil)
	_ authz.OwnershipStore = (*Store)(nil)
	_ audit.Recorder       = (*Store)(nil)
)

// Open connects to PostgreSQL and tunes the pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool; used by tests.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// failure (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return donate.ErrNotFound
	}
	return err
}
