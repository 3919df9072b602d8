package migrate

import (
	"context"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestUpAppliesPendingInOrder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	files := fstest.MapFS{
		"0002_second.up.sql": {Data: []byte("create table b (id text);\n")},
		"0001_first.up.sql":  {Data: []byte("create table a (id text);\n")},
	}
	m := NewManager(db, WithFS(files))

	mock.ExpectExec(`create table if not exists schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`select name from schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_first.up.sql"))

	// Only the second file is pending.
	mock.ExpectBegin()
	mock.ExpectExec(`create table b`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec(`insert into schema_migrations`).
		WithArgs("0002_second.up.sql", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := m.Up(context.Background()); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSplitStatementsKeepsDollarQuotedBodies(t *testing.T) {
	script := "create function f() returns trigger as $$\nbegin\n  return new;\nend;\n$$ language plpgsql;\ncreate table t (id text);\n"
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("statements = %d, want 2: %q", len(stmts), stmts)
	}
}

func TestEmbeddedMigrationsPairUpAndDown(t *testing.T) {
	m := NewManager(nil)
	ups, err := m.collect(".up.sql")
	if err != nil {
		t.Fatal(err)
	}
	downs, err := m.collect(".down.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(ups) == 0 {
		t.Fatal("no embedded migrations")
	}
	if len(ups) != len(downs) {
		t.Fatalf("ups = %d, downs = %d", len(ups), len(downs))
	}
	for i, up := range ups {
		want := up[:len(up)-len(".up.sql")] + ".down.sql"
		if downs[i] != want {
			t.Fatalf("migration %s has no matching down file", up)
		}
	}
}
