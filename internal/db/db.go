package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens the inventory database, configures pragmas and brings the schema
// up to date. The dsn is either a filesystem path or a full "file:" DSN (the
// latter is used by tests for private in-memory databases).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas for durability and the single-writer model: WAL lets readers
	// observe a consistent snapshot while a mutation is in flight.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			closeAndWrap(db, &err, fmt.Sprintf("failed to set pragma %q", p))
			return nil, err
		}
	}

	if err := runMigrations(db); err != nil {
		closeAndWrap(db, &err, "failed to run migrations")
		return nil, err
	}

	return db, nil
}

// runMigrations applies the embedded migrations in order. Already-applied
// versions are skipped; a fully up-to-date database is not an error.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migration source: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func closeAndWrap(db *sql.DB, err *error, msg string) {
	if cerr := db.Close(); cerr != nil {
		*err = fmt.Errorf("%s: %w (also failed to close db: %v)", msg, *err, cerr)
		return
	}
	*err = fmt.Errorf("%s: %w", msg, *err)
}
