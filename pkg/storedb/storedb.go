// Package storedb opens per-project sqlite databases and applies
// versioned migrations. Multiple modules can share one database file;
// each tracks its own migration history.
package storedb

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/digeex/raider/internal/errx"
)

// Migration is one schema step. Versions are applied in ascending order
// and recorded per module.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// OpenOptions configures Open.
type OpenOptions struct {
	Path       string
	Module     string
	Migrations []Migration
}

// Open opens (creating if needed) the database at Path and brings the
// module's schema up to date.
func Open(opts OpenOptions) (*sql.DB, error) {
	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, errx.Wrap(ErrOpen, err)
	}
	// sqlite allows a single writer; serialise access through one conn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  module TEXT NOT NULL,
  version INTEGER NOT NULL,
  name TEXT NOT NULL,
  applied_at TEXT NOT NULL,
  PRIMARY KEY (module, version)
);`); err != nil {
		db.Close()
		return nil, errx.Wrap(ErrMigrate, err)
	}

	if err := applyMigrations(db, opts.Module, opts.Migrations); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func applyMigrations(db *sql.DB, module string, migrations []Migration) error {
	var current sql.NullInt64
	err := db.QueryRow(
		`SELECT MAX(version) FROM schema_migrations WHERE module = ?`, module,
	).Scan(&current)
	if err != nil {
		return errx.Wrap(ErrMigrate, err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.Version) <= current.Int64 {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return errx.Wrap(ErrMigrate, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return errx.With(ErrMigrate, ": %s v%d: %w", module, m.Version, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (module, version, name, applied_at) VALUES (?, ?, ?, ?)`,
			module, m.Version, m.Name, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return errx.Wrap(ErrMigrate, err)
		}
		if err := tx.Commit(); err != nil {
			return errx.Wrap(ErrMigrate, err)
		}
	}
	return nil
}
