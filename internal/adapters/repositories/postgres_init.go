package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema (dbtool deployment target). Mirrors the
// SQLite schema with Postgres types.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS saved_routes (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			document JSONB NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS credit_accounts (
			owner_id TEXT PRIMARY KEY,
			balance INTEGER NOT NULL DEFAULT 0
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS probe_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			reachable BOOLEAN NOT NULL,
			PRIMARY KEY (origin, destination)
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_saved_routes_owner
		ON saved_routes(owner_id, created_at);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
