package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSavedRoutesQuery := `
	CREATE TABLE IF NOT EXISTS saved_routes (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		document TEXT NOT NULL
	);
	`

	createCreditAccountsQuery := `
	CREATE TABLE IF NOT EXISTS credit_accounts (
		owner_id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0
	);
	`

	createProbeCacheQuery := `
	CREATE TABLE IF NOT EXISTS probe_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		reachable INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_saved_routes_owner
	ON saved_routes(owner_id, created_at);
	`

	statements := []string{
		createSavedRoutesQuery,
		createCreditAccountsQuery,
		createProbeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
