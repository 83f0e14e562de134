package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-dispatch-service/internal/domain"
)

// SQLite backed cache for reachability probe results. Same contract as
// SQLProbeCache with SQLite placeholder/upsert syntax.
type SqliteProbeCache struct {
	DB *sql.DB
}

func NewSqliteProbeCache(db *sql.DB) *SqliteProbeCache {
	return &SqliteProbeCache{DB: db}
}

// Get fetches a cached probe result; ok is false on a miss.
func (s *SqliteProbeCache) Get(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (reachable bool, ok bool, err error) {
	if s.DB == nil {
		return false, false, errors.New("probe cache: db is nil")
	}

	q := `
	SELECT reachable
	FROM probe_cache
	WHERE origin = ? AND destination = ?;
	`

	err = s.DB.QueryRowContext(ctx, q, probeKey(origin), probeKey(destination)).Scan(&reachable)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get probe cache: query probe_cache table: %w", err)
	}

	return reachable, true, nil
}

// Put stores one probe result, replacing any previous verdict.
func (s *SqliteProbeCache) Put(
	ctx context.Context,
	origin, destination domain.Coordinates,
	reachable bool,
) error {
	if s.DB == nil {
		return errors.New("probe cache: db is nil")
	}

	q := `
	INSERT OR REPLACE INTO probe_cache (origin, destination, reachable)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, probeKey(origin), probeKey(destination), reachable); err != nil {
		return fmt.Errorf("insert probe cache: %w", err)
	}
	return nil
}
