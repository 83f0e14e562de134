package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/platform/obs"
)

// SQLProbeCache is a Postgres-backed cache for reachability probe
// results, keyed by the origin/destination coordinate pair.
type SQLProbeCache struct {
	DB *sql.DB
}

func NewSQLProbeCache(db *sql.DB) *SQLProbeCache {
	return &SQLProbeCache{DB: db}
}

// probeKey collapses coordinates to 6 decimals so floating-point noise
// below the location epsilon cannot split cache entries.
func probeKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

// Get fetches a cached probe result; ok is false on a miss.
func (s *SQLProbeCache) Get(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (reachable bool, ok bool, err error) {
	defer obs.Time(ctx, "probe.cache.Get")(&err)

	if s.DB == nil {
		return false, false, errors.New("probe cache: db is nil")
	}

	q := `
	SELECT reachable
	FROM probe_cache
	WHERE origin = $1 AND destination = $2;
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
func (s *SQLProbeCache) Put(
	ctx context.Context,
	origin, destination domain.Coordinates,
	reachable bool,
) error {
	if s.DB == nil {
		return errors.New("probe cache: db is nil")
	}

	q := `
	INSERT INTO probe_cache (origin, destination, reachable)
	VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET reachable = EXCLUDED.reachable;
	`

	if _, err := s.DB.ExecContext(ctx, q, probeKey(origin), probeKey(destination), reachable); err != nil {
		return fmt.Errorf("insert probe cache: %w", err)
	}
	return nil
}
