package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLite-backed store for trimmed route documents. Documents arrive
// already trimmed; this adapter only persists and retrieves them. The
// per-owner cap lives with the caller, per the persistence contract.
type SqliteRouteRepository struct {
	DB *sql.DB
}

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

func (r *SqliteRouteRepository) Save(
	ctx context.Context,
	ownerID string,
	doc domain.SavedRouteDocument,
	name string,
) (string, error) {
	if r.DB == nil {
		return "", errors.New("route repository: db is nil")
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", fmt.Errorf("save route document: owner id must be non-empty: %w", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled route"
	}

	payload, err := encodeDocument(doc)
	if err != nil {
		return "", fmt.Errorf("save route document: %w", err)
	}

	id := uuid.NewString()

	q := `
	INSERT INTO saved_routes (id, owner_id, name, created_at, document)
	VALUES (?, ?, ?, ?, ?);
	`
	createdAt := doc.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := r.DB.ExecContext(ctx, q, id, ownerID, name, createdAt.UTC().Format(time.RFC3339), payload); err != nil {
		return "", fmt.Errorf("save route document: insert: %w", err)
	}

	return id, nil
}

func (r *SqliteRouteRepository) Load(ctx context.Context, id string) (domain.SavedRouteDocument, error) {
	if r.DB == nil {
		return domain.SavedRouteDocument{}, errors.New("route repository: db is nil")
	}

	q := `
	SELECT document
	FROM saved_routes
	WHERE id = ?;
	`

	var payload []byte
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SavedRouteDocument{}, fmt.Errorf("load route document %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SavedRouteDocument{}, fmt.Errorf("load route document %q: %w", id, err)
	}

	doc, err := decodeDocument(payload)
	if err != nil {
		return domain.SavedRouteDocument{}, fmt.Errorf("load route document %q: %w", id, err)
	}
	return doc, nil
}

func (r *SqliteRouteRepository) List(ctx context.Context, ownerID string) ([]ports.SavedRouteRef, error) {
	if r.DB == nil {
		return nil, errors.New("route repository: db is nil")
	}

	q := `
	SELECT id, name
	FROM saved_routes
	WHERE owner_id = ?
	ORDER BY created_at;
	`

	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list route documents: query: %w", err)
	}
	defer rows.Close()

	out := make([]ports.SavedRouteRef, 0)
	for rows.Next() {
		var ref ports.SavedRouteRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("list route documents: scan: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list route documents: iteration: %w", err)
	}

	return out, nil
}

func (r *SqliteRouteRepository) Delete(ctx context.Context, ownerID, id string) error {
	if r.DB == nil {
		return errors.New("route repository: db is nil")
	}

	q := `
	DELETE FROM saved_routes
	WHERE owner_id = ? AND id = ?;
	`

	res, err := r.DB.ExecContext(ctx, q, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete route document %q: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete route document %q: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete route document %q: %w", id, domain.ErrNotFound)
	}
	return nil
}
