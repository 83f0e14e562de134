package ports

import (
	"context"
	"route-dispatch-service/internal/domain"
)

// Name/id pair returned by listings.
type SavedRouteRef struct {
	ID   string
	Name string
}

// Port: a boundary for storing and retrieving trimmed route documents.
// The caller is responsible for trimming before Save, for re-running the
// path assembler after Load, and for enforcing the per-owner cap via List.
type RouteRepository interface {
	Save(ctx context.Context, ownerID string, doc domain.SavedRouteDocument, name string) (string, error)
	Load(ctx context.Context, id string) (domain.SavedRouteDocument, error)
	List(ctx context.Context, ownerID string) ([]SavedRouteRef, error)
	Delete(ctx context.Context, ownerID string, id string) error
}
