package services

import (
	"context"
	"fmt"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"time"
)

// SavedRoutes implements the route persistence flows on top of the
// repository boundary: trim before save, cap enforcement before insert,
// and re-expansion through the path assembler after every load.
type SavedRoutes struct {
	Repo    ports.RouteRepository
	Gate    *CreditGate
	Planner *RoutePlanner
	Now     func() time.Time
}

func (s *SavedRoutes) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Save trims and stores a computed route set. The per-owner cap is checked
// against the current listing before the credit reservation, so a full
// account is rejected without spending anything.
func (s *SavedRoutes) Save(
	ctx context.Context,
	ownerID string,
	name string,
	config domain.RouteConfiguration,
	markers []domain.Stop,
	routes []domain.DriverRoute,
) (string, error) {
	existing, err := s.Repo.List(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("save route: list existing: %w", err)
	}
	if len(existing) >= domain.MaxSavedRoutes {
		return "", fmt.Errorf("save route: limit of %d saved routes reached: %w",
			domain.MaxSavedRoutes, domain.ErrInvalidInput)
	}

	if err := s.Gate.Reserve(ctx, ownerID, SaveCost); err != nil {
		return "", fmt.Errorf("save route: %w", err)
	}

	doc := domain.Trim(config, markers, routes, s.now())
	id, err := s.Repo.Save(ctx, ownerID, doc, name)
	if err != nil {
		s.Gate.Release(ctx, ownerID, SaveCost)
		return "", fmt.Errorf("save route: %w", err)
	}

	return id, nil
}

// Load retrieves a trimmed document and re-runs path assembly to
// regenerate the dropped geometry. A loaded document is never returned
// drivable as-is.
func (s *SavedRoutes) Load(ctx context.Context, id string) (domain.SavedRouteDocument, []domain.DriverRoute, error) {
	doc, err := s.Repo.Load(ctx, id)
	if err != nil {
		return domain.SavedRouteDocument{}, nil, fmt.Errorf("load route %q: %w", id, err)
	}

	routes, err := s.Planner.Reassemble(ctx, doc)
	if err != nil {
		return domain.SavedRouteDocument{}, nil, fmt.Errorf("load route %q: %w", id, err)
	}

	return doc, routes, nil
}

// List returns the owner's saved route references.
func (s *SavedRoutes) List(ctx context.Context, ownerID string) ([]ports.SavedRouteRef, error) {
	refs, err := s.Repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return refs, nil
}

// Delete removes one saved route owned by ownerID.
func (s *SavedRoutes) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete route %q: %w", id, err)
	}
	return nil
}
