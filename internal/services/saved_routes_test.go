package services

import (
	"context"
	"errors"
	"fmt"
	"route-dispatch-service/internal/adapters/directions"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"testing"
	"time"
)

func newSavedRoutes(repo *fakeRouteRepo, ledger *fakeLedger, provider *directions.MockDirectionsProvider) *SavedRoutes {
	return &SavedRoutes{
		Repo:    repo,
		Gate:    &CreditGate{Ledger: ledger},
		Planner: &RoutePlanner{Assembler: newTestAssembler(provider)},
		Now:     func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestSaveCapRejectedBeforeSpending(t *testing.T) {
	repo := newFakeRouteRepo()
	ledger := newFakeLedger("alice", 100)
	s := newSavedRoutes(repo, ledger, directions.NewMockDirectionsProvider())

	ctx := context.Background()
	for i := 0; i < domain.MaxSavedRoutes; i++ {
		if _, err := s.Save(ctx, "alice", fmt.Sprintf("route %d", i), domain.RouteConfiguration{}, lineStops(2), nil); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	before := ledger.balance("alice")
	_, err := s.Save(ctx, "alice", "one too many", domain.RouteConfiguration{}, lineStops(2), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error at the cap, got %v", err)
	}
	if ledger.balance("alice") != before {
		t.Fatalf("cap rejection must not spend credits: %d -> %d", before, ledger.balance("alice"))
	}
}

func TestSaveTrimsGeometry(t *testing.T) {
	repo := newFakeRouteRepo()
	ledger := newFakeLedger("alice", 100)
	provider := directions.NewMockDirectionsProvider()
	s := newSavedRoutes(repo, ledger, provider)

	stops := lineStops(3)
	route := s.Planner.Assembler.Assemble(context.Background(), 1, stops, domain.RouteConfiguration{})
	if len(route.RoadPath) == 0 {
		t.Fatal("assembled route should carry geometry")
	}

	id, err := s.Save(context.Background(), "alice", "morning run", domain.RouteConfiguration{}, stops, []domain.DriverRoute{route})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ledger.balance("alice") != 100-SaveCost {
		t.Fatalf("balance = %d, want %d", ledger.balance("alice"), 100-SaveCost)
	}

	doc := repo.docs[id]
	if len(doc.DriverRoutes) != 1 {
		t.Fatalf("stored %d driver routes, want 1", len(doc.DriverRoutes))
	}
	stored := doc.DriverRoutes[0]
	if stored.RoutePath == nil || len(stored.RoutePath) != 0 {
		t.Fatalf("stored geometry must be empty non-nil, got %v", stored.RoutePath)
	}
	if stored.StraightLinePaths == nil || len(stored.StraightLinePaths) != 0 {
		t.Fatalf("stored straight lines must be empty non-nil, got %v", stored.StraightLinePaths)
	}
	if stored.TotalDistanceMeters != route.TotalDistanceMeters {
		t.Fatalf("stored distance = %v, want %v", stored.TotalDistanceMeters, route.TotalDistanceMeters)
	}
}

func TestLoadReassemblesGeometry(t *testing.T) {
	repo := newFakeRouteRepo()
	ledger := newFakeLedger("alice", 100)
	provider := directions.NewMockDirectionsProvider()
	s := newSavedRoutes(repo, ledger, provider)

	ctx := context.Background()
	stops := lineStops(3)
	original := s.Planner.Assembler.Assemble(ctx, 1, stops, domain.RouteConfiguration{})

	id, err := s.Save(ctx, "alice", "round trip", domain.RouteConfiguration{}, stops, []domain.DriverRoute{original})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, routes, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("reassembled %d routes, want 1", len(routes))
	}

	got := routes[0]
	if len(got.RoadPath) != len(original.RoadPath) {
		t.Fatalf("reassembled path has %d points, original had %d", len(got.RoadPath), len(original.RoadPath))
	}
	// The deterministic provider must reproduce the persisted totals.
	if got.TotalDistanceMeters != original.TotalDistanceMeters {
		t.Fatalf("reassembled distance = %v, want %v", got.TotalDistanceMeters, original.TotalDistanceMeters)
	}
	if got.TotalDurationSeconds != original.TotalDurationSeconds {
		t.Fatalf("reassembled duration = %v, want %v", got.TotalDurationSeconds, original.TotalDurationSeconds)
	}
}

func TestSaveReleasesOnRepoFailure(t *testing.T) {
	ledger := newFakeLedger("alice", 100)
	s := newSavedRoutes(newFakeRouteRepo(), ledger, directions.NewMockDirectionsProvider())
	s.Repo = failingRepo{}

	_, err := s.Save(context.Background(), "alice", "doomed", domain.RouteConfiguration{}, lineStops(2), nil)
	if err == nil {
		t.Fatal("expected repo failure to surface")
	}
	if ledger.balance("alice") != 100 {
		t.Fatalf("failed save must refund: balance = %d", ledger.balance("alice"))
	}
	if ledger.releases != 1 {
		t.Fatalf("releases = %d, want 1", ledger.releases)
	}
}

func TestLoadUnknownID(t *testing.T) {
	s := newSavedRoutes(newFakeRouteRepo(), newFakeLedger("alice", 100), directions.NewMockDirectionsProvider())
	_, _, err := s.Load(context.Background(), "no-such-route")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := newFakeRouteRepo()
	s := newSavedRoutes(repo, newFakeLedger("alice", 100), directions.NewMockDirectionsProvider())

	ctx := context.Background()
	id, err := s.Save(ctx, "alice", "mine", domain.RouteConfiguration{}, lineStops(2), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Delete(ctx, "mallory", id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign delete should read as not-found, got %v", err)
	}
	if err := s.Delete(ctx, "alice", id); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

// failingRepo errors on Save but reports an empty listing.
type failingRepo struct{}

func (failingRepo) Save(context.Context, string, domain.SavedRouteDocument, string) (string, error) {
	return "", errors.New("disk full")
}

func (failingRepo) Load(context.Context, string) (domain.SavedRouteDocument, error) {
	return domain.SavedRouteDocument{}, domain.ErrNotFound
}

func (failingRepo) List(context.Context, string) ([]ports.SavedRouteRef, error) {
	return nil, nil
}

func (failingRepo) Delete(context.Context, string, string) error {
	return domain.ErrNotFound
}
