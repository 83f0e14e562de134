package services

import (
	"context"
	"errors"
	"route-dispatch-service/internal/adapters/directions"
	"route-dispatch-service/internal/domain"
	"testing"
)

// optimizedReply tags the input stops with alternating driver ids the
// way the external solver would, keeping the first stop as the shared start.
func optimizedReply(stops []domain.Stop, drivers int) []domain.Stop {
	out := make([]domain.Stop, len(stops))
	copy(out, stops)
	for i := 1; i < len(out); i++ {
		out[i].DriverID = (i-1)%drivers + 1
		out[i].Order = i
	}
	out[0].DriverID = 1
	return out
}

func newTestPlanner(ledger *fakeLedger, opt *fakeOptimizer, provider *directions.MockDirectionsProvider) *RoutePlanner {
	return &RoutePlanner{
		Optimizer: opt,
		Assembler: newTestAssembler(provider),
		Prober:    provider,
		Gate:      &CreditGate{Ledger: ledger},
		Cache:     NewRouteCache(8),
	}
}

func TestOptimizeRoutePipeline(t *testing.T) {
	stops := lineStops(5)
	ledger := newFakeLedger("alice", 100)
	opt := &fakeOptimizer{reply: optimizedReply(stops, 2)}
	provider := directions.NewMockDirectionsProvider()
	planner := newTestPlanner(ledger, opt, provider)

	res, err := planner.OptimizeRoute(context.Background(), OptimizeRequest{
		OwnerID: "alice",
		Stops:   stops,
		Config:  domain.RouteConfiguration{NumberDrivers: 2},
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if opt.calls != 1 {
		t.Fatalf("optimizer called %d times, want 1", opt.calls)
	}
	if res.TotalDrivers != 2 || len(res.Routes) != 2 {
		t.Fatalf("drivers = %d routes = %d, want 2/2", res.TotalDrivers, len(res.Routes))
	}
	// Driver ordering is by id, not completion order.
	if res.Routes[0].DriverID != 1 || res.Routes[1].DriverID != 2 {
		t.Fatalf("routes out of driver order: %d, %d", res.Routes[0].DriverID, res.Routes[1].DriverID)
	}
	for _, r := range res.Routes {
		if len(r.Stops) < 2 {
			t.Fatalf("driver %d has %d stops, want start + at least one", r.DriverID, len(r.Stops))
		}
		if r.Stops[0].Note != domain.StartNote {
			t.Fatalf("driver %d missing start anchor", r.DriverID)
		}
		if len(r.Directions) == 0 {
			t.Fatalf("driver %d has no directions", r.DriverID)
		}
	}

	if ledger.balance("alice") != 100-OptimizeCost(2) {
		t.Fatalf("balance = %d, want %d", ledger.balance("alice"), 100-OptimizeCost(2))
	}

	cached, ok := planner.Cache.Get(res.RouteID)
	if !ok {
		t.Fatal("result not cached under its route id")
	}
	if len(cached.Routes) != 2 {
		t.Fatalf("cached %d routes, want 2", len(cached.Routes))
	}
}

func TestOptimizeRouteReleasesOnOptimizerFailure(t *testing.T) {
	ledger := newFakeLedger("alice", 100)
	opt := &fakeOptimizer{err: domain.ErrTimeout}
	planner := newTestPlanner(ledger, opt, directions.NewMockDirectionsProvider())

	_, err := planner.OptimizeRoute(context.Background(), OptimizeRequest{
		OwnerID: "alice",
		Stops:   lineStops(3),
		Config:  domain.RouteConfiguration{NumberDrivers: 1},
	})
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected timeout to propagate, got %v", err)
	}
	if ledger.balance("alice") != 100 {
		t.Fatalf("failed run must refund: balance = %d", ledger.balance("alice"))
	}
	if ledger.reserves != 1 || ledger.releases != 1 {
		t.Fatalf("reserve/release = %d/%d, want 1/1", ledger.reserves, ledger.releases)
	}
}

func TestOptimizeRouteBlockedWithoutCredits(t *testing.T) {
	ledger := newFakeLedger("alice", 5)
	opt := &fakeOptimizer{}
	planner := newTestPlanner(ledger, opt, directions.NewMockDirectionsProvider())

	_, err := planner.OptimizeRoute(context.Background(), OptimizeRequest{
		OwnerID: "alice",
		Stops:   lineStops(3),
		Config:  domain.RouteConfiguration{NumberDrivers: 1},
	})

	var ice *domain.InsufficientCreditsError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InsufficientCreditsError, got %v", err)
	}
	if opt.calls != 0 {
		t.Fatal("blocked request must never reach the optimizer")
	}
	if ledger.balance("alice") != 5 {
		t.Fatalf("blocked request must not spend: balance = %d", ledger.balance("alice"))
	}
}

func TestOptimizeRouteRejectsTooFewStops(t *testing.T) {
	ledger := newFakeLedger("alice", 100)
	planner := newTestPlanner(ledger, &fakeOptimizer{}, directions.NewMockDirectionsProvider())

	_, err := planner.OptimizeRoute(context.Background(), OptimizeRequest{
		OwnerID: "alice",
		Stops:   lineStops(1),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input, got %v", err)
	}
	if ledger.balance("alice") != 100 {
		t.Fatalf("rejected input must not spend: balance = %d", ledger.balance("alice"))
	}
}

func TestOptimizeRouteWarnsOnUnreachableSegments(t *testing.T) {
	stops := lineStops(4)
	ledger := newFakeLedger("alice", 100)
	opt := &fakeOptimizer{reply: optimizedReply(stops, 1)}
	provider := directions.NewMockDirectionsProvider()
	planner := newTestPlanner(ledger, opt, provider)

	badKey := directions.SegmentKey(stops[1].Coordinates(), stops[2].Coordinates())
	provider.Unroutable[badKey] = true

	res, err := planner.OptimizeRoute(context.Background(), OptimizeRequest{
		OwnerID: "alice",
		Stops:   stops,
		Config:  domain.RouteConfiguration{NumberDrivers: 1},
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if res.Warning == "" {
		t.Fatal("expected an unreachable-segment warning")
	}
	if len(res.Routes) != 1 || len(res.Routes[0].StraightLinePaths) == 0 {
		t.Fatal("unroutable leg should degrade to a straight line, not fail")
	}
}

func TestReassembleRejectsDuplicateDrivers(t *testing.T) {
	planner := &RoutePlanner{Assembler: newTestAssembler(directions.NewMockDirectionsProvider())}

	doc := domain.SavedRouteDocument{
		DriverRoutes: []domain.SavedDriverRoute{
			{DriverID: 1, Markers: lineStops(2)},
			{DriverID: 1, Markers: lineStops(2)},
		},
	}

	_, err := planner.Reassemble(context.Background(), doc)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input, got %v", err)
	}
}
