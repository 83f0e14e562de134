package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"route-dispatch-service/internal/adapters/directions"
	"route-dispatch-service/internal/api/dto"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/services"
	"strings"
	"testing"
)

type stubLedger struct {
	balance int
}

func (s *stubLedger) Balance(ctx context.Context, ownerID string) (int, error) {
	return s.balance, nil
}

func (s *stubLedger) Reserve(ctx context.Context, ownerID string, amount int) (int, error) {
	if s.balance < amount {
		return 0, domain.ErrInsufficientFunds
	}
	s.balance -= amount
	return s.balance, nil
}

func (s *stubLedger) Release(ctx context.Context, ownerID string, amount int) error {
	s.balance += amount
	return nil
}

func (s *stubLedger) Credit(ctx context.Context, ownerID string, amount int) error {
	s.balance += amount
	return nil
}

type stubOptimizer struct{}

func (stubOptimizer) Optimize(ctx context.Context, stops []domain.Stop, numberDrivers int, returnToStart bool) ([]domain.Stop, error) {
	out := make([]domain.Stop, len(stops))
	copy(out, stops)
	for i := range out {
		out[i].DriverID = 1
		out[i].Order = i
	}
	return out, nil
}

func newTestHandler(balance int) *OptimizeHandler {
	provider := directions.NewMockDirectionsProvider()
	assembler := services.NewPathAssembler(provider)
	assembler.RetryDelay = 0
	return &OptimizeHandler{
		Planner: &services.RoutePlanner{
			Optimizer: stubOptimizer{},
			Assembler: assembler,
			Gate:      &services.CreditGate{Ledger: &stubLedger{balance: balance}},
			Cache:     services.NewRouteCache(8),
		},
	}
}

const optimizeBody = `{
	"markers": [
		{"address": "Depot", "lat": 33.0, "lng": -112.0},
		{"address": "First St", "lat": 33.0, "lng": -112.01},
		{"address": "Second St", "lat": 33.0, "lng": -112.02}
	],
	"numberDrivers": 1
}`

func TestOptimizeEndpoint(t *testing.T) {
	h := newTestHandler(100)

	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.OptimizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.RouteID == "" {
		t.Fatal("response carries no route id")
	}
	if res.TotalDrivers != 1 || len(res.Routes) != 1 {
		t.Fatalf("drivers = %d routes = %d, want 1/1", res.TotalDrivers, len(res.Routes))
	}
	if len(res.Routes[0].Directions) == 0 {
		t.Fatal("route has no directions")
	}
}

func TestOptimizeEndpointRequiresUser(t *testing.T) {
	h := newTestHandler(100)

	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody))
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestOptimizeEndpointPaymentRequired(t *testing.T) {
	h := newTestHandler(3)

	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(body["details"], "10") {
		t.Fatalf("error should state the shortfall, got %q", body["details"])
	}
}

func TestOptimizeEndpointRejectsUnknownFields(t *testing.T) {
	h := newTestHandler(100)

	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(`{"markerz": []}`))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSaveEndpointUnknownRouteID(t *testing.T) {
	h := &RoutesHandler{
		Saved: &services.SavedRoutes{},
		Cache: services.NewRouteCache(8),
	}

	req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(`{"routeId": "gone", "name": "x"}`))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()

	h.Save(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
