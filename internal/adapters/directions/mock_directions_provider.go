package directions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"sync"
)

// MockDirectionsProvider is a deterministic in-memory provider for tests.
// Distances are euclidean-degree based (scaled to meters) so repeated
// assembly of the same stops always reproduces identical totals. Segments
// listed in Unroutable fail every call; FailFirst injects transient
// failures that succeed after N attempts.
type MockDirectionsProvider struct {
	mu sync.Mutex

	// Keys "lon,lat|lon,lat" (5 decimals) for consecutive waypoint pairs
	// that must fail permanently.
	Unroutable map[string]bool

	// Remaining failures to inject per segment key before succeeding.
	FailFirst map[string]int

	// Calls counts provider invocations per segment key.
	Calls map[string]int
}

func NewMockDirectionsProvider() *MockDirectionsProvider {
	return &MockDirectionsProvider{
		Unroutable: make(map[string]bool),
		FailFirst:  make(map[string]int),
		Calls:      make(map[string]int),
	}
}

// SegmentKey formats a waypoint pair the way the mock indexes it.
func SegmentKey(a, b domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", a.Lon, a.Lat, b.Lon, b.Lat)
}

func (m *MockDirectionsProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
	config domain.RouteConfiguration,
) (ports.DirectionsResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DirectionsResult{}, err
	}
	if len(waypoints) < 2 {
		return ports.DirectionsResult{}, errors.New("mock: need at least 2 waypoints")
	}

	m.mu.Lock()
	for i := 0; i+1 < len(waypoints); i++ {
		key := SegmentKey(waypoints[i], waypoints[i+1])
		m.Calls[key]++
		if m.Unroutable[key] {
			m.mu.Unlock()
			return ports.DirectionsResult{}, fmt.Errorf("mock: no route for segment %s", key)
		}
		if m.FailFirst[key] > 0 {
			m.FailFirst[key]--
			m.mu.Unlock()
			return ports.DirectionsResult{}, fmt.Errorf("mock: transient failure for segment %s", key)
		}
	}
	m.mu.Unlock()

	res := ports.DirectionsResult{
		Path: append([]domain.Coordinates(nil), waypoints...),
	}
	for i := 0; i+1 < len(waypoints); i++ {
		meters := mockMeters(waypoints[i], waypoints[i+1])
		res.DistanceMeters += meters
		res.DurationSeconds += meters / 10 // fixed 36 km/h
		res.Steps = append(res.Steps, domain.RouteStep{
			Instruction: fmt.Sprintf("Drive to (%.5f, %.5f)", waypoints[i+1].Lat, waypoints[i+1].Lon),
			Distance:    fmt.Sprintf("%.0f m", meters),
			Duration:    domain.FormatDuration(meters / 10),
		})
	}
	return res, nil
}

func (m *MockDirectionsProvider) Reachable(ctx context.Context, origin, destination domain.Coordinates) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := SegmentKey(origin, destination)
	m.Calls[key]++
	return !m.Unroutable[key] && m.FailFirst[key] == 0
}

// mockMeters approximates a segment length: 1 degree ~ 100km.
func mockMeters(a, b domain.Coordinates) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	return math.Sqrt(dx*dx+dy*dy) * 100000
}
