package ports

import (
	"context"
	"route-dispatch-service/internal/domain"
)

// Directions between an ordered sequence of waypoints: the road polyline,
// per-leg instructions and aggregate metrics for one provider call.
type DirectionsResult struct {
	Path            []domain.Coordinates
	Steps           []domain.RouteStep
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for obtaining a drivable path through an ordered waypoint
// sequence. Implementations must never reorder the waypoints; ordering
// is decided upstream by the optimizer.
type DirectionsProvider interface {
	GetDirections(ctx context.Context, waypoints []domain.Coordinates, config domain.RouteConfiguration) (DirectionsResult, error)
}

// Optional extension used by the unreachable-segment detector. A probe is
// a single cheap call with no retry; both "no route" and a provider error
// are reported as unreachable.
type ReachabilityProber interface {
	Reachable(ctx context.Context, origin, destination domain.Coordinates) bool
}
