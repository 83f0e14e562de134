package services

import (
	"context"
	"fmt"
	"log"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"time"
)

const (
	// Maximum intermediate waypoints per provider call. Stop lists up to
	// this size plus the two endpoints go out as a single request.
	defaultWaypointBatchSize = 25

	segmentAttempts     = 3
	defaultSegmentDelay = 500 * time.Millisecond
)

// PathAssembler turns one driver's ordered stop list into a continuous
// road path with turn-by-turn directions and aggregate metrics.
//
// It never fails outright: every unreachable or erroring leg degrades to
// a straight-line segment plus an error-flagged direction entry, so the
// caller always receives a usable (if partial) route. Stop order is never
// altered here; only the optimizer may reorder stops.
type PathAssembler struct {
	Provider  ports.DirectionsProvider
	BatchSize int
	// Delay between segment retry attempts; overridable in tests.
	RetryDelay time.Duration
}

func NewPathAssembler(provider ports.DirectionsProvider) *PathAssembler {
	return &PathAssembler{
		Provider:   provider,
		BatchSize:  defaultWaypointBatchSize,
		RetryDelay: defaultSegmentDelay,
	}
}

// Assemble computes the route for a single driver.
func (a *PathAssembler) Assemble(
	ctx context.Context,
	driverID int,
	stops []domain.Stop,
	config domain.RouteConfiguration,
) domain.DriverRoute {
	route := domain.DriverRoute{
		DriverID:          driverID,
		Stops:             stops,
		RoadPath:          []domain.Coordinates{},
		StraightLinePaths: []domain.SegmentPair{},
		Directions:        []domain.RouteStep{},
		Color:             domain.DriverColor(driverID),
	}

	if len(stops) >= 2 {
		if len(stops) <= a.BatchSize+2 {
			a.assembleWhole(ctx, stops, config, &route)
		} else {
			a.assembleBatched(ctx, stops, config, &route)
		}
	}

	// Callers rely on a non-empty directions list.
	if len(route.Directions) == 0 {
		route.Directions = append(route.Directions, domain.RouteStep{
			Instruction: "No turn-by-turn directions available for this route",
			Distance:    "-",
			Duration:    "-",
		})
	}

	route.DistanceText = domain.FormatDistance(route.TotalDistanceMeters)
	route.DurationText = domain.FormatDuration(route.TotalDurationSeconds)
	return route
}

// Request the whole route in one provider call; on failure degrade to
// per-segment processing.
func (a *PathAssembler) assembleWhole(
	ctx context.Context,
	stops []domain.Stop,
	config domain.RouteConfiguration,
	route *domain.DriverRoute,
) {
	waypoints, ok := waypointsOf(stops)
	if !ok {
		a.assembleSegments(ctx, stops, config, route)
		return
	}

	res, err := a.Provider.GetDirections(ctx, waypoints, config)
	if err != nil {
		log.Printf("assemble: driver=%d whole-route call failed, falling back to segments: %v", route.DriverID, err)
		a.assembleSegments(ctx, stops, config, route)
		return
	}

	appendResult(route, res, false)
}

// Split into overlapping batches: each batch after the first repeats the
// last stop of the previous batch as its first stop, guaranteeing path
// continuity. When stitching, the first coordinate of every batch after
// the first is dropped (it duplicates the previous batch's last point).
func (a *PathAssembler) assembleBatched(
	ctx context.Context,
	stops []domain.Stop,
	config domain.RouteConfiguration,
	route *domain.DriverRoute,
) {
	batchLen := a.BatchSize + 2

	for start, index := 0, 0; start < len(stops)-1; index++ {
		end := start + batchLen
		if end > len(stops) {
			end = len(stops)
		}
		batch := stops[start:end]

		waypoints, ok := waypointsOf(batch)
		if !ok {
			a.assembleSegments(ctx, batch, config, route)
		} else if res, err := a.Provider.GetDirections(ctx, waypoints, config); err != nil {
			log.Printf("assemble: driver=%d batch %d failed, falling back to segments: %v", route.DriverID, index+1, err)
			a.assembleSegments(ctx, batch, config, route)
		} else {
			appendResult(route, res, index > 0)
		}

		// Overlap: the next batch starts at this batch's last stop.
		start = end - 1
	}
}

// Per-segment fallback for a batch the provider rejected wholesale.
// Known-invalid coordinates get no retry budget at all.
func (a *PathAssembler) assembleSegments(
	ctx context.Context,
	stops []domain.Stop,
	config domain.RouteConfiguration,
	route *domain.DriverRoute,
) {
	for i := 0; i+1 < len(stops); i++ {
		from, to := stops[i], stops[i+1]

		if !from.HasValidCoordinates() || !to.HasValidCoordinates() {
			recordStraightLine(route, from, to)
			continue
		}

		pair := []domain.Coordinates{from.Coordinates(), to.Coordinates()}

		var res ports.DirectionsResult
		var err error
		for attempt := 1; attempt <= segmentAttempts; attempt++ {
			res, err = a.Provider.GetDirections(ctx, pair, config)
			if err == nil {
				break
			}
			if attempt == segmentAttempts {
				break
			}
			if !sleepCtx(ctx, a.RetryDelay) {
				break
			}
		}

		if err != nil {
			log.Printf("assemble: driver=%d segment %s -> %s unroutable after %d attempts: %v",
				route.DriverID, stopLabel(from), stopLabel(to), segmentAttempts, err)
			recordStraightLine(route, from, to)
			continue
		}

		appendResult(route, res, len(route.RoadPath) > 0)
	}
}

// appendResult stitches one provider result onto the route, accumulating
// metrics additively.
func appendResult(route *domain.DriverRoute, res ports.DirectionsResult, dropFirst bool) {
	path := res.Path
	if dropFirst && len(path) > 0 && len(route.RoadPath) > 0 &&
		path[0].SameLocation(route.RoadPath[len(route.RoadPath)-1]) {
		path = path[1:]
	}
	route.RoadPath = append(route.RoadPath, path...)
	route.Directions = append(route.Directions, res.Steps...)
	route.TotalDistanceMeters += res.DistanceMeters
	route.TotalDurationSeconds += res.DurationSeconds
}

// A straight-line leg contributes no distance or duration; it exists so
// the route stays visually continuous and the failure stays visible.
func recordStraightLine(route *domain.DriverRoute, from, to domain.Stop) {
	route.StraightLinePaths = append(route.StraightLinePaths, domain.SegmentPair{
		Origin:      from.Coordinates(),
		Destination: to.Coordinates(),
	})
	route.Directions = append(route.Directions, domain.RouteStep{
		Instruction: fmt.Sprintf("No drivable route from %s to %s (straight line shown)", stopLabel(from), stopLabel(to)),
		Distance:    "-",
		Duration:    "-",
	})
}

// waypointsOf extracts coordinates for a provider call; reports false if
// any stop in the span is invalid, which routes the span to per-segment
// handling without spending a provider call.
func waypointsOf(stops []domain.Stop) ([]domain.Coordinates, bool) {
	out := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		if !s.HasValidCoordinates() {
			return nil, false
		}
		out = append(out, s.Coordinates())
	}
	return out, true
}

func stopLabel(s domain.Stop) string {
	if s.Address != "" {
		return s.Address
	}
	return fmt.Sprintf("(%.5f, %.5f)", s.Lat, s.Lon)
}

// sleepCtx waits for d or until the context is cancelled; reports
// whether the full delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
