package services

import (
	"context"
	"fmt"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type driverResult struct {
	driverID    int
	route       domain.DriverRoute
	unreachable []domain.SegmentPair
}

type OptimizeRequest struct {
	OwnerID string
	Stops   []domain.Stop
	Config  domain.RouteConfiguration
}

type OptimizeResult struct {
	RouteID      string
	Routes       []domain.DriverRoute
	TotalDrivers int
	Warning      string
}

// RoutePlanner runs the full route-computation pipeline: credit gate,
// optimization request/reply, driver partitioning, concurrent per-driver
// path assembly plus reachability probing, and caching of the joined
// result.
type RoutePlanner struct {
	Optimizer ports.Optimizer
	Assembler *PathAssembler
	// Optional; reachability warnings are skipped when nil.
	Prober ports.ReachabilityProber
	// Optional; used only for stops submitted without coordinates.
	Geocoder ports.Geocoder
	Gate     *CreditGate
	Cache    *RouteCache
}

// OptimizeRoute computes a full driver route set for the submitted stops.
// The credit reservation is released if anything past the gate fails.
func (p *RoutePlanner) OptimizeRoute(ctx context.Context, req OptimizeRequest) (OptimizeResult, error) {
	if len(req.Stops) < 2 {
		return OptimizeResult{}, fmt.Errorf("optimize route: need at least 2 stops, got %d: %w",
			len(req.Stops), domain.ErrInvalidInput)
	}

	config := req.Config.Normalized()
	cost := OptimizeCost(config.NumberDrivers)

	if err := p.Gate.Reserve(ctx, req.OwnerID, cost); err != nil {
		return OptimizeResult{}, fmt.Errorf("optimize route: %w", err)
	}

	result, err := p.computeRoutes(ctx, req.Stops, config)
	if err != nil {
		p.Gate.Release(ctx, req.OwnerID, cost)
		return OptimizeResult{}, fmt.Errorf("optimize route: %w", err)
	}

	if p.Cache != nil {
		p.Cache.Put(result.RouteID, CachedRoute{
			Config:  config,
			Markers: req.Stops,
			Routes:  result.Routes,
		})
	}

	return result, nil
}

// Reassemble re-expands a trimmed document's stop assignment back into
// drivable routes. No optimizer round trip and no credit cost: the stop
// ordering was already paid for when the document was computed.
func (p *RoutePlanner) Reassemble(ctx context.Context, doc domain.SavedRouteDocument) ([]domain.DriverRoute, error) {
	byDriver := make(map[int][]domain.Stop, len(doc.DriverRoutes))
	for _, dr := range doc.DriverRoutes {
		if _, ok := byDriver[dr.DriverID]; ok {
			return nil, fmt.Errorf("reassemble: duplicate driver id %d: %w", dr.DriverID, domain.ErrInvalidInput)
		}
		byDriver[dr.DriverID] = dr.Markers
	}

	routes, _ := p.assembleAll(ctx, byDriver, doc.Config)
	return routes, nil
}

func (p *RoutePlanner) computeRoutes(
	ctx context.Context,
	stops []domain.Stop,
	config domain.RouteConfiguration,
) (OptimizeResult, error) {
	resolved, err := p.resolveCoordinates(ctx, stops)
	if err != nil {
		return OptimizeResult{}, err
	}

	ordered, err := p.Optimizer.Optimize(ctx, resolved, config.NumberDrivers, config.ReturnToStart)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("optimize stops: %w", err)
	}

	byDriver := Partition(ordered, config.ReturnToStart)
	routes, warning := p.assembleAll(ctx, byDriver, config)

	return OptimizeResult{
		RouteID:      uuid.NewString(),
		Routes:       routes,
		TotalDrivers: len(routes),
		Warning:      warning,
	}, nil
}

// assembleAll fans out one assembly task per driver and joins the results
// keyed by driver id, so output order never depends on completion order.
func (p *RoutePlanner) assembleAll(
	ctx context.Context,
	byDriver map[int][]domain.Stop,
	config domain.RouteConfiguration,
) ([]domain.DriverRoute, string) {
	ids := DriverIDs(byDriver)

	resultsCh := make(chan driverResult, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(driverID int, stops []domain.Stop) {
			defer wg.Done()

			res := driverResult{
				driverID: driverID,
				route:    p.Assembler.Assemble(ctx, driverID, stops, config),
			}
			// Deliberately a second, independent reachability signal;
			// it feeds the warning text, not the geometry.
			if p.Prober != nil {
				res.unreachable = DetectUnreachable(ctx, p.Prober, stops)
			}
			resultsCh <- res
		}(id, byDriver[id])
	}

	wg.Wait()
	close(resultsCh)

	routeByID := make(map[int]domain.DriverRoute, len(ids))
	unreachableByID := make(map[int][]domain.SegmentPair)
	for res := range resultsCh {
		routeByID[res.driverID] = res.route
		if len(res.unreachable) > 0 {
			unreachableByID[res.driverID] = res.unreachable
		}
	}

	routes := make([]domain.DriverRoute, 0, len(ids))
	for _, id := range ids {
		routes = append(routes, routeByID[id])
	}

	return routes, UnreachableWarning(unreachableByID, ids)
}

// resolveCoordinates geocodes stops that arrived with an address but
// unset coordinates. A stop with neither is unroutable input.
func (p *RoutePlanner) resolveCoordinates(ctx context.Context, stops []domain.Stop) ([]domain.Stop, error) {
	out := make([]domain.Stop, len(stops))
	copy(out, stops)

	for i := range out {
		if out[i].HasValidCoordinates() {
			continue
		}
		addr := strings.TrimSpace(out[i].Address)
		if addr == "" || p.Geocoder == nil {
			return nil, fmt.Errorf("stop %d has no usable coordinates: %w", i, domain.ErrInvalidInput)
		}
		c, err := p.Geocoder.Geocode(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", addr, err)
		}
		if !c.Valid() {
			return nil, fmt.Errorf("geocode %q returned unusable coordinates: %w", addr, domain.ErrInvalidInput)
		}
		out[i].Lon = c.Lon
		out[i].Lat = c.Lat
	}

	return out, nil
}
