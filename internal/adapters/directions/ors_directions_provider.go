package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/platform/obs"
	"route-dispatch-service/internal/ports"
	"time"
)

// ProbeCache persists reachability probe results so repeated detector
// runs over the same stop set do not re-bill the provider.
type ProbeCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) (reachable bool, ok bool, err error)
	Put(ctx context.Context, origin, destination domain.Coordinates, reachable bool) error
}

// ORSDirectionsProvider implements DirectionsProvider and
// ReachabilityProber using the OpenRouteService directions endpoint.
//
// The waypoint order handed in is the order sent out; ORS routes through
// coordinates as given and nothing here asks it to optimize.
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	session    *http.Client
	apiKey     string
	baseURL    string
	probeCache ProbeCache
}

func NewORSDirectionsProvider(apiKey string, probeCache ProbeCache) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSDirectionsProvider{
		session:    &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    "https://api.openrouteservice.org",
		probeCache: probeCache,
	}, nil
}

type directionsRequest struct {
	Coordinates  [][]float64        `json:"coordinates"`
	Instructions bool               `json:"instructions"`
	Units        string             `json:"units"`
	MaximumSpeed *float64           `json:"maximum_speed,omitempty"`
	Options      *directionsOptions `json:"options,omitempty"`
}

type directionsOptions struct {
	AvoidFeatures []string       `json:"avoid_features,omitempty"`
	ProfileParams *profileParams `json:"profile_params,omitempty"`
}

type profileParams struct {
	Restrictions vehicleRestrictions `json:"restrictions"`
}

type vehicleRestrictions struct {
	Weight float64 `json:"weight,omitempty"`
	Height float64 `json:"height,omitempty"`
	Length float64 `json:"length,omitempty"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Steps    []struct {
					Distance    float64 `json:"distance"`
					Duration    float64 `json:"duration"`
					Instruction string  `json:"instruction"`
				} `json:"steps"`
			} `json:"segments"`
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// GetDirections fetches the road path and turn-by-turn steps through the
// given waypoints, in the given order.
func (o *ORSDirectionsProvider) GetDirections(
	ctx context.Context,
	waypoints []domain.Coordinates,
	config domain.RouteConfiguration,
) (_ ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "ors.GetDirections")(&err)

	if len(waypoints) < 2 {
		return ports.DirectionsResult{}, fmt.Errorf("get directions: need at least 2 waypoints, got %d", len(waypoints))
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profileFor(config))

	coords := make([][]float64, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, w.CoordsToList())
	}

	bodyObj := directionsRequest{
		Coordinates:  coords,
		Instructions: true,
		Units:        "m",
		Options:      optionsFor(config),
	}
	if config.MaxSpeedKPH > 0 {
		speed := config.MaxSpeedKPH
		bodyObj.MaximumSpeed = &speed
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.DirectionsResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.DirectionsResult{}, errors.New("directions response contains no route")
	}

	feature := dr.Features[0]

	path := make([]domain.Coordinates, 0, len(feature.Geometry.Coordinates))
	for i, c := range feature.Geometry.Coordinates {
		if len(c) != 2 {
			return ports.DirectionsResult{}, fmt.Errorf("directions geometry point %d has %d values", i, len(c))
		}
		path = append(path, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}

	var steps []domain.RouteStep
	for _, seg := range feature.Properties.Segments {
		for _, st := range seg.Steps {
			steps = append(steps, domain.RouteStep{
				Instruction: st.Instruction,
				Distance:    stepDistanceText(st.Distance),
				Duration:    stepDurationText(st.Duration),
			})
		}
	}

	return ports.DirectionsResult{
		Path:            path,
		Steps:           steps,
		DistanceMeters:  feature.Properties.Summary.Distance,
		DurationSeconds: feature.Properties.Summary.Duration,
	}, nil
}

// Reachable issues a single probe between two points: one call, no
// retry, errors counted as unreachable. Results are cached persistently
// when a probe cache is configured.
func (o *ORSDirectionsProvider) Reachable(ctx context.Context, origin, destination domain.Coordinates) bool {
	if o.probeCache != nil {
		if reachable, ok, err := o.probeCache.Get(ctx, origin, destination); err == nil && ok {
			return reachable
		}
	}

	reachable := o.probe(ctx, origin, destination)

	if o.probeCache != nil {
		if err := o.probeCache.Put(ctx, origin, destination, reachable); err != nil {
			log.Printf("probe cache write failed: %v", err)
		}
	}
	return reachable
}

func (o *ORSDirectionsProvider) probe(ctx context.Context, origin, destination domain.Coordinates) bool {
	endpoint := fmt.Sprintf("%s/v2/directions/driving-car/geojson", o.baseURL)

	bodyObj := directionsRequest{
		Coordinates:  [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		Instructions: false,
		Units:        "m",
	}
	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return false
	}

	req, err := o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}

	resp, err := o.do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return false
	}
	return len(dr.Features) > 0 && len(dr.Features[0].Geometry.Coordinates) > 0
}

// profileFor selects the routing profile: truck profile when any vehicle
// restriction is set, plain car otherwise.
func (o *ORSDirectionsProvider) profileFor(config domain.RouteConfiguration) string {
	if config.HasVehicleRestrictions() {
		return "driving-hgv"
	}
	return "driving-car"
}

// optionsFor maps the route configuration onto ORS request options.
// Tunnel and U-turn avoidance have no ORS equivalent and are ignored here.
func optionsFor(config domain.RouteConfiguration) *directionsOptions {
	var avoid []string
	if config.AvoidHighways {
		avoid = append(avoid, "highways")
	}
	if config.AvoidTolls {
		avoid = append(avoid, "tollways")
	}
	if config.AvoidFerries {
		avoid = append(avoid, "ferries")
	}

	var params *profileParams
	if config.HasVehicleRestrictions() {
		params = &profileParams{
			Restrictions: vehicleRestrictions{
				Weight: config.WeightTonnes,
				Height: config.HeightMeters,
				Length: config.LengthMeters,
			},
		}
	}

	if avoid == nil && params == nil {
		return nil
	}
	return &directionsOptions{AvoidFeatures: avoid, ProfileParams: params}
}

func stepDistanceText(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return domain.FormatDistance(meters)
}

func stepDurationText(seconds float64) string {
	return domain.FormatDuration(seconds)
}
