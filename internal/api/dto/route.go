package dto

import "time"

type StopDTO struct {
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Note          string  `json:"note,omitempty"`
	ArrivalTime   string  `json:"arrivalTime,omitempty"`
	DepartureTime string  `json:"departureTime,omitempty"`
	DriverID      int     `json:"driverId,omitempty"`
	Order         int     `json:"order"`
}

type ConfigDTO struct {
	MaxSpeed      float64 `json:"maxSpeed,omitempty"`
	Weight        float64 `json:"weight,omitempty"`
	Length        float64 `json:"length,omitempty"`
	Height        float64 `json:"height,omitempty"`
	AvoidHighways bool    `json:"avoidHighways,omitempty"`
	AvoidTolls    bool    `json:"avoidTolls,omitempty"`
	AvoidFerries  bool    `json:"avoidFerries,omitempty"`
	AvoidTunnels  bool    `json:"avoidTunnels,omitempty"`
	AvoidUTurns   bool    `json:"avoidUTurns,omitempty"`
	ReturnToStart bool    `json:"returnToStart,omitempty"`
	NumberDrivers int     `json:"numberDrivers,omitempty"`
}

// Body of POST /optimize. The top-level numberDrivers/returnToStart
// mirror the config fields for UI convenience; when set they win.
// Options carries avoidance flags as strings (avoidHighways, avoidTolls,
// avoidFerries).
type OptimizeRequest struct {
	Markers       []StopDTO `json:"markers"`
	Config        ConfigDTO `json:"config"`
	NumberDrivers int       `json:"numberDrivers"`
	ReturnToStart bool      `json:"returnToStart"`
	Options       []string  `json:"options"`
}

type RouteStepDTO struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

type SegmentDTO struct {
	Origin      []float64 `json:"origin"`      // [lon, lat]
	Destination []float64 `json:"destination"` // [lon, lat]
}

type DriverRouteDTO struct {
	DriverID          int            `json:"driverId"`
	Stops             []StopDTO      `json:"stops"`
	RoadPath          [][]float64    `json:"roadPath"`
	StraightLinePaths []SegmentDTO   `json:"straightLinePaths"`
	Directions        []RouteStepDTO `json:"directions"`
	TotalDistance     float64        `json:"totalDistance"`
	TotalDuration     float64        `json:"totalDuration"`
	DistanceText      string         `json:"distanceText"`
	DurationText      string         `json:"durationText"`
	Color             string         `json:"color"`
}

type OptimizeResponse struct {
	RouteID      string           `json:"routeId"`
	Routes       []DriverRouteDTO `json:"routes"`
	TotalDrivers int              `json:"totalDrivers"`
	Warning      string           `json:"warning,omitempty"`
}

// Body of POST /routes: persists a previously computed route set by id.
type SaveRouteRequest struct {
	RouteID string `json:"routeId"`
	Name    string `json:"name"`
}

type SaveRouteResponse struct {
	ID string `json:"id"`
}

type SavedRouteRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListRoutesResponse struct {
	Routes []SavedRouteRefDTO `json:"routes"`
}

type LoadRouteResponse struct {
	Timestamp  time.Time        `json:"timestamp"`
	Config     ConfigDTO        `json:"config"`
	NumDrivers int              `json:"numDrivers"`
	Markers    []StopDTO        `json:"markers"`
	Routes     []DriverRouteDTO `json:"routes"`
}

type BalanceResponse struct {
	Balance int `json:"balance"`
}

type TopUpRequest struct {
	Amount int `json:"amount"`
}
