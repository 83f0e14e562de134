package repositories

import (
	"encoding/json"
	"fmt"
	"route-dispatch-service/internal/domain"
	"time"
)

// Storage form of a trimmed route document. The routePath and
// straightLinePaths fields are always written empty; they stay in the
// schema so the path assembler can fill them on load without a schema
// migration.
type storedDocument struct {
	Timestamp    time.Time           `json:"timestamp"`
	Config       storedConfig        `json:"config"`
	NumDrivers   int                 `json:"numDrivers"`
	Markers      []storedStop        `json:"markers"`
	DriverRoutes []storedDriverRoute `json:"driverRoutes"`
}

type storedConfig struct {
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
	NumberDrivers int     `json:"numberDrivers"`
}

type storedStop struct {
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Note          string  `json:"note,omitempty"`
	ArrivalTime   string  `json:"arrivalTime,omitempty"`
	DepartureTime string  `json:"departureTime,omitempty"`
	DriverID      int     `json:"driverId,omitempty"`
	Order         int     `json:"order"`
}

type storedStep struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

type storedSegment struct {
	Origin      []float64 `json:"origin"`      // [lon, lat]
	Destination []float64 `json:"destination"` // [lon, lat]
}

type storedDriverRoute struct {
	DriverID          int             `json:"driverId"`
	Markers           []storedStop    `json:"markers"`
	TotalDistance     float64         `json:"totalDistance"`
	TotalDuration     float64         `json:"totalDuration"`
	Color             string          `json:"color"`
	Directions        []storedStep    `json:"directions"`
	RoutePath         [][]float64     `json:"routePath"`
	StraightLinePaths []storedSegment `json:"straightLinePaths"`
}

func encodeDocument(doc domain.SavedRouteDocument) ([]byte, error) {
	out := storedDocument{
		Timestamp:    doc.Timestamp,
		Config:       encodeConfig(doc.Config),
		NumDrivers:   doc.NumDrivers,
		Markers:      encodeStops(doc.Markers),
		DriverRoutes: make([]storedDriverRoute, 0, len(doc.DriverRoutes)),
	}

	for _, dr := range doc.DriverRoutes {
		out.DriverRoutes = append(out.DriverRoutes, storedDriverRoute{
			DriverID:      dr.DriverID,
			Markers:       encodeStops(dr.Markers),
			TotalDistance: dr.TotalDistanceMeters,
			TotalDuration: dr.TotalDurationSeconds,
			Color:         dr.Color,
			Directions:    encodeSteps(dr.Directions),
			// Geometry is recomputable and deliberately not persisted.
			RoutePath:         [][]float64{},
			StraightLinePaths: []storedSegment{},
		})
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode route document: %w", err)
	}
	return payload, nil
}

func decodeDocument(payload []byte) (domain.SavedRouteDocument, error) {
	var in storedDocument
	if err := json.Unmarshal(payload, &in); err != nil {
		return domain.SavedRouteDocument{}, fmt.Errorf("decode route document: %w", err)
	}

	doc := domain.SavedRouteDocument{
		Timestamp:    in.Timestamp,
		Config:       decodeConfig(in.Config),
		NumDrivers:   in.NumDrivers,
		Markers:      decodeStops(in.Markers),
		DriverRoutes: make([]domain.SavedDriverRoute, 0, len(in.DriverRoutes)),
	}

	for _, dr := range in.DriverRoutes {
		doc.DriverRoutes = append(doc.DriverRoutes, domain.SavedDriverRoute{
			DriverID:             dr.DriverID,
			Markers:              decodeStops(dr.Markers),
			TotalDistanceMeters:  dr.TotalDistance,
			TotalDurationSeconds: dr.TotalDuration,
			Color:                dr.Color,
			Directions:           decodeSteps(dr.Directions),
			RoutePath:            []domain.Coordinates{},
			StraightLinePaths:    []domain.SegmentPair{},
		})
	}

	return doc, nil
}

func encodeConfig(c domain.RouteConfiguration) storedConfig {
	return storedConfig{
		MaxSpeed:      c.MaxSpeedKPH,
		Weight:        c.WeightTonnes,
		Length:        c.LengthMeters,
		Height:        c.HeightMeters,
		AvoidHighways: c.AvoidHighways,
		AvoidTolls:    c.AvoidTolls,
		AvoidFerries:  c.AvoidFerries,
		AvoidTunnels:  c.AvoidTunnels,
		AvoidUTurns:   c.AvoidUTurns,
		ReturnToStart: c.ReturnToStart,
		NumberDrivers: c.NumberDrivers,
	}
}

func decodeConfig(c storedConfig) domain.RouteConfiguration {
	return domain.RouteConfiguration{
		MaxSpeedKPH:   c.MaxSpeed,
		WeightTonnes:  c.Weight,
		LengthMeters:  c.Length,
		HeightMeters:  c.Height,
		AvoidHighways: c.AvoidHighways,
		AvoidTolls:    c.AvoidTolls,
		AvoidFerries:  c.AvoidFerries,
		AvoidTunnels:  c.AvoidTunnels,
		AvoidUTurns:   c.AvoidUTurns,
		ReturnToStart: c.ReturnToStart,
		NumberDrivers: c.NumberDrivers,
	}
}

func encodeStops(stops []domain.Stop) []storedStop {
	out := make([]storedStop, 0, len(stops))
	for _, s := range stops {
		out = append(out, storedStop{
			Address:       s.Address,
			Lat:           s.Lat,
			Lng:           s.Lon,
			Note:          s.Note,
			ArrivalTime:   s.ArrivalTime,
			DepartureTime: s.DepartureTime,
			DriverID:      s.DriverID,
			Order:         s.Order,
		})
	}
	return out
}

func decodeStops(stops []storedStop) []domain.Stop {
	out := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		out = append(out, domain.Stop{
			Address:       s.Address,
			Lat:           s.Lat,
			Lon:           s.Lng,
			Note:          s.Note,
			ArrivalTime:   s.ArrivalTime,
			DepartureTime: s.DepartureTime,
			DriverID:      s.DriverID,
			Order:         s.Order,
		})
	}
	return out
}

func encodeSteps(steps []domain.RouteStep) []storedStep {
	out := make([]storedStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, storedStep(s))
	}
	return out
}

func decodeSteps(steps []storedStep) []domain.RouteStep {
	out := make([]domain.RouteStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, domain.RouteStep(s))
	}
	return out
}
