package broker

import (
	"encoding/json"
	"fmt"
	"math"
	"route-dispatch-service/internal/domain"
)

// Wire schema version understood by this broker. The envelope is
// validated on receipt; replies with an unknown version are rejected
// before any field access so worker and broker can evolve independently.
const wireVersion = 1

type wireGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

type wireProperties struct {
	Address       string `json:"address"`
	Order         int    `json:"order"`
	Note          string `json:"note,omitempty"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
	DriverID      int    `json:"driverId,omitempty"`
}

type wireFeature struct {
	Type       string         `json:"type"`
	Geometry   wireGeometry   `json:"geometry"`
	Properties wireProperties `json:"properties"`
}

type wireRequest struct {
	Version       int           `json:"version"`
	Features      []wireFeature `json:"features"`
	NumberDrivers int           `json:"numberDrivers"`
	ReturnToStart bool          `json:"returnToStart"`
}

type wireReply struct {
	Version  int           `json:"version"`
	Features []wireFeature `json:"features"`
}

// encodeRequest builds the queue message: one Point feature per stop with
// the stop's index embedded as the order property.
func encodeRequest(stops []domain.Stop, numberDrivers int, returnToStart bool) ([]byte, error) {
	if numberDrivers < 1 {
		numberDrivers = 1
	}

	req := wireRequest{
		Version:       wireVersion,
		Features:      make([]wireFeature, 0, len(stops)),
		NumberDrivers: numberDrivers,
		ReturnToStart: returnToStart,
	}

	for i, s := range stops {
		req.Features = append(req.Features, wireFeature{
			Type: "Feature",
			Geometry: wireGeometry{
				Type:        "Point",
				Coordinates: []float64{s.Lon, s.Lat},
			},
			Properties: wireProperties{
				Address:       s.Address,
				Order:         i,
				Note:          s.Note,
				ArrivalTime:   s.ArrivalTime,
				DepartureTime: s.DepartureTime,
			},
		})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode optimize request: %w", err)
	}
	return payload, nil
}

// decodeReply parses and validates a worker reply.
func decodeReply(body []byte) ([]wireFeature, error) {
	var reply wireReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decode optimize reply: %w", err)
	}

	if reply.Version != wireVersion {
		return nil, fmt.Errorf("decode optimize reply: unsupported wire version %d (want %d)", reply.Version, wireVersion)
	}

	for i, f := range reply.Features {
		if f.Type != "Feature" || f.Geometry.Type != "Point" {
			return nil, fmt.Errorf("decode optimize reply: feature %d is not a Point feature", i)
		}
		if len(f.Geometry.Coordinates) != 2 {
			return nil, fmt.Errorf("decode optimize reply: feature %d has %d coordinates (want 2)", i, len(f.Geometry.Coordinates))
		}
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
			return nil, fmt.Errorf("decode optimize reply: feature %d has non-finite coordinates", i)
		}
	}

	return reply.Features, nil
}

// reconcile re-associates each returned coordinate with its original Stop
// via an exact-match (lon, lat) lookup. The optimizer round trip does not
// preserve arbitrary stop metadata, only geometry and the driver
// assignment. A coordinate with no exact match (floating-point drift) is
// kept with its address reported as unknown rather than failing the
// whole batch.
func reconcile(original []domain.Stop, features []wireFeature) []domain.Stop {
	byCoord := make(map[[2]float64]domain.Stop, len(original))
	for _, s := range original {
		byCoord[[2]float64{s.Lon, s.Lat}] = s
	}

	out := make([]domain.Stop, 0, len(features))
	for i, f := range features {
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]

		stop, ok := byCoord[[2]float64{lon, lat}]
		if !ok {
			stop = domain.Stop{Address: "unknown", Lon: lon, Lat: lat}
		}
		stop.DriverID = f.Properties.DriverID
		stop.Order = i
		out = append(out, stop)
	}
	return out
}
