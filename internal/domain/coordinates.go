package domain

import "math"

// Immutable geographic coordinates (longitude, latitude), WGS-84.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// CoordEpsilon is the tolerance used when deciding whether two stops
// occupy the same physical location (roughly 10cm at the equator).
const CoordEpsilon = 1e-6

// Valid reports whether the coordinates are usable for routing.
// An exact-zero latitude or longitude is treated as "unset" rather than
// a real position on the equator/meridian; this is a validation
// convention carried through the whole pipeline.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	if c.Lat == 0 || c.Lon == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// SameLocation reports whether two coordinates match within CoordEpsilon.
func (c Coordinates) SameLocation(other Coordinates) bool {
	return math.Abs(c.Lat-other.Lat) < CoordEpsilon && math.Abs(c.Lon-other.Lon) < CoordEpsilon
}
