package domain

// Represents a single address a route must visit.
// DriverID stays zero (unassigned) until the optimizer responds;
// Order is the sequence hint carried to and from the optimizer.
type Stop struct {
	Address       string
	Lat           float64
	Lon           float64
	Note          string
	ArrivalTime   string
	DepartureTime string
	DriverID      int
	Order         int
}

// Synthetic notes attached to the anchors the partitioner injects.
const (
	StartNote  = "Start location"
	ReturnNote = "Return to start"
)

// Coordinates of the stop.
func (s Stop) Coordinates() Coordinates {
	return Coordinates{Lon: s.Lon, Lat: s.Lat}
}

// HasValidCoordinates reports whether the stop can be routed at all.
func (s Stop) HasValidCoordinates() bool {
	return s.Coordinates().Valid()
}
