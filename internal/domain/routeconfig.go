package domain

// Vehicle constraints and avoidance preferences for one optimization run.
// A RouteConfiguration is immutable once a run starts; changing it
// invalidates every DriverRoute computed under the old one.
type RouteConfiguration struct {
	MaxSpeedKPH  float64
	WeightTonnes float64
	LengthMeters float64
	HeightMeters float64

	AvoidHighways bool
	AvoidTolls    bool
	AvoidFerries  bool
	AvoidTunnels  bool
	AvoidUTurns   bool

	ReturnToStart bool
	NumberDrivers int
}

// Normalized returns a copy with the driver count clamped to at least one.
func (c RouteConfiguration) Normalized() RouteConfiguration {
	if c.NumberDrivers < 1 {
		c.NumberDrivers = 1
	}
	return c
}

// HasVehicleRestrictions reports whether any truck-profile restriction is set.
func (c RouteConfiguration) HasVehicleRestrictions() bool {
	return c.WeightTonnes > 0 || c.LengthMeters > 0 || c.HeightMeters > 0
}
