package domain

import "time"

// MaxSavedRoutes is the per-owner cap on stored route documents,
// enforced by the caller before insert.
const MaxSavedRoutes = 6

// The trimmed persisted form of a computed route set. RoutePath and
// StraightLinePaths are always written empty: the geometry is recomputable,
// so a SavedRouteDocument is never directly drivable and must pass back
// through the path assembler before display. The empty fields stay in the
// schema so reloading can fill them without a migration.
type SavedRouteDocument struct {
	Timestamp    time.Time
	Config       RouteConfiguration
	NumDrivers   int
	Markers      []Stop
	DriverRoutes []SavedDriverRoute
}

// Per-driver slice of a SavedRouteDocument. Mirrors DriverRoute minus
// the recomputable geometry.
type SavedDriverRoute struct {
	DriverID             int
	Markers              []Stop
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	Color                string
	Directions           []RouteStep
	RoutePath            []Coordinates
	StraightLinePaths    []SegmentPair
}

// Trim converts a computed route set into its storage form, dropping the
// bulky recomputable geometry while keeping everything needed to rebuild it.
func Trim(config RouteConfiguration, markers []Stop, routes []DriverRoute, now time.Time) SavedRouteDocument {
	doc := SavedRouteDocument{
		Timestamp:    now,
		Config:       config,
		NumDrivers:   len(routes),
		Markers:      markers,
		DriverRoutes: make([]SavedDriverRoute, 0, len(routes)),
	}
	for _, r := range routes {
		doc.DriverRoutes = append(doc.DriverRoutes, SavedDriverRoute{
			DriverID:             r.DriverID,
			Markers:              r.Stops,
			TotalDistanceMeters:  r.TotalDistanceMeters,
			TotalDurationSeconds: r.TotalDurationSeconds,
			Color:                r.Color,
			Directions:           r.Directions,
			RoutePath:            []Coordinates{},
			StraightLinePaths:    []SegmentPair{},
		})
	}
	return doc
}
