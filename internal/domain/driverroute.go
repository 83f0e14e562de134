package domain

import "fmt"

// One turn-by-turn instruction produced per leg by the directions
// provider. Purely presentational.
type RouteStep struct {
	Instruction string
	Distance    string
	Duration    string
}

// A straight-line fallback segment recorded when no drivable path
// between two consecutive stops could be obtained.
type SegmentPair struct {
	Origin      Coordinates
	Destination Coordinates
}

// The computed route for a single driver: the ordered stops actually
// assigned to that driver (including the synthetic start/return anchors),
// the continuous road polyline, any straight-line fallback segments, and
// aggregate metrics. DriverRoutes are created fresh on every optimization
// or recalculation and replaced wholesale, never mutated in place.
type DriverRoute struct {
	DriverID             int
	Stops                []Stop
	RoadPath             []Coordinates
	StraightLinePaths    []SegmentPair
	Directions           []RouteStep
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	DistanceText         string
	DurationText         string
	Color                string
}

// Display palette cycled per driver index.
var driverColors = []string{
	"#1565c0", "#c62828", "#2e7d32", "#6a1b9a",
	"#ef6c00", "#00838f", "#4e342e", "#37474f",
}

// DriverColor returns a stable display color for a driver id (ids start at 1).
func DriverColor(driverID int) string {
	if driverID < 1 {
		driverID = 1
	}
	return driverColors[(driverID-1)%len(driverColors)]
}

// FormatDistance renders meters as kilometers with one decimal ("12.3 km").
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as hours and minutes ("1 h 5 min").
// Durations under an hour omit the hour part.
func FormatDuration(seconds float64) string {
	minutes := int(seconds/60 + 0.5)
	hours := minutes / 60
	minutes = minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", hours, minutes)
}
