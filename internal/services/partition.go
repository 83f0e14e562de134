package services

import (
	"route-dispatch-service/internal/domain"
	"sort"
)

// Partition groups the optimizer's flat, ordered stop list by assigned
// driver. The first stop of the overall input is the shared start location:
// it is prepended to every driver's list with a synthetic start note, and
// appended again with a return note when returnToStart is set. A stop whose
// coordinates match the start within epsilon is dropped as a duplicate
// continuation of the start. Stops keep the optimizer's relative order;
// this function never reorders anything.
func Partition(orderedStops []domain.Stop, returnToStart bool) map[int][]domain.Stop {
	byDriver := make(map[int][]domain.Stop)
	if len(orderedStops) == 0 {
		return byDriver
	}

	start := orderedStops[0]
	startCoord := start.Coordinates()

	for _, s := range orderedStops[1:] {
		if s.Coordinates().SameLocation(startCoord) {
			continue
		}
		byDriver[s.DriverID] = append(byDriver[s.DriverID], s)
	}

	// The start itself carries a driver id too; drivers with no other
	// stops still get a (start-only) list.
	if _, ok := byDriver[start.DriverID]; !ok {
		byDriver[start.DriverID] = nil
	}

	for driverID, stops := range byDriver {
		anchor := start
		anchor.DriverID = driverID
		anchor.Note = domain.StartNote

		list := make([]domain.Stop, 0, len(stops)+2)
		list = append(list, anchor)
		list = append(list, stops...)

		if returnToStart {
			ret := start
			ret.DriverID = driverID
			ret.Note = domain.ReturnNote
			list = append(list, ret)
		}

		byDriver[driverID] = list
	}

	return byDriver
}

// DriverIDs returns the partition's driver ids in ascending order so the
// final output preserves driver ordering regardless of completion order.
func DriverIDs(byDriver map[int][]domain.Stop) []int {
	ids := make([]int, 0, len(byDriver))
	for id := range byDriver {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
