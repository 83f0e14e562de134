package ports

import (
	"context"
	"route-dispatch-service/internal/domain"
)

// Port: a boundary for submitting a stop set to the external TSP/VRP
// worker and receiving it back ordered and assigned to drivers.
type Optimizer interface {
	// Optimize ships the stops to the worker and blocks until a correlated
	// reply arrives or the deadline passes. The returned slice is the
	// worker's flat ordering with DriverID populated on every stop.
	// Fails with domain.ErrTimeout when no reply arrives in time and
	// domain.ErrTransport when the broker cannot be reached.
	Optimize(ctx context.Context, stops []domain.Stop, numberDrivers int, returnToStart bool) ([]domain.Stop, error)
}
