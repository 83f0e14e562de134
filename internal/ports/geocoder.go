package ports

import (
	"context"
	"route-dispatch-service/internal/domain"
)

// Port: resolves free-text addresses to coordinates. Used only for stops
// submitted with an address but unset coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
