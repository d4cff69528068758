package geocoding

import (
	"context"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

// Provider resolves a free-form location (postcode, address, place name) to coordinates.
// A location that cannot be resolved yields a nil result together with a non-nil error.
type Provider interface {
	Geocode(ctx context.Context, location string) (*models.Coordinates, error)
}
