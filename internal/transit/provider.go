// Package transit talks to the transit network: nearest stations, the station list and journey times.
package transit

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

// Common lookup errors. Callers treat both as "no result".
var (
	ErrStationNotFound = errors.New("no station found near coordinates")
	ErrJourneyNotFound = errors.New("no journey found between stations")
)

// Provider is the transit network as seen by the ranking engine.
type Provider interface {
	// NearestStation returns the closest station to the coordinates or ErrStationNotFound.
	NearestStation(ctx context.Context, coords models.Coordinates) (*models.Station, error)
	// AllStations lists every known station in a stable order.
	AllStations(ctx context.Context) ([]models.Station, error)
	// JourneyTime returns the fastest journey between two stations or ErrJourneyNotFound.
	JourneyTime(ctx context.Context, fromStationID, toStationID string) (*models.JourneyLeg, error)
}
