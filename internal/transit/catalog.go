package transit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

// ErrEmptyCatalog is returned when the upstream provider lists no stations.
var ErrEmptyCatalog = errors.New("upstream returned an empty station list")

// StationStore persists the station list between process restarts.
type StationStore interface {
	ListStations(ctx context.Context) ([]models.Station, error)
	ReplaceStations(ctx context.Context, stations []models.Station) error
}

// Catalog serves AllStations from a persistent store and delegates everything else upstream.
// The store is filled from upstream on first use and on every refresh tick.
type Catalog struct {
	upstream        Provider
	store           StationStore
	refreshInterval time.Duration
	log             *slog.Logger
}

// NewCatalog wraps upstream with a persistent station list.
func NewCatalog(upstream Provider, store StationStore, refreshInterval time.Duration, log *slog.Logger) *Catalog {
	return &Catalog{upstream: upstream, store: store, refreshInterval: refreshInterval, log: log}
}

// NearestStation delegates to the upstream provider.
func (c *Catalog) NearestStation(ctx context.Context, coords models.Coordinates) (*models.Station, error) {
	return c.upstream.NearestStation(ctx, coords)
}

// JourneyTime delegates to the upstream provider.
func (c *Catalog) JourneyTime(ctx context.Context, fromStationID, toStationID string) (*models.JourneyLeg, error) {
	return c.upstream.JourneyTime(ctx, fromStationID, toStationID)
}

// AllStations returns the stored station list, filling it from upstream when it is empty.
// A failing store falls back to upstream for this call.
func (c *Catalog) AllStations(ctx context.Context) ([]models.Station, error) {
	stations, err := c.store.ListStations(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to read station catalog, using upstream", "error", err)
		return c.upstream.AllStations(ctx)
	}

	if len(stations) > 0 {
		return stations, nil
	}

	c.log.InfoContext(ctx, "Station catalog is empty, fetching from upstream")
	return c.Refresh(ctx)
}

// Refresh fetches the station list upstream and stores it. An empty list never replaces the stored one.
func (c *Catalog) Refresh(ctx context.Context) ([]models.Station, error) {
	stations, err := c.upstream.AllStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stations: %w", err)
	}

	if len(stations) == 0 {
		return nil, ErrEmptyCatalog
	}

	if err = c.store.ReplaceStations(ctx, stations); err != nil {
		c.log.ErrorContext(ctx, "Failed to store station catalog", "error", err)
	}

	return stations, nil
}

// Run refreshes the catalog periodically until the context is canceled.
func (c *Catalog) Run(ctx context.Context) {
	if c.refreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	c.log.InfoContext(ctx, "Station catalog refresher started", "interval", c.refreshInterval)

	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "Station catalog refresher stopped.")
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil {
				c.log.ErrorContext(ctx, "Failed to refresh station catalog", "error", err)
			}
		}
	}
}
