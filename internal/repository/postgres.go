package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

const createStationsTable = `
	CREATE TABLE IF NOT EXISTS stations (
		station_id TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		modes      TEXT[] NOT NULL DEFAULT '{}',
		position   INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// EnsureSchema creates the stations table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createStationsTable); err != nil {
		return fmt.Errorf("failed to create stations table: %w", err)
	}

	return nil
}

// ListStations returns the stored catalog in the order it was received from the provider.
func (r *Repository) ListStations(ctx context.Context) ([]models.Station, error) {
	query := `
		SELECT station_id, name, latitude, longitude, modes
		FROM stations
		ORDER BY position ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var station models.Station
		if errScan := rows.Scan(
			&station.ID, &station.Name, &station.Latitude, &station.Longitude, &station.Modes,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan station: %w", errScan)
		}
		stations = append(stations, station)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Stations loaded from catalog", "count", len(stations))

	return stations, nil
}

// ReplaceStations swaps the stored catalog for the given stations in a single transaction.
func (r *Repository) ReplaceStations(ctx context.Context, stations []models.Station) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to rollback: %w", rbErr))
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM stations;`); err != nil {
		return fmt.Errorf("failed to clear stations: %w", err)
	}

	insert := `
		INSERT INTO stations (station_id, name, latitude, longitude, modes, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (station_id) DO NOTHING;
	`
	for idx, station := range stations {
		if _, err = tx.Exec(ctx, insert,
			station.ID, station.Name, station.Latitude, station.Longitude, station.Modes, idx,
		); err != nil {
			return fmt.Errorf("failed to insert station %s: %w", station.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stations: %w", err)
	}

	r.log.InfoContext(ctx, "Station catalog replaced", "count", len(stations))

	return nil
}
