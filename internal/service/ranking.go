// Package service ranks meeting points between two people.
package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/UnknownOlympus/fairmeet/internal/candidates"
	"github.com/UnknownOlympus/fairmeet/internal/geocoding"
	"github.com/UnknownOlympus/fairmeet/internal/metrics"
	"github.com/UnknownOlympus/fairmeet/internal/models"
	"github.com/UnknownOlympus/fairmeet/internal/scoring"
	"github.com/UnknownOlympus/fairmeet/internal/transit"
	"github.com/UnknownOlympus/fairmeet/internal/venues"
	"golang.org/x/sync/errgroup"
)

// Engine defaults.
const (
	DefaultProviderTimeout = 8 * time.Second
	DefaultConcurrency     = 8
	DefaultTopN            = 3
)

// Provider labels used in metrics and timeout errors.
const (
	providerGeocoder = "geocoder"
	providerTransit  = "transit"
	providerVenues   = "venues"
)

// Config tunes the ranking engine.
type Config struct {
	ProviderTimeout time.Duration // Deadline of every single provider call.
	Concurrency     int           // Candidates evaluated at the same time.
	TopN            int           // Recommendations returned.
	VenueRadius     int           // Venue search radius around a station, in meters.
}

// Options are the per-request switches.
type Options struct {
	IncludeVenues bool
	VenueFilters  map[models.VenueCategory]bool // Missing categories stay enabled.
}

// Endpoint is one person's resolved input.
type Endpoint struct {
	Input          string             `json:"input"`
	Coordinates    models.Coordinates `json:"coordinates"`
	NearestStation models.Station     `json:"nearestStation"`
}

// Result is a ranked list of meeting points together with both resolved endpoints.
type Result struct {
	LocationA       Endpoint               `json:"locationA"`
	LocationB       Endpoint               `json:"locationB"`
	Recommendations []*models.MeetingPoint `json:"recommendations"`
	CalculatedAt    time.Time              `json:"calculatedAt"`
	// NoJourneys is set when no candidate could be reached from both sides,
	// so the empty list says nothing about fairness.
	NoJourneys      bool                   `json:"noJourneys,omitempty"`
}

// VenueCounter counts venues per category around a point.
type VenueCounter interface {
	Counts(ctx context.Context, coords models.Coordinates, filters venues.Filters, radius int) (models.VenueCounts, error)
}

// Engine finds the fairest stations for two people to meet at.
type Engine struct {
	geo      geocoding.Provider
	transit  transit.Provider
	selector *candidates.Selector
	venues   VenueCounter
	metrics  *metrics.Metrics
	log      *slog.Logger
	cfg      Config
	now      func() time.Time
}

// NewEngine creates a ranking engine. venueCounter may be nil, in which case venue scoring is skipped.
func NewEngine(
	geo geocoding.Provider,
	transitProvider transit.Provider,
	selector *candidates.Selector,
	venueCounter VenueCounter,
	m *metrics.Metrics,
	log *slog.Logger,
	cfg Config,
) *Engine {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = DefaultProviderTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.VenueRadius <= 0 {
		cfg.VenueRadius = venues.DefaultRadius
	}

	return &Engine{
		geo:      geo,
		transit:  transitProvider,
		selector: selector,
		venues:   venueCounter,
		metrics:  m,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Rank resolves both locations and returns the best meeting points, best first.
//
// Input problems are reported as *GeocodeError or *NoStationFoundError, and ErrCandidateExhaustion
// means there was nothing to evaluate. Candidates that are unfair or unreachable are dropped, so an
// empty list is a valid answer. Result.NoJourneys tells the two apart.
func (e *Engine) Rank(ctx context.Context, locationA, locationB string, opts Options) (*Result, error) {
	start := time.Now()
	result, err := e.rank(ctx, locationA, locationB, opts)
	e.metrics.RankSeconds.Observe(time.Since(start).Seconds())
	e.metrics.RankRequests.WithLabelValues(outcome(result, err)).Inc()

	return result, err
}

func (e *Engine) rank(ctx context.Context, locationA, locationB string, opts Options) (*Result, error) {
	coordsA, coordsB, err := e.resolve(ctx, locationA, locationB)
	if err != nil {
		return nil, err
	}

	stationA, stationB, err := e.nearestStations(ctx, coordsA, coordsB)
	if err != nil {
		return nil, err
	}

	pool, err := e.candidates(ctx, coordsA, coordsB)
	if err != nil {
		return nil, err
	}

	points, evaluated, err := e.evaluate(ctx, stationA, stationB, pool)
	if err != nil {
		return nil, err
	}

	top := e.best(points)
	if opts.IncludeVenues && len(top) > 0 {
		e.scoreVenues(ctx, top, venues.ResolveFilters(opts.VenueFilters))
	}

	return &Result{
		LocationA:       Endpoint{Input: locationA, Coordinates: coordsA, NearestStation: stationA},
		LocationB:       Endpoint{Input: locationB, Coordinates: coordsB, NearestStation: stationB},
		Recommendations: top,
		CalculatedAt:    e.now().UTC(),
		NoJourneys:      evaluated == 0,
	}, nil
}

// resolve geocodes both inputs at the same time.
func (e *Engine) resolve(ctx context.Context, locationA, locationB string) (models.Coordinates, models.Coordinates, error) {
	inputs := [2]string{locationA, locationB}
	var found [2]*models.Coordinates

	var g errgroup.Group
	for i, input := range inputs {
		g.Go(func() error {
			coords, err := callProvider(ctx, e, providerGeocoder, "geocode",
				func(ctx context.Context) (*models.Coordinates, error) {
					return e.geo.Geocode(ctx, input)
				})
			if err == nil && coords == nil {
				err = errNotFound
			}
			if err != nil {
				e.log.WarnContext(ctx, "Failed to geocode location", "side", sides[i], "input", input, "error", err)
				return nil
			}
			found[i] = coords
			return nil
		})
	}
	_ = g.Wait()

	if failed := missing(found); len(failed) > 0 {
		return models.Coordinates{}, models.Coordinates{}, &GeocodeError{Sides: failed}
	}

	return *found[0], *found[1], nil
}

// nearestStations looks up the closest station for both coordinates at the same time.
func (e *Engine) nearestStations(ctx context.Context, coordsA, coordsB models.Coordinates) (models.Station, models.Station, error) {
	points := [2]models.Coordinates{coordsA, coordsB}
	var found [2]*models.Station

	var g errgroup.Group
	for i, coords := range points {
		g.Go(func() error {
			station, err := callProvider(ctx, e, providerTransit, "nearest_station",
				func(ctx context.Context) (*models.Station, error) {
					return e.transit.NearestStation(ctx, coords)
				})
			if err == nil && station == nil {
				err = errNotFound
			}
			if err != nil {
				e.log.WarnContext(ctx, "Failed to find nearest station", "side", sides[i], "error", err)
				return nil
			}
			found[i] = station
			return nil
		})
	}
	_ = g.Wait()

	if failed := missing(found); len(failed) > 0 {
		return models.Station{}, models.Station{}, &NoStationFoundError{Sides: failed}
	}

	return *found[0], *found[1], nil
}

// candidates returns the bounded set of stations to evaluate.
func (e *Engine) candidates(ctx context.Context, coordsA, coordsB models.Coordinates) ([]models.Station, error) {
	all, err := callProvider(ctx, e, providerTransit, "all_stations", e.transit.AllStations)
	if err != nil {
		e.log.ErrorContext(ctx, "Failed to list stations", "error", err)
		return nil, ErrCandidateExhaustion
	}

	pool := e.selector.SelectNear(all, coordsA, coordsB)
	e.metrics.CandidatesEvaluated.Observe(float64(len(pool)))
	if len(pool) == 0 {
		e.log.ErrorContext(ctx, "Candidate selection is empty, check the interchange list", "stations", len(all))
		return nil, ErrCandidateExhaustion
	}

	return pool, nil
}

// evaluate fetches both legs of every candidate and keeps the ones with a positive fairness score,
// in candidate order. It also returns how many candidates had both legs.
func (e *Engine) evaluate(
	ctx context.Context,
	stationA, stationB models.Station,
	pool []models.Station,
) ([]*models.MeetingPoint, int, error) {
	results := make([]*models.MeetingPoint, len(pool))

	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)
	for i, candidate := range pool {
		g.Go(func() error {
			var (
				timeB int
				errB  error
				done  = make(chan struct{})
			)
			go func() {
				defer close(done)
				timeB, errB = e.legMinutes(ctx, stationB, candidate)
			}()
			timeA, errA := e.legMinutes(ctx, stationA, candidate)
			<-done

			if err := errors.Join(errA, errB); err != nil {
				e.log.DebugContext(ctx, "Skipping candidate", "station", candidate.ID, "error", err)
				return nil
			}
			point := models.NewMeetingPoint(candidate, timeA, timeB)
			point.FairnessScore = scoring.Fairness(float64(timeA), float64(timeB))
			results[i] = point
			return nil
		})
	}
	_ = g.Wait()

	points := make([]*models.MeetingPoint, 0, len(results))
	evaluated := 0
	for _, point := range results {
		if point == nil {
			continue
		}
		evaluated++
		if point.FairnessScore > 0 {
			points = append(points, point)
		}
	}

	if evaluated == 0 {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		e.log.WarnContext(ctx, "Every candidate failed its journey lookups", "candidates", len(pool))
	}

	e.log.DebugContext(ctx, "Candidates evaluated", "candidates", len(pool), "evaluated", evaluated, "fair", len(points))

	return points, evaluated, nil
}

// legMinutes is the travel time between two stations. A station to itself takes no time.
func (e *Engine) legMinutes(ctx context.Context, from, to models.Station) (int, error) {
	if from.ID == to.ID {
		return 0, nil
	}

	e.metrics.ActiveLegs.Inc()
	defer e.metrics.ActiveLegs.Dec()

	leg, err := callProvider(ctx, e, providerTransit, "journey_time",
		func(ctx context.Context) (*models.JourneyLeg, error) {
			return e.transit.JourneyTime(ctx, from.ID, to.ID)
		})
	if err != nil {
		return 0, err
	}
	if leg == nil {
		return 0, transit.ErrJourneyNotFound
	}

	return leg.DurationMinutes, nil
}

// best sorts by fairness, keeping candidate order on ties, and cuts the list to TopN.
func (e *Engine) best(points []*models.MeetingPoint) []*models.MeetingPoint {
	slices.SortStableFunc(points, func(a, b *models.MeetingPoint) int {
		return cmp.Compare(b.FairnessScore, a.FairnessScore)
	})

	return points[:min(len(points), e.cfg.TopN)]
}

// scoreVenues blends venue density into the final score of every point and re-sorts them.
// A failed category lookup counts as zero venues.
func (e *Engine) scoreVenues(ctx context.Context, points []*models.MeetingPoint, filters venues.Filters) {
	if e.venues == nil {
		e.log.WarnContext(ctx, "Venue scoring requested but no venue provider is configured")
		return
	}

	var g errgroup.Group
	for _, point := range points {
		g.Go(func() error {
			counts, err := e.venues.Counts(ctx, point.Station.Coordinates(), filters, e.cfg.VenueRadius)
			if err != nil {
				e.metrics.ProviderErrors.WithLabelValues(providerVenues, "search").Inc()
				e.log.WarnContext(ctx, "Failed to count venues", "station", point.Station.ID, "error", err)
			}

			venueScore := scoring.VenueScore(counts)
			finalScore := scoring.Final(point.FairnessScore, venueScore)
			point.VenueCounts = &counts
			point.VenueScore = &venueScore
			point.FinalScore = &finalScore
			return nil
		})
	}
	_ = g.Wait()

	slices.SortStableFunc(points, func(a, b *models.MeetingPoint) int {
		return cmp.Compare(b.RankingScore(), a.RankingScore())
	})
}

var sides = [2]Side{SideA, SideB}

// missing lists the sides without a result, A first.
func missing[T any](found [2]*T) []Side {
	var failed []Side
	for i, result := range found {
		if result == nil {
			failed = append(failed, sides[i])
		}
	}
	return failed
}

// callProvider runs fn under the per-call deadline and records its duration.
func callProvider[T any](
	ctx context.Context,
	e *Engine,
	provider, op string,
	fn func(context.Context) (T, error),
) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	result, err := fn(callCtx)
	e.metrics.ProviderSeconds.WithLabelValues(provider, op).Observe(time.Since(start).Seconds())

	if err != nil {
		var zero T
		e.metrics.ProviderErrors.WithLabelValues(provider, op).Inc()
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			e.log.DebugContext(ctx, "Provider call timed out", "provider", provider, "operation", op, "error", err)
			return zero, &ProviderTimeoutError{Provider: provider, Op: op}
		}
		return zero, err
	}

	return result, nil
}

var errNotFound = errors.New("provider returned no result")

func outcome(result *Result, err error) string {
	var (
		geoErr     *GeocodeError
		stationErr *NoStationFoundError
	)
	switch {
	case err == nil && result.NoJourneys:
		return "no_meeting_points"
	case err == nil && len(result.Recommendations) == 0:
		return "empty"
	case err == nil:
		return "success"
	case errors.As(err, &geoErr):
		return "geocode_error"
	case errors.As(err, &stationErr):
		return "no_station"
	case errors.Is(err, ErrCandidateExhaustion):
		return "no_candidates"
	default:
		return "error"
	}
}
