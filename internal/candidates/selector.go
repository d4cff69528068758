// Package candidates narrows the full station list to a bounded set of meeting point candidates.
package candidates

import (
	"strings"

	"github.com/UnknownOlympus/fairmeet/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultMaxCandidates bounds the journey lookups per request: each candidate costs two calls.
const DefaultMaxCandidates = 20

// DefaultInterchanges is the allow-list of major London interchanges used when none is configured.
var DefaultInterchanges = []string{
	"King",
	"Liverpool",
	"Oxford",
	"Victoria",
	"Paddington",
	"Waterloo",
	"London Bridge",
	"Canary Wharf",
	"Stratford",
	"Green Park",
	"Westminster",
	"Leicester Square",
}

// Config holds the selection policy.
type Config struct {
	MaxCandidates int      // Upper bound of the returned set.
	Interchanges  []string // Case-insensitive name fragments of preferred stations. Empty keeps every station.
	// MaxMidpointDistance drops stations farther than this many meters from the midpoint
	// between both people. Zero disables the spatial filter.
	MaxMidpointDistance float64
}

// Selector picks the candidate stations to evaluate.
type Selector struct {
	maxCandidates int
	interchanges  []string
	maxDistance   float64
}

// NewSelector creates a selector from the given configuration, applying defaults for zero values.
func NewSelector(cfg Config) *Selector {
	limit := cfg.MaxCandidates
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}

	fragments := make([]string, 0, len(cfg.Interchanges))
	for _, name := range cfg.Interchanges {
		name = strings.TrimSpace(name)
		if name != "" {
			fragments = append(fragments, strings.ToLower(name))
		}
	}

	return &Selector{maxCandidates: limit, interchanges: fragments, maxDistance: cfg.MaxMidpointDistance}
}

// Select returns the stations matching the interchange allow-list, in input order,
// capped at the configured maximum. Duplicate station IDs are kept once.
func (s *Selector) Select(all []models.Station) []models.Station {
	selected := make([]models.Station, 0, min(len(all), s.maxCandidates))
	seen := make(map[string]struct{}, s.maxCandidates)

	for _, station := range all {
		if len(selected) == s.maxCandidates {
			break
		}
		if _, dup := seen[station.ID]; dup {
			continue
		}
		if !s.isInterchange(station.Name) {
			continue
		}
		seen[station.ID] = struct{}{}
		selected = append(selected, station)
	}

	return selected
}

// SelectNear applies the spatial midpoint filter before Select.
func (s *Selector) SelectNear(all []models.Station, a, b models.Coordinates) []models.Station {
	if s.maxDistance <= 0 {
		return s.Select(all)
	}

	mid := geo.Midpoint(toPoint(a), toPoint(b))
	nearby := make([]models.Station, 0, len(all))
	for _, station := range all {
		if geo.Distance(mid, toPoint(station.Coordinates())) <= s.maxDistance {
			nearby = append(nearby, station)
		}
	}

	return s.Select(nearby)
}

func (s *Selector) isInterchange(name string) bool {
	if len(s.interchanges) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, fragment := range s.interchanges {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

func toPoint(c models.Coordinates) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
