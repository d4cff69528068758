// Package venues finds points of interest around stations and memoizes the results.
package venues

import (
	"context"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

// DefaultRadius is the search radius around a station in meters, roughly a five minute walk.
const DefaultRadius = 400

// Provider searches venues of one category around a point.
// An empty slice with a nil error is a valid "nothing here" answer; failures are reported as errors.
type Provider interface {
	Search(ctx context.Context, coords models.Coordinates, category models.VenueCategory, radius int) ([]models.Venue, error)
}

// Categories lists every venue category the service counts, in reporting order.
var Categories = []models.VenueCategory{models.VenueCafe, models.VenuePub, models.VenueRestaurant}

// Filters says which categories are counted. Build it with ResolveFilters so every known category
// has an explicit value.
type Filters map[models.VenueCategory]bool

// DefaultFilters enables every category.
func DefaultFilters() Filters {
	filters := make(Filters, len(Categories))
	for _, category := range Categories {
		filters[category] = true
	}
	return filters
}

// ResolveFilters applies overrides on top of DefaultFilters. Unknown categories are ignored.
func ResolveFilters(overrides map[models.VenueCategory]bool) Filters {
	filters := DefaultFilters()
	for category, enabled := range overrides {
		if _, known := filters[category]; known {
			filters[category] = enabled
		}
	}
	return filters
}

// Enabled reports whether a category is counted.
func (f Filters) Enabled(category models.VenueCategory) bool {
	return f[category]
}
