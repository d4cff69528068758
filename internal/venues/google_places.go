package venues

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/fairmeet/internal/models"
	"googlemaps.github.io/maps"
)

// ErrUnsupportedCategory is returned for categories without a Places type mapping.
var ErrUnsupportedCategory = errors.New("unsupported venue category")

// PlacesAPIClient is the subset of the Google Maps client used for venue search.
type PlacesAPIClient interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

var placeTypes = map[models.VenueCategory]maps.PlaceType{
	models.VenueCafe:       maps.PlaceTypeCafe,
	models.VenuePub:        maps.PlaceTypeBar,
	models.VenueRestaurant: maps.PlaceTypeRestaurant,
}

// GooglePlacesProvider searches venues with the Google Places Nearby Search API.
type GooglePlacesProvider struct {
	client PlacesAPIClient
	log    *slog.Logger
}

// NewGooglePlacesProvider creates a venue provider on top of a Places client.
func NewGooglePlacesProvider(client PlacesAPIClient, log *slog.Logger) *GooglePlacesProvider {
	return &GooglePlacesProvider{client: client, log: log}
}

// NewGooglePlacesClient builds a Google Maps client for venue search.
func NewGooglePlacesClient(apiKey string, rateLimit int) (*maps.Client, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required for Google Places")
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if rateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(rateLimit))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return client, nil
}

// Search returns the first page of places of the category within radius meters.
func (gp *GooglePlacesProvider) Search(
	ctx context.Context,
	coords models.Coordinates,
	category models.VenueCategory,
	radius int,
) ([]models.Venue, error) {
	placeType, ok := placeTypes[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCategory, category)
	}
	if radius <= 0 {
		radius = DefaultRadius
	}

	gp.log.DebugContext(ctx, "Searching venues using Google Places",
		"lat", coords.Latitude, "lon", coords.Longitude, "category", category, "radius", radius)

	req := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: coords.Latitude, Lng: coords.Longitude},
		Radius:   uint(radius),
		Type:     placeType,
	}

	resp, err := gp.client.NearbySearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}

	found := make([]models.Venue, 0, len(resp.Results))
	for _, place := range resp.Results {
		found = append(found, models.Venue{
			ID:         place.PlaceID,
			Name:       place.Name,
			Category:   category,
			Rating:     place.Rating,
			PriceLevel: place.PriceLevel,
			Latitude:   place.Geometry.Location.Lat,
			Longitude:  place.Geometry.Location.Lng,
		})
	}

	return found, nil
}
