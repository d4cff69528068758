package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/fairmeet/internal/geocoding"
	"github.com/UnknownOlympus/fairmeet/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, "uk", slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		location := "nowhere in particular"
		req := &maps.GeocodingRequest{Address: location, Region: "uk"}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, location)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		location := "nowhere in particular"
		req := &maps.GeocodingRequest{Address: location, Region: "uk"}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, location)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		location := "SW1A 1AA"
		req := &maps.GeocodingRequest{Address: location, Region: "uk"}
		mockResponse := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 51.501, Lng: -0.141}}},
		}

		mockClient.On("Geocode", ctx, req).Return(mockResponse, nil).Once()

		coords, err := provider.Geocode(ctx, location)

		require.NoError(t, err)
		require.NotNil(t, coords)
		require.InEpsilon(t, 51.501, coords.Latitude, 0.001)
		require.InEpsilon(t, -0.141, coords.Longitude, 0.001)
		mockClient.AssertExpectations(t)
	})
}
