package geocoding_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/fairmeet/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func newNominatim(client geocoding.HTTPClient) *geocoding.NominatimProvider {
	return geocoding.NewNominatimProviderWithClient(
		client, geocoding.NominatimBaseURL, "gb", rate.NewLimiter(rate.Inf, 1), slog.Default(),
	)
}

func TestNominatimProvider_Geocode(t *testing.T) {
	ctx := t.Context()

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org")
				assert.Equal(t, "Canary Wharf", req.URL.Query().Get("q"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "1", req.URL.Query().Get("limit"))
				assert.Equal(t, "gb", req.URL.Query().Get("countrycodes"))
				assert.NotEmpty(t, req.Header.Get("User-Agent"))

				return respond(http.StatusOK, `[{"lat":"51.5054","lon":"-0.0235"}]`)(req)
			},
		}

		coords, err := newNominatim(mockClient).Geocode(ctx, "Canary Wharf")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 51.5054, coords.Latitude, 0.0001)
		assert.InEpsilon(t, -0.0235, coords.Longitude, 0.0001)
	})

	t.Run("empty response from API", func(t *testing.T) {
		coords, err := newNominatim(&mockHTTPClient{doFunc: respond(http.StatusOK, `[]`)}).Geocode(ctx, "nowhere")

		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		client := &mockHTTPClient{doFunc: respond(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`)}

		coords, err := newNominatim(client).Geocode(ctx, "somewhere")

		require.Nil(t, coords)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		coords, err := newNominatim(&mockHTTPClient{doFunc: respond(http.StatusOK, `invalid json`)}).Geocode(ctx, "x")

		require.Nil(t, coords)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("invalid latitude", func(t *testing.T) {
		client := &mockHTTPClient{doFunc: respond(http.StatusOK, `[{"lat":"north","lon":"-0.1"}]`)}

		coords, err := newNominatim(client).Geocode(ctx, "x")

		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
	})

	t.Run("transport error", func(t *testing.T) {
		client := &mockHTTPClient{doFunc: func(_ *http.Request) (*http.Response, error) {
			return nil, assert.AnError
		}}

		coords, err := newNominatim(client).Geocode(ctx, "x")

		require.Nil(t, coords)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
