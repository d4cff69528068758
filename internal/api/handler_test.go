package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/UnknownOlympus/fairmeet/internal/api"
	"github.com/UnknownOlympus/fairmeet/internal/metrics"
	"github.com/UnknownOlympus/fairmeet/internal/models"
	"github.com/UnknownOlympus/fairmeet/internal/service"
	"github.com/UnknownOlympus/fairmeet/internal/venues"
	"github.com/UnknownOlympus/fairmeet/test/mocks"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	ranker  *mocks.Ranker
	geo     *mocks.GeoProvider
	transit *mocks.TransitProvider
	places  *mocks.VenueProvider
	router  *gin.Engine
}

func newTestServer(t *testing.T, withVenues bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		ranker:  mocks.NewRanker(t),
		geo:     mocks.NewGeoProvider(t),
		transit: mocks.NewTransitProvider(t),
		places:  mocks.NewVenueProvider(t),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var counter service.VenueCounter
	if withVenues {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		counter = venues.NewCache(s.places, venues.CacheConfig{}, m, logger)
	}

	handler := api.NewHandler(s.ranker, s.geo, s.transit, counter, 0, logger)
	s.router = api.NewRouter(handler, logger)

	return s
}

func (s *testServer) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCalculate(t *testing.T) {
	greenPark := models.Station{ID: "green-park", Name: "Green Park", Latitude: 51.5067, Longitude: -0.1428}

	t.Run("ranked result", func(t *testing.T) {
		s := newTestServer(t, false)
		point := models.NewMeetingPoint(greenPark, 15, 15)
		point.FairnessScore = 83.33
		result := &service.Result{
			LocationA:       service.Endpoint{Input: "HA9 0WS"},
			LocationB:       service.Endpoint{Input: "SW2 1RW"},
			Recommendations: []*models.MeetingPoint{point},
		}
		s.ranker.On("Rank", mock.Anything, "HA9 0WS", "SW2 1RW", service.Options{IncludeVenues: true}).
			Return(result, nil).Once()

		rec := s.post("/api/calculate", `{"locationA":"HA9 0WS","locationB":"SW2 1RW"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		recommendations, ok := body["recommendations"].([]any)
		require.True(t, ok)
		require.Len(t, recommendations, 1)
		first, _ := recommendations[0].(map[string]any)
		assert.Equal(t, "green-park", first["stationId"])
		assert.Equal(t, true, first["isGood"])
		assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))
	})

	t.Run("venues can be switched off", func(t *testing.T) {
		s := newTestServer(t, false)
		opts := service.Options{
			IncludeVenues: false,
			VenueFilters:  map[models.VenueCategory]bool{models.VenuePub: false},
		}
		s.ranker.On("Rank", mock.Anything, "E14 5AB", "N1 9AG", opts).
			Return(&service.Result{Recommendations: []*models.MeetingPoint{}}, nil).Once()

		rec := s.post("/api/calculate",
			`{"locationA":"E14 5AB","locationB":"N1 9AG","includeVenues":false,"venueFilters":{"pub":false}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, decode(t, rec)["recommendations"])
	})

	t.Run("unreachable candidates are an empty list", func(t *testing.T) {
		s := newTestServer(t, false)
		s.ranker.On("Rank", mock.Anything, "E14 5AB", "N1 9AG", mock.Anything).
			Return(&service.Result{Recommendations: []*models.MeetingPoint{}, NoJourneys: true}, nil).Once()

		rec := s.post("/api/calculate", `{"locationA":"E14 5AB","locationB":"N1 9AG"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, []any{}, body["recommendations"])
		assert.Equal(t, true, body["noJourneys"])
	})

	t.Run("missing location", func(t *testing.T) {
		s := newTestServer(t, false)

		rec := s.post("/api/calculate", `{"locationA":"E14 5AB"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Both locations are required", decode(t, rec)["error"])
	})

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "bad location",
			err:    &service.GeocodeError{Sides: []service.Side{service.SideB}},
			status: http.StatusBadRequest,
			msg:    "location B",
		},
		{
			name:   "no station",
			err:    &service.NoStationFoundError{Sides: []service.Side{service.SideA, service.SideB}},
			status: http.StatusNotFound,
			msg:    "location A and B",
		},
		{
			name:   "no candidates",
			err:    service.ErrCandidateExhaustion,
			status: http.StatusInternalServerError,
			msg:    "try again",
		},
		{
			name:   "unexpected",
			err:    assert.AnError,
			status: http.StatusInternalServerError,
			msg:    "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false)
			s.ranker.On("Rank", mock.Anything, "A", "B", mock.Anything).Return(nil, tt.err).Once()

			rec := s.post("/api/calculate", `{"locationA":"A","locationB":"B"}`)

			assert.Equal(t, tt.status, rec.Code)
			msg, _ := decode(t, rec)["error"].(string)
			assert.Contains(t, msg, tt.msg)
			assert.NotContains(t, msg, assert.AnError.Error())
		})
	}
}

func TestGeocode(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := newTestServer(t, false)
		s.geo.On("Geocode", mock.Anything, "SW1A 1AA").
			Return(&models.Coordinates{Latitude: 51.501, Longitude: -0.1416}, nil).Once()

		rec := s.post("/api/geocode", `{"location":"SW1A 1AA"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.InDelta(t, 51.501, body["lat"], 1e-9)
		assert.InDelta(t, -0.1416, body["lon"], 1e-9)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer(t, false)
		s.geo.On("Geocode", mock.Anything, "ZZ99").Return(nil, assert.AnError).Once()

		rec := s.post("/api/geocode", `{"location":"ZZ99"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing location", func(t *testing.T) {
		s := newTestServer(t, false)

		rec := s.post("/api/geocode", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJourney(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := newTestServer(t, false)
		s.transit.On("JourneyTime", mock.Anything, "940GZZLUBXN", "940GZZLUGPK").
			Return(&models.JourneyLeg{FromStationID: "940GZZLUBXN", ToStationID: "940GZZLUGPK", DurationMinutes: 12}, nil).
			Once()

		rec := s.post("/api/journey", `{"from":"940GZZLUBXN","to":"940GZZLUGPK"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 12, decode(t, rec)["durationMinutes"], 1e-9)
	})

	t.Run("no journey", func(t *testing.T) {
		s := newTestServer(t, false)
		s.transit.On("JourneyTime", mock.Anything, "a", "b").Return(nil, assert.AnError).Once()

		rec := s.post("/api/journey", `{"from":"a","to":"b"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing destination", func(t *testing.T) {
		s := newTestServer(t, false)

		rec := s.post("/api/journey", `{"from":"a"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVenues(t *testing.T) {
	point := models.Coordinates{Latitude: 51.5067, Longitude: -0.1428}

	t.Run("counts every category", func(t *testing.T) {
		s := newTestServer(t, true)
		s.places.On("Search", mock.Anything, point, models.VenueCafe, 400).
			Return([]models.Venue{{ID: "c1"}, {ID: "c2"}}, nil).Once()
		s.places.On("Search", mock.Anything, point, models.VenuePub, 400).
			Return([]models.Venue{{ID: "p1"}}, nil).Once()
		s.places.On("Search", mock.Anything, point, models.VenueRestaurant, 400).
			Return([]models.Venue{}, nil).Once()

		rec := s.post("/api/venues", `{"lat":51.5067,"lon":-0.1428}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.InDelta(t, 3, body["total"], 1e-9)
	})

	t.Run("custom radius", func(t *testing.T) {
		s := newTestServer(t, true)
		s.places.On("Search", mock.Anything, point, mock.Anything, 800).Return([]models.Venue{}, nil).Times(3)

		rec := s.post("/api/venues", `{"lat":51.5067,"lon":-0.1428,"radius":800}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("greenwich meridian is a valid longitude", func(t *testing.T) {
		s := newTestServer(t, true)
		greenwich := models.Coordinates{Latitude: 51.4779, Longitude: 0}
		s.places.On("Search", mock.Anything, greenwich, mock.Anything, 400).Return([]models.Venue{{ID: "v"}}, nil).Times(3)

		rec := s.post("/api/venues", `{"lat":51.4779,"lon":0}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 3, decode(t, rec)["total"], 1e-9)
	})

	t.Run("missing longitude", func(t *testing.T) {
		s := newTestServer(t, true)

		rec := s.post("/api/venues", `{"lat":51.4779}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		s := newTestServer(t, true)

		rec := s.post("/api/venues", `{"lat":151.5,"lon":-0.1428}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t, false)

		rec := s.post("/api/venues", `{"lat":51.5067,"lon":-0.1428}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRouter(t *testing.T) {
	t.Run("keeps caller request id", func(t *testing.T) {
		s := newTestServer(t, false)
		req := httptest.NewRequest(http.MethodPost, "/api/geocode", strings.NewReader(`{}`))
		req.Header.Set(api.RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(api.RequestIDHeader))
	})

	t.Run("answers preflight", func(t *testing.T) {
		s := newTestServer(t, false)
		req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
		rec := httptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
