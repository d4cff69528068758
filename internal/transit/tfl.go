package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/fairmeet/internal/models"
	"golang.org/x/time/rate"
)

// TfLBaseURL is the Transport for London Unified API root.
const TfLBaseURL = "https://api.tfl.gov.uk"

// Defaults matching the London tube + Elizabeth line network.
const (
	DefaultSearchRadius = 2000 // meters around a point searched for the nearest station
	defaultStopTypes    = "NaptanMetroStation,NaptanRailStation"
)

// DefaultModes are the transit modes considered for stations and journeys.
var DefaultModes = []string{"tube", "elizabeth-line"}

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TfLConfig configures the TfL client.
type TfLConfig struct {
	BaseURL      string   // Defaults to TfLBaseURL.
	AppKey       string   // Optional; raises the anonymous rate limit.
	Modes        []string // Defaults to DefaultModes.
	SearchRadius int      // Defaults to DefaultSearchRadius.
	RateLimit    int      // Requests per second, 0 means unlimited.
}

// TfLClient implements Provider on top of the TfL Unified API.
type TfLClient struct {
	client  HTTPClient
	baseURL string
	appKey  string
	modes   string
	radius  int
	limiter *rate.Limiter
	log     *slog.Logger
}

type stopPoint struct {
	ID         string   `json:"id"`
	NaptanID   string   `json:"naptanId"`
	CommonName string   `json:"commonName"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Modes      []string `json:"modes"`
}

type stopPointsResponse struct {
	StopPoints []stopPoint `json:"stopPoints"`
}

type journeyResponse struct {
	Journeys []struct {
		Duration int `json:"duration"`
	} `json:"journeys"`
}

// NewTfLClient creates a TfL client with a default HTTP client.
func NewTfLClient(cfg TfLConfig, log *slog.Logger) *TfLClient {
	const timeout = 15
	return NewTfLClientWithClient(&http.Client{Timeout: timeout * time.Second}, cfg, log)
}

// NewTfLClientWithClient creates a TfL client with a custom HTTP client.
func NewTfLClientWithClient(client HTTPClient, cfg TfLConfig, log *slog.Logger) *TfLClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = TfLBaseURL
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = DefaultModes
	}
	if cfg.SearchRadius <= 0 {
		cfg.SearchRadius = DefaultSearchRadius
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &TfLClient{
		client:  client,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		appKey:  cfg.AppKey,
		modes:   strings.Join(cfg.Modes, ","),
		radius:  cfg.SearchRadius,
		limiter: limiter,
		log:     log,
	}
}

// NearestStation returns the first stop point TfL reports within the search radius.
// TfL orders radius results by distance.
func (c *TfLClient) NearestStation(ctx context.Context, coords models.Coordinates) (*models.Station, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("stopTypes", defaultStopTypes)
	query.Set("radius", strconv.Itoa(c.radius))
	query.Set("modes", c.modes)

	var decoded stopPointsResponse
	if err := c.getJSON(ctx, "/StopPoint", query, &decoded); err != nil {
		return nil, fmt.Errorf("failed to find nearest station: %w", err)
	}

	if len(decoded.StopPoints) == 0 {
		c.log.WarnContext(ctx, "No stations found near coordinates",
			"lat", coords.Latitude, "lon", coords.Longitude, "radius", c.radius)
		return nil, ErrStationNotFound
	}

	station := decoded.StopPoints[0].toStation()
	c.log.DebugContext(ctx, "Nearest station resolved", "station", station.Name, "id", station.ID)

	return &station, nil
}

// AllStations lists every stop point served by the configured modes, in TfL's order.
func (c *TfLClient) AllStations(ctx context.Context) ([]models.Station, error) {
	var decoded stopPointsResponse
	if err := c.getJSON(ctx, "/StopPoint/Mode/"+c.modes, url.Values{}, &decoded); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	stations := make([]models.Station, 0, len(decoded.StopPoints))
	for _, sp := range decoded.StopPoints {
		stations = append(stations, sp.toStation())
	}

	c.log.DebugContext(ctx, "Stations listed", "count", len(stations))

	return stations, nil
}

// JourneyTime returns the duration of the first (fastest) journey TfL proposes.
func (c *TfLClient) JourneyTime(ctx context.Context, fromStationID, toStationID string) (*models.JourneyLeg, error) {
	path := fmt.Sprintf("/Journey/JourneyResults/%s/to/%s", url.PathEscape(fromStationID), url.PathEscape(toStationID))
	query := url.Values{}
	query.Set("mode", c.modes)

	var decoded journeyResponse
	if err := c.getJSON(ctx, path, query, &decoded); err != nil {
		return nil, fmt.Errorf("failed to fetch journey time: %w", err)
	}

	if len(decoded.Journeys) == 0 {
		return nil, ErrJourneyNotFound
	}

	return &models.JourneyLeg{
		FromStationID:   fromStationID,
		ToStationID:     toStationID,
		DurationMinutes: decoded.Journeys[0].Duration,
	}, nil
}

func (c *TfLClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.appKey != "" {
		query.Set("app_key", c.appKey)
	}
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TfL response: %w", err)
	}

	return nil
}

func (sp stopPoint) toStation() models.Station {
	id := sp.ID
	if id == "" {
		id = sp.NaptanID
	}
	modes := sp.Modes
	if modes == nil {
		modes = []string{}
	}
	return models.Station{ID: id, Name: sp.CommonName, Latitude: sp.Lat, Longitude: sp.Lon, Modes: modes}
}
