package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

// PostcodesBaseURL is the postcodes.io lookup endpoint. It needs no API key.
const PostcodesBaseURL = "https://api.postcodes.io/postcodes/"

// Common errors for the postcodes.io provider.
var (
	ErrPostcodeNotFound = errors.New("postcode not found")
	ErrPostcodeEmpty    = errors.New("postcode is empty")
)

// PostcodesProvider resolves UK postcodes with postcodes.io.
type PostcodesProvider struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

type postcodesResponse struct {
	Status int `json:"status"`
	Result *struct {
		Postcode  string  `json:"postcode"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

// NewPostcodesProvider creates a postcodes.io provider with a default HTTP client.
func NewPostcodesProvider(log *slog.Logger) *PostcodesProvider {
	const timeout = 10
	return NewPostcodesProviderWithClient(&http.Client{Timeout: timeout * time.Second}, PostcodesBaseURL, log)
}

// NewPostcodesProviderWithClient creates a postcodes.io provider with a custom HTTP client and endpoint.
func NewPostcodesProviderWithClient(client HTTPClient, baseURL string, log *slog.Logger) *PostcodesProvider {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &PostcodesProvider{client: client, baseURL: baseURL, log: log}
}

// Geocode looks up the postcode, ignoring case and whitespace.
func (pp *PostcodesProvider) Geocode(ctx context.Context, location string) (*models.Coordinates, error) {
	postcode := normalizePostcode(location)
	if postcode == "" {
		return nil, ErrPostcodeEmpty
	}

	pp.log.DebugContext(ctx, "Geocoding using postcodes.io", "postcode", postcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pp.baseURL+url.PathEscape(postcode), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPostcodeNotFound, postcode)
	default:
		body, _ := io.ReadAll(resp.Body)
		pp.log.ErrorContext(ctx, "postcodes.io API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("postcodes.io API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded postcodesResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode postcodes.io response: %w", err)
	}

	if decoded.Status != http.StatusOK || decoded.Result == nil {
		return nil, fmt.Errorf("%w: %s", ErrPostcodeNotFound, postcode)
	}

	return &models.Coordinates{Latitude: decoded.Result.Latitude, Longitude: decoded.Result.Longitude}, nil
}

func normalizePostcode(location string) string {
	return strings.ToUpper(strings.Join(strings.Fields(location), ""))
}
