// Package api exposes the ranking engine and its providers over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/fairmeet/internal/geocoding"
	"github.com/UnknownOlympus/fairmeet/internal/models"
	"github.com/UnknownOlympus/fairmeet/internal/service"
	"github.com/UnknownOlympus/fairmeet/internal/transit"
	"github.com/UnknownOlympus/fairmeet/internal/venues"
	"github.com/gin-gonic/gin"
)

// Ranker ranks meeting points for two locations.
type Ranker interface {
	Rank(ctx context.Context, locationA, locationB string, opts service.Options) (*service.Result, error)
}

// Handler serves the /api routes.
type Handler struct {
	ranker      Ranker
	geo         geocoding.Provider
	transit     transit.Provider
	venues      service.VenueCounter // nil when venue search is not configured
	venueRadius int
	log         *slog.Logger
}

// NewHandler creates the API handlers. venueCounter may be nil.
func NewHandler(
	ranker Ranker,
	geo geocoding.Provider,
	transitProvider transit.Provider,
	venueCounter service.VenueCounter,
	venueRadius int,
	log *slog.Logger,
) *Handler {
	if venueRadius <= 0 {
		venueRadius = venues.DefaultRadius
	}
	return &Handler{
		ranker:      ranker,
		geo:         geo,
		transit:     transitProvider,
		venues:      venueCounter,
		venueRadius: venueRadius,
		log:         log,
	}
}

type errorResponse struct {
	Error string         `json:"error"`
	Sides []service.Side `json:"sides,omitempty"`
}

type calculateRequest struct {
	LocationA     string                        `json:"locationA"     binding:"required"`
	LocationB     string                        `json:"locationB"     binding:"required"`
	IncludeVenues *bool                         `json:"includeVenues"`
	VenueFilters  map[models.VenueCategory]bool `json:"venueFilters"`
}

// Calculate ranks meeting points for two locations. Venue scoring is on unless includeVenues is false.
func (h *Handler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Both locations are required"})
		return
	}

	opts := service.Options{IncludeVenues: true, VenueFilters: req.VenueFilters}
	if req.IncludeVenues != nil {
		opts.IncludeVenues = *req.IncludeVenues
	}

	ctx := c.Request.Context()
	result, err := h.ranker.Rank(ctx, req.LocationA, req.LocationB, opts)
	if err != nil {
		h.rankError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) rankError(c *gin.Context, err error) {
	var (
		geoErr     *service.GeocodeError
		stationErr *service.NoStationFoundError
	)
	ctx := c.Request.Context()

	switch {
	case errors.As(err, &geoErr):
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "Please enter a valid UK postcode or place name for location " + sidesText(geoErr.Sides),
			Sides: geoErr.Sides,
		})
	case errors.As(err, &stationErr):
		c.JSON(http.StatusNotFound, errorResponse{
			Error: "Could not find a nearby station for location " + sidesText(stationErr.Sides) +
				". Are both locations in London?",
			Sides: stationErr.Sides,
		})
	case errors.Is(err, service.ErrCandidateExhaustion):
		h.log.ErrorContext(ctx, "Ranking has no candidates", "request_id", requestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Something went wrong, please try again"})
	default:
		h.log.ErrorContext(ctx, "Ranking failed", "request_id", requestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

type geocodeRequest struct {
	Location string `json:"location" binding:"required"`
}

// Geocode resolves a postcode or place name to coordinates.
func (h *Handler) Geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Location is required"})
		return
	}

	ctx := c.Request.Context()
	coords, err := h.geo.Geocode(ctx, req.Location)
	if err != nil || coords == nil {
		h.log.DebugContext(ctx, "Geocoding failed", "location", req.Location, "error", err)
		c.JSON(http.StatusNotFound, errorResponse{
			Error: "Could not geocode location. Please check the postcode or location name.",
		})
		return
	}

	c.JSON(http.StatusOK, coords)
}

type journeyRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to"   binding:"required"`
}

// Journey returns the travel time between two stations.
func (h *Handler) Journey(c *gin.Context) {
	var req journeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Both from and to locations are required"})
		return
	}

	ctx := c.Request.Context()
	leg, err := h.transit.JourneyTime(ctx, req.From, req.To)
	if err != nil || leg == nil {
		h.log.DebugContext(ctx, "Journey lookup failed", "from", req.From, "to", req.To, "error", err)
		c.JSON(http.StatusNotFound, errorResponse{Error: "Could not calculate journey time"})
		return
	}

	c.JSON(http.StatusOK, leg)
}

// Coordinates are pointers so that the equator and the Greenwich meridian are valid input.
type venuesRequest struct {
	Latitude  *float64 `json:"lat"    binding:"required,latitude"`
	Longitude *float64 `json:"lon"    binding:"required,longitude"`
	Radius    int      `json:"radius" binding:"omitempty,min=1,max=5000"`
}

// Venues counts venues per category around a point.
func (h *Handler) Venues(c *gin.Context) {
	var req venuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Latitude and longitude are required"})
		return
	}

	if h.venues == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Venue search is not configured"})
		return
	}

	radius := req.Radius
	if radius == 0 {
		radius = h.venueRadius
	}

	ctx := c.Request.Context()
	coords := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	counts, err := h.venues.Counts(ctx, coords, venues.DefaultFilters(), radius)
	if err != nil {
		h.log.WarnContext(ctx, "Venue counts are incomplete", "request_id", requestID(c), "error", err)
	}

	c.JSON(http.StatusOK, counts)
}

func sidesText(sides []service.Side) string {
	if len(sides) == 2 {
		return "A and B"
	}
	if len(sides) == 1 {
		return string(sides[0])
	}
	return ""
}
