package models

// Station identifies a transit stop as reported by the transit provider.
// ID is the provider's opaque key and is unique within a provider session.
type Station struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lon"`
	Modes     []string `json:"modes"` // e.g. tube, elizabeth-line
}

// Coordinates returns the station position.
func (s Station) Coordinates() Coordinates {
	return Coordinates{Latitude: s.Latitude, Longitude: s.Longitude}
}

// JourneyLeg is a one-directional travel time from one station to another.
// Legs are computed per request and never persisted.
type JourneyLeg struct {
	FromStationID   string `json:"fromStationId"`
	ToStationID     string `json:"toStationId"`
	DurationMinutes int    `json:"durationMinutes"`
}
