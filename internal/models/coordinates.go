package models

// Coordinates represents a geographical point defined by its longitude and latitude (WGS84 degrees).
type Coordinates struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point.
	Longitude float64 `json:"lon"` // Longitude of the geographical point.
}
