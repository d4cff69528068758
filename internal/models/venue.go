package models

// VenueCategory names a kind of point of interest counted around a candidate station.
type VenueCategory string

// Known venue categories.
const (
	VenueCafe       VenueCategory = "cafe"
	VenuePub        VenueCategory = "pub"
	VenueRestaurant VenueCategory = "restaurant"
)

// Venue is a point of interest returned by the venue provider.
type Venue struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Category   VenueCategory `json:"type"`
	Rating     float32       `json:"rating,omitempty"`
	PriceLevel int           `json:"priceLevel,omitempty"`
	Latitude   float64       `json:"lat"`
	Longitude  float64       `json:"lon"`
}

// VenueCounts holds the number of venues found per category plus their total.
type VenueCounts struct {
	ByCategory map[VenueCategory]int `json:"byCategory"`
	Total      int                   `json:"total"`
}

// NewVenueCounts returns empty counts ready to be filled with Add.
func NewVenueCounts() VenueCounts {
	return VenueCounts{ByCategory: make(map[VenueCategory]int)}
}

// Add records n venues of the given category. Negative values are ignored.
func (vc *VenueCounts) Add(category VenueCategory, n int) {
	if n < 0 {
		return
	}
	if vc.ByCategory == nil {
		vc.ByCategory = make(map[VenueCategory]int)
	}
	vc.ByCategory[category] += n
	vc.Total += n
}
