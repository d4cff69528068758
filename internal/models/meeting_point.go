package models

import "encoding/json"

// Thresholds for a meeting point to be considered comfortably fair.
const (
	goodFairnessScore   = 70
	goodTimeDifference  = 10
	goodTotalTravelTime = 60
)

// MeetingPoint is a candidate station together with the travel times of both people and its scores.
// Travel times are fixed at construction, so TimeDifference and TotalTime are always derived from them.
type MeetingPoint struct {
	Station       Station
	FairnessScore float64
	VenueCounts   *VenueCounts
	VenueScore    *float64
	FinalScore    *float64

	timeFromA int
	timeFromB int
}

// NewMeetingPoint creates a meeting point for a station reached in timeFromA and timeFromB minutes.
func NewMeetingPoint(station Station, timeFromA, timeFromB int) *MeetingPoint {
	return &MeetingPoint{Station: station, timeFromA: timeFromA, timeFromB: timeFromB}
}

// TimeFromA is the travel time in minutes for the first person.
func (mp *MeetingPoint) TimeFromA() int { return mp.timeFromA }

// TimeFromB is the travel time in minutes for the second person.
func (mp *MeetingPoint) TimeFromB() int { return mp.timeFromB }

// TimeDifference returns |timeFromA - timeFromB|.
func (mp *MeetingPoint) TimeDifference() int {
	if mp.timeFromA > mp.timeFromB {
		return mp.timeFromA - mp.timeFromB
	}
	return mp.timeFromB - mp.timeFromA
}

// TotalTime returns timeFromA + timeFromB.
func (mp *MeetingPoint) TotalTime() int {
	return mp.timeFromA + mp.timeFromB
}

// RankingScore is the final score when venue scoring ran, the fairness score otherwise.
func (mp *MeetingPoint) RankingScore() float64 {
	if mp.FinalScore != nil {
		return *mp.FinalScore
	}
	return mp.FairnessScore
}

// IsGood reports whether the point is fair, balanced and reasonably quick for both people.
func (mp *MeetingPoint) IsGood() bool {
	return mp.FairnessScore > goodFairnessScore &&
		mp.TimeDifference() < goodTimeDifference &&
		mp.TotalTime() < goodTotalTravelTime
}

type meetingPointJSON struct {
	StationID      string       `json:"stationId"`
	StationName    string       `json:"stationName"`
	Latitude       float64      `json:"lat"`
	Longitude      float64      `json:"lon"`
	TimeFromA      int          `json:"timeFromA"`
	TimeFromB      int          `json:"timeFromB"`
	TimeDifference int          `json:"timeDifference"`
	TotalTime      int          `json:"totalTime"`
	FairnessScore  float64      `json:"fairnessScore"`
	VenueCounts    *VenueCounts `json:"venueCounts,omitempty"`
	VenueScore     *float64     `json:"venueScore,omitempty"`
	FinalScore     *float64     `json:"finalScore,omitempty"`
	IsGood         bool         `json:"isGood"`
}

// MarshalJSON flattens the meeting point, including the derived fields.
func (mp *MeetingPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(meetingPointJSON{
		StationID:      mp.Station.ID,
		StationName:    mp.Station.Name,
		Latitude:       mp.Station.Latitude,
		Longitude:      mp.Station.Longitude,
		TimeFromA:      mp.timeFromA,
		TimeFromB:      mp.timeFromB,
		TimeDifference: mp.TimeDifference(),
		TotalTime:      mp.TotalTime(),
		FairnessScore:  mp.FairnessScore,
		VenueCounts:    mp.VenueCounts,
		VenueScore:     mp.VenueScore,
		FinalScore:     mp.FinalScore,
		IsGood:         mp.IsGood(),
	})
}
