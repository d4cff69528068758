// Package scoring converts travel times and venue counts into comparable scores.
package scoring

import (
	"math"

	"github.com/UnknownOlympus/fairmeet/internal/models"
)

// Fairness score weights and hard constraints, in minutes.
const (
	EquityWeight = 50.0 // penalty share for the relative gap between both legs
	EffortWeight = 50.0 // penalty share for the combined travel time

	MaxTotalMinutes = 90.0
	MaxLegMinutes   = 60.0

	MaxScore = 100.0
)

// Blend weights for the final score.
const (
	FairnessBlendWeight = 0.7
	VenueBlendWeight    = 0.3
)

const venueScoreDivisor = 10.0

// Fairness returns a 0-100 equity score for two travel times in minutes.
// Zero means the pair breaks a hard constraint and the candidate must be dropped.
func Fairness(timeA, timeB float64) float64 {
	diff := math.Abs(timeA - timeB)
	maxT := math.Max(timeA, timeB)
	total := timeA + timeB

	if total > MaxTotalMinutes || maxT > MaxLegMinutes {
		return 0
	}

	// both legs are zero: same station for both people
	if maxT <= 0 {
		return MaxScore
	}

	score := MaxScore - ((diff/maxT)*EquityWeight + (total/MaxTotalMinutes)*EffortWeight)

	return math.Max(0, math.Min(MaxScore, score))
}

// VenueScore converts venue counts into a density score. It is not capped.
func VenueScore(counts models.VenueCounts) float64 {
	return float64(counts.Total) / venueScoreDivisor
}

// Final blends a fairness score with a venue score. The result is not clamped.
func Final(fairness, venue float64) float64 {
	return fairness*FairnessBlendWeight + venue*VenueBlendWeight
}
