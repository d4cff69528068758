package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Side identifies one of the two people being matched.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// ErrCandidateExhaustion means there was nothing to evaluate: the station list or the
// candidate selection came back empty. This is a data or configuration problem.
var ErrCandidateExhaustion = errors.New("no candidate stations available")

// GeocodeError reports the inputs that could not be resolved to coordinates. Side A comes first.
type GeocodeError struct {
	Sides []Side
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("could not find location %s", joinSides(e.Sides))
}

// Has reports whether the side failed.
func (e *GeocodeError) Has(side Side) bool {
	return slices.Contains(e.Sides, side)
}

// NoStationFoundError reports the resolved locations without a nearby station.
type NoStationFoundError struct {
	Sides []Side
}

func (e *NoStationFoundError) Error() string {
	return fmt.Sprintf("no station found near location %s", joinSides(e.Sides))
}

// Has reports whether the side failed.
func (e *NoStationFoundError) Has(side Side) bool {
	return slices.Contains(e.Sides, side)
}

// ProviderTimeoutError is a provider call that ran past its deadline.
// The engine treats it as a missing result for that call.
type ProviderTimeoutError struct {
	Provider string
	Op       string
}

func (e *ProviderTimeoutError) Error() string {
	return fmt.Sprintf("%s %s timed out", e.Provider, e.Op)
}

func (e *ProviderTimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

func joinSides(failed []Side) string {
	names := make([]string, len(failed))
	for i, side := range failed {
		names[i] = string(side)
	}
	return strings.Join(names, " and ")
}
