// Package ephem fetches body catalogs and positions from the ephemeris
// service.
package ephem

import (
	"context"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Source supplies the body catalog and per-date observations.
type Source interface {
	// Planets returns the catalog of known body identifiers.
	Planets(ctx context.Context) ([]string, error)

	// Positions returns every body's observation for a calendar date.
	Positions(ctx context.Context, date time.Time) ([]astro.Observation, error)
}

// Recorder receives per-request outcomes, e.g. for metrics.
type Recorder interface {
	ObserveFetch(endpoint string, d time.Duration, err error)
}

// Endpoint labels used with Recorder.
const (
	EndpointPlanets   = "planets"
	EndpointPositions = "positions"
)

// planetsResponse is the body of GET /planets.
type planetsResponse struct {
	Planets []string `json:"planets"`
}

// positionsResponse is the body of GET /positions/{date}.
type positionsResponse struct {
	Positions []astro.Observation `json:"positions"`
}
