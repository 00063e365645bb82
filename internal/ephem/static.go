package ephem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Static is an in-memory Source keyed by date string.
type Static struct {
	mu        sync.Mutex
	catalog   []string
	positions map[string][]astro.Observation
	calls     int
}

// NewStatic creates a Static source with the given catalog.
func NewStatic(catalog []string) *Static {
	return &Static{
		catalog:   catalog,
		positions: make(map[string][]astro.Observation),
	}
}

// Set stores the observations returned for a date.
func (s *Static) Set(date string, obs []astro.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[date] = obs
}

// Calls returns how many Positions requests were served.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Planets implements Source.
func (s *Static) Planets(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.catalog))
	copy(out, s.catalog)
	return out, nil
}

// Positions implements Source.
func (s *Static) Positions(ctx context.Context, date time.Time) ([]astro.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	key := astro.FormatDate(date)
	obs, ok := s.positions[key]
	if !ok {
		return nil, fmt.Errorf("positions: no data for %s", key)
	}
	out := make([]astro.Observation, len(obs))
	copy(out, obs)
	return out, nil
}
