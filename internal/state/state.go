// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Ticket identifies one outstanding positions request.
type Ticket struct {
	Seq  uint64
	Date time.Time
}

// Outcome reports what Apply did with a result.
type Outcome int

const (
	// Applied means the observations replaced the current list.
	Applied Outcome = iota
	// Failed means the request was current but errored; the previous
	// list was kept.
	Failed
	// Stale means a newer request had been issued; the result was dropped.
	Stale
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Manager owns the selected date, the body catalog and the current
// observation list.
type Manager struct {
	mu sync.RWMutex

	// Selection
	date time.Time

	// Current data
	catalog      []string
	observations []astro.Observation
	loadedDate   time.Time
	hasData      bool

	// Request sequencing
	issued   uint64 // Last sequence number handed out
	inFlight int

	// Fetch bookkeeping
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration
	staleDropped  int
}

// Config holds configuration for the state manager.
type Config struct {
	InitialDate time.Time
}

// DefaultConfig returns the default configuration: today's date.
func DefaultConfig() Config {
	return Config{
		InitialDate: astro.Today(),
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	date := cfg.InitialDate
	if date.IsZero() {
		date = astro.Today()
	}
	return &Manager{
		date:         date,
		observations: []astro.Observation{},
	}
}

// Date returns the selected date.
func (m *Manager) Date() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.date
}

// SetDate changes the selected date. It does not fetch.
func (m *Manager) SetDate(d time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.date = d
}

// ShiftDate moves the selected date by whole days and returns it.
func (m *Manager) ShiftDate(days int) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.date = m.date.AddDate(0, 0, days)
	return m.date
}

// SetCatalog stores the body catalog.
func (m *Manager) SetCatalog(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = append([]string(nil), names...)
}

// BeginFetch issues a ticket for a positions request on the selected date.
// Only the most recently issued ticket can change the observation list.
func (m *Manager) BeginFetch() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	m.inFlight++
	return Ticket{Seq: m.issued, Date: m.date}
}

// Apply records the result of a positions request.
//
// Results for superseded tickets are dropped. A failed current request
// keeps the previous observations and records the error.
func (m *Manager) Apply(t Ticket, obs []astro.Observation, fetchDuration time.Duration, err error) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight > 0 {
		m.inFlight--
	}

	if t.Seq != m.issued {
		m.staleDropped++
		return Stale
	}

	m.lastFetch = time.Now()
	m.fetchDuration = fetchDuration
	m.lastError = err

	if err != nil {
		return Failed
	}

	list := make([]astro.Observation, len(obs))
	copy(list, obs)
	m.observations = list
	m.loadedDate = t.Date
	m.hasData = true

	return Applied
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Date          time.Time
	LoadedDate    time.Time // Date the observations belong to
	Catalog       []string
	Observations  []astro.Observation
	Loading       bool
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	StaleDropped  int
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	catalog := make([]string, len(m.catalog))
	copy(catalog, m.catalog)

	obs := make([]astro.Observation, len(m.observations))
	copy(obs, m.observations)

	return Snapshot{
		Date:          m.date,
		LoadedDate:    m.loadedDate,
		Catalog:       catalog,
		Observations:  obs,
		Loading:       m.inFlight > 0,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		StaleDropped:  m.staleDropped,
	}
}

// HasData returns true if we have received at least one successful fetch.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasData
}
