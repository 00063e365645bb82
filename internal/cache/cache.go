// Package cache keeps fetched positions on disk so revisiting a date does
// not hit the ephemeris service again.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	date       TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// entry is the msgpack payload stored per date.
type entry struct {
	Positions []astro.Observation `msgpack:"positions"`
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int
	Misses int
	Errors int
}

// Cache is an ephem.Source that serves positions from SQLite and falls back
// to an upstream source on a miss. Storage errors never fail a request.
type Cache struct {
	src ephem.Source
	db  *sql.DB
	log *logging.Logger

	mu    sync.Mutex
	stats Stats
}

// Open opens or creates the cache database at path.
func Open(path string, src ephem.Source, log *logging.Logger) (*Cache, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{src: src, db: db, log: log}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Stats returns a copy of the lookup counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) count(f func(*Stats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

// Planets is never cached; the catalog is fetched once per run.
func (c *Cache) Planets(ctx context.Context) ([]string, error) {
	return c.src.Planets(ctx)
}

// Positions implements ephem.Source.
func (c *Cache) Positions(ctx context.Context, date time.Time) ([]astro.Observation, error) {
	key := astro.FormatDate(date)

	obs, ok, err := c.load(ctx, key)
	switch {
	case err != nil:
		c.count(func(s *Stats) { s.Errors++ })
		c.log.Warn("cache read %s: %v", key, err)
	case ok:
		c.count(func(s *Stats) { s.Hits++ })
		c.log.Debug("cache hit %s (%d bodies)", key, len(obs))
		return obs, nil
	}

	c.count(func(s *Stats) { s.Misses++ })
	obs, err = c.src.Positions(ctx, date)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, obs); err != nil {
		c.count(func(s *Stats) { s.Errors++ })
		c.log.Warn("cache write %s: %v", key, err)
	}
	return obs, nil
}

func (c *Cache) load(ctx context.Context, key string) ([]astro.Observation, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM positions WHERE date = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query: %w", err)
	}

	var e entry
	if err := msgpack.Unmarshal(payload, &e); err != nil {
		return nil, false, fmt.Errorf("decode: %w", err)
	}
	if e.Positions == nil {
		e.Positions = []astro.Observation{}
	}
	return e.Positions, true, nil
}

func (c *Cache) store(ctx context.Context, key string, obs []astro.Observation) error {
	payload, err := msgpack.Marshal(entry{Positions: obs})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO positions (date, payload, fetched_at) VALUES (?, ?, ?)`,
		key, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// Purge removes every cached date.
func (c *Cache) Purge(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}

// Len returns the number of cached dates.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM positions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}
