package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
)

func openTest(t *testing.T, src ephem.Source) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "positions.db"), src, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func day(s string) time.Time {
	d, err := astro.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPositionsHitAfterMiss(t *testing.T) {
	src := ephem.NewStatic([]string{"mars"})
	src.Set("2024-03-20", []astro.Observation{{Name: "mars", RA: 12.5, Dec: -3, Distance: 1.5, Magnitude: 1.1}})
	c := openTest(t, src)
	ctx := context.Background()

	first, err := c.Positions(ctx, day("2024-03-20"))
	if err != nil {
		t.Fatalf("first Positions: %v", err)
	}
	second, err := c.Positions(ctx, day("2024-03-20"))
	if err != nil {
		t.Fatalf("second Positions: %v", err)
	}

	if src.Calls() != 1 {
		t.Errorf("upstream calls = %d, want 1", src.Calls())
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Errorf("cached = %+v, want %+v", second, first)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Errors != 0 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestPositionsEmptyListCached(t *testing.T) {
	src := ephem.NewStatic(nil)
	src.Set("2024-01-01", []astro.Observation{})
	c := openTest(t, src)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		obs, err := c.Positions(ctx, day("2024-01-01"))
		if err != nil {
			t.Fatalf("Positions: %v", err)
		}
		if obs == nil || len(obs) != 0 {
			t.Errorf("obs = %#v, want empty non-nil", obs)
		}
	}
	if src.Calls() != 1 {
		t.Errorf("upstream calls = %d, want 1", src.Calls())
	}
}

func TestPositionsUpstreamErrorNotCached(t *testing.T) {
	src := ephem.NewStatic(nil)
	c := openTest(t, src)
	ctx := context.Background()

	if _, err := c.Positions(ctx, day("1999-12-31")); err == nil {
		t.Fatal("expected upstream error")
	}
	n, err := c.Len(ctx)
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 0 {
		t.Errorf("Len = %d after failed fetch, want 0", n)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.db")
	src := ephem.NewStatic(nil)
	src.Set("2024-03-20", []astro.Observation{{Name: "venus", Distance: 0.7}})
	ctx := context.Background()

	c, err := Open(path, src, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := c.Positions(ctx, day("2024-03-20")); err != nil {
		t.Fatalf("Positions: %v", err)
	}
	c.Close()

	c, err = Open(path, ephem.NewStatic(nil), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()

	obs, err := c.Positions(ctx, day("2024-03-20"))
	if err != nil {
		t.Fatalf("Positions after reopen: %v", err)
	}
	if len(obs) != 1 || obs[0].Name != "venus" {
		t.Errorf("obs = %+v", obs)
	}
}

func TestPurge(t *testing.T) {
	src := ephem.NewStatic(nil)
	src.Set("2024-03-20", []astro.Observation{{Name: "mars"}})
	c := openTest(t, src)
	ctx := context.Background()

	c.Positions(ctx, day("2024-03-20"))
	if err := c.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	c.Positions(ctx, day("2024-03-20"))

	if src.Calls() != 2 {
		t.Errorf("upstream calls = %d, want 2 after purge", src.Calls())
	}
}

func TestPlanetsPassthrough(t *testing.T) {
	c := openTest(t, ephem.NewStatic([]string{"mercury", "venus"}))
	names, err := c.Planets(context.Background())
	if err != nil {
		t.Fatalf("Planets: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v", names)
	}
}
