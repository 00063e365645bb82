package scene

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/astro"
)

func sampleObservations() []astro.Observation {
	return []astro.Observation{
		{Name: "mercury", RA: 30, Dec: 5, Distance: 0.39, Magnitude: -0.4},
		{Name: "venus", RA: 80, Dec: 20, Distance: 0.72, Magnitude: -4.1},
		{Name: "mars", RA: 0, Dec: 0, Distance: 1.5, Magnitude: 1.1},
		{Name: "jupiter", RA: 200, Dec: -10, Distance: 5.2, Magnitude: -2.3},
		{Name: "comet-x", RA: 300, Dec: 45, Distance: 2.0, Magnitude: 9},
	}
}

func TestNewSceneHasOnlyStar(t *testing.T) {
	s := New()

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if !s.Empty() {
		t.Error("new scene should be empty")
	}

	star := s.Star()
	if star.Kind != KindStar || star.Position != (r3.Vec{}) {
		t.Errorf("star = %+v", star)
	}
	if star.Color != "#ffd700" || star.Geometry.Radius != 1 {
		t.Errorf("star attributes = %s / %v", star.Color, star.Geometry.Radius)
	}
	if star.Geometry.WidthSegments != 32 || star.Geometry.HeightSegments != 32 {
		t.Errorf("star tessellation = %dx%d", star.Geometry.WidthSegments, star.Geometry.HeightSegments)
	}
}

func TestRebuildBodyCount(t *testing.T) {
	obs := sampleObservations()
	for n := 0; n <= len(obs); n++ {
		s := New()
		s.Rebuild(obs[:n])
		if s.Len() != n+1 {
			t.Errorf("after %d observations Len = %d, want %d", n, s.Len(), n+1)
		}
		if len(s.Meshes()) != n+1 {
			t.Errorf("Meshes() has %d entries, want %d", len(s.Meshes()), n+1)
		}
	}
}

func TestRebuildEmptyList(t *testing.T) {
	s := New()
	s.Rebuild(sampleObservations())
	s.Rebuild([]astro.Observation{})

	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1 (star only)", s.Len())
	}
	if s.Meshes()[0].Kind != KindStar {
		t.Error("first mesh should be the star")
	}

	s.Rebuild(nil)
	if s.Len() != 1 {
		t.Errorf("nil list: Len = %d, want 1", s.Len())
	}
}

func TestRebuildDropsStaleBodies(t *testing.T) {
	s := New()
	s.Rebuild(sampleObservations())
	s.Rebuild([]astro.Observation{{Name: "pluto", RA: 10, Distance: 34}})

	bodies := s.Bodies()
	if len(bodies) != 1 || bodies[0].Name != "pluto" {
		t.Fatalf("bodies = %+v", bodies)
	}
	for _, m := range s.Meshes() {
		if m.Name == "mars" {
			t.Error("mars survived rebuild")
		}
	}
}

func TestRebuildIdempotent(t *testing.T) {
	obs := sampleObservations()
	s := New()
	s.Rebuild(obs)
	first := s.Meshes()

	for i := 0; i < 5; i++ {
		s.Rebuild(obs)
	}
	again := s.Meshes()

	if len(first) != len(again) {
		t.Fatalf("mesh count drifted: %d vs %d", len(first), len(again))
	}
	for i := range first {
		if first[i] != again[i] {
			t.Errorf("mesh %d drifted: %+v vs %+v", i, first[i], again[i])
		}
	}
	if s.Generation() != 6 {
		t.Errorf("Generation = %d, want 6", s.Generation())
	}
}

func TestBodyMesh(t *testing.T) {
	m := BodyMesh(astro.Observation{Name: "mars", RA: 0, Dec: 0, Distance: 1.5})

	if m.Position != (r3.Vec{X: 7.5}) {
		t.Errorf("Position = %v, want (7.5, 0, 0)", m.Position)
	}
	if m.Color != "#ff4d4d" || m.Geometry.Radius != 0.3 {
		t.Errorf("attributes = %s / %v", m.Color, m.Geometry.Radius)
	}
	if m.Kind != KindBody {
		t.Errorf("Kind = %v", m.Kind)
	}

	unknown := BodyMesh(astro.Observation{Name: "xyz"})
	if unknown.Color != astro.DefaultAttributes.Color || unknown.Geometry.Radius != astro.DefaultAttributes.Radius {
		t.Errorf("unknown body attributes = %s / %v", unknown.Color, unknown.Geometry.Radius)
	}
}

func TestRebuildPreservesOrder(t *testing.T) {
	obs := sampleObservations()
	s := New()
	s.Rebuild(obs)

	bodies := s.Bodies()
	for i, o := range obs {
		if bodies[i].Name != o.Name {
			t.Errorf("body %d = %s, want %s", i, bodies[i].Name, o.Name)
		}
	}
}

func TestBodiesReturnsCopy(t *testing.T) {
	s := New()
	s.Rebuild(sampleObservations())
	b := s.Bodies()
	b[0].Name = "mutated"
	if s.Bodies()[0].Name == "mutated" {
		t.Error("Bodies shares its slice with the scene")
	}
}

func TestKindString(t *testing.T) {
	if KindStar.String() != "star" || KindBody.String() != "body" || Kind(7).String() != "unknown" {
		t.Error("unexpected Kind strings")
	}
}
