package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Kind distinguishes the central star from bodies.
type Kind int

const (
	KindStar Kind = iota
	KindBody
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// Mesh is one sphere in the scene.
type Mesh struct {
	Name        string
	Kind        Kind
	Position    r3.Vec
	Geometry    SphereGeometry
	Color       astro.Color
	Observation astro.Observation // Zero for the star
}

// Scene is the central star, the bodies for the current observation list,
// and the lights.
type Scene struct {
	Ambient AmbientLight
	Light   PointLight

	star       Mesh
	bodies     []Mesh
	generation uint64
}

// New creates an empty scene holding only the central star.
func New() *Scene {
	return &Scene{
		Ambient: DefaultAmbient,
		Light:   DefaultPoint,
		star:    starMesh(),
		bodies:  []Mesh{},
	}
}

func starMesh() Mesh {
	return Mesh{
		Name:     astro.SunName,
		Kind:     KindStar,
		Position: r3.Vec{},
		Geometry: NewSphereGeometry(astro.SunAttributes.Radius),
		Color:    astro.SunAttributes.Color,
	}
}

// BodyMesh builds the mesh for one observation.
func BodyMesh(o astro.Observation) Mesh {
	attrs := astro.AttributesFor(o.Name)
	return Mesh{
		Name:        o.Name,
		Kind:        KindBody,
		Position:    astro.Project(o),
		Geometry:    NewSphereGeometry(attrs.Radius),
		Color:       attrs.Color,
		Observation: o,
	}
}

// Rebuild discards every body mesh and creates one per observation, in
// order. The star is untouched.
func (s *Scene) Rebuild(obs []astro.Observation) {
	bodies := make([]Mesh, 0, len(obs))
	for _, o := range obs {
		bodies = append(bodies, BodyMesh(o))
	}
	s.bodies = bodies
	s.generation++
}

// Star returns the central star mesh.
func (s *Scene) Star() Mesh {
	return s.star
}

// Bodies returns a copy of the body meshes.
func (s *Scene) Bodies() []Mesh {
	out := make([]Mesh, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Meshes returns every mesh, star first.
func (s *Scene) Meshes() []Mesh {
	out := make([]Mesh, 0, len(s.bodies)+1)
	out = append(out, s.star)
	return append(out, s.bodies...)
}

// Len returns the mesh count, always 1 + number of bodies.
func (s *Scene) Len() int {
	return len(s.bodies) + 1
}

// Empty reports whether only the star is present.
func (s *Scene) Empty() bool {
	return len(s.bodies) == 0
}

// Generation counts rebuilds.
func (s *Scene) Generation() uint64 {
	return s.generation
}
