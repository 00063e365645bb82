// Package scene holds the 3-D scene graph for the current observations and
// rasterizes it to a character framebuffer.
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSegments is the tessellation used for every sphere.
const DefaultSegments = 32

// SphereGeometry is a UV sphere approximated by width × height segments.
type SphereGeometry struct {
	Radius         float64
	WidthSegments  int
	HeightSegments int
}

// NewSphereGeometry creates a sphere with the default tessellation.
func NewSphereGeometry(radius float64) SphereGeometry {
	return SphereGeometry{
		Radius:         radius,
		WidthSegments:  DefaultSegments,
		HeightSegments: DefaultSegments,
	}
}

// VertexCount returns the number of vertices in the UV grid.
func (g SphereGeometry) VertexCount() int {
	return (g.WidthSegments + 1) * (g.HeightSegments + 1)
}

// FaceCount returns the triangle count. The pole rows are single triangles.
func (g SphereGeometry) FaceCount() int {
	if g.HeightSegments < 2 {
		return 0
	}
	return 2 * g.WidthSegments * (g.HeightSegments - 1)
}

// Facet snaps a unit surface normal to the center of the segment that
// contains it, giving flat per-face shading.
func (g SphereGeometry) Facet(n r3.Vec) r3.Vec {
	if g.WidthSegments <= 0 || g.HeightSegments <= 0 {
		return n
	}

	theta := math.Atan2(n.Z, n.X)
	phi := math.Acos(clamp(n.Y, -1, 1))

	ws := 2 * math.Pi / float64(g.WidthSegments)
	hs := math.Pi / float64(g.HeightSegments)

	theta = (math.Floor(theta/ws) + 0.5) * ws
	phi = math.Min((math.Floor(phi/hs)+0.5)*hs, math.Pi-hs/2)

	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: sinPhi * math.Cos(theta),
		Y: math.Cos(phi),
		Z: sinPhi * math.Sin(theta),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
