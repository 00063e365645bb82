package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PerspectiveCamera looks from Position toward Target.
type PerspectiveCamera struct {
	FOV      float64 // Vertical field of view in degrees
	Near     float64
	Far      float64
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
}

// DefaultCameraDistance places the camera far enough out on +Z to frame
// the inner planets at startup.
const DefaultCameraDistance = 20

// DefaultCamera returns the startup camera.
func DefaultCamera() PerspectiveCamera {
	return PerspectiveCamera{
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: r3.Vec{Z: DefaultCameraDistance},
		Up:       r3.Vec{Y: 1},
	}
}

// viewBasis is the camera's orthonormal frame in world space.
type viewBasis struct {
	right, up, forward r3.Vec
}

func (c PerspectiveCamera) basis() viewBasis {
	f := r3.Unit(r3.Sub(c.Target, c.Position))
	r := r3.Unit(r3.Cross(f, c.Up))
	u := r3.Cross(r, f)
	return viewBasis{right: r, up: u, forward: f}
}

// toView expresses a world point in camera coordinates; Z is depth.
func (c PerspectiveCamera) toView(b viewBasis, p r3.Vec) r3.Vec {
	d := r3.Sub(p, c.Position)
	return r3.Vec{
		X: r3.Dot(d, b.right),
		Y: r3.Dot(d, b.up),
		Z: r3.Dot(d, b.forward),
	}
}

func (c PerspectiveCamera) tanHalfFOV() float64 {
	return math.Tan(c.FOV * math.Pi / 360)
}

// Distance returns the camera to target distance.
func (c PerspectiveCamera) Distance() float64 {
	return r3.Norm(r3.Sub(c.Position, c.Target))
}
