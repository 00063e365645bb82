package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// polarEpsilon keeps the camera off the poles, where Up and the view
// direction become parallel.
const polarEpsilon = 1e-3

// OrbitControls moves a camera around its target. It never touches scene
// data.
type OrbitControls struct {
	Camera      PerspectiveCamera
	MinDistance float64
	MaxDistance float64

	initial PerspectiveCamera
}

// NewOrbitControls wraps a camera; Reset returns to it.
func NewOrbitControls(cam PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:      cam,
		MinDistance: 1,
		MaxDistance: 500,
		initial:     cam,
	}
}

// spherical returns radius, azimuth around +Y (0 on +Z) and polar angle
// from +Y of the camera offset.
func (o *OrbitControls) spherical() (r, theta, phi float64) {
	off := r3.Sub(o.Camera.Position, o.Camera.Target)
	r = r3.Norm(off)
	if r == 0 {
		return 0, 0, math.Pi / 2
	}
	theta = math.Atan2(off.X, off.Z)
	phi = math.Acos(clamp(off.Y/r, -1, 1))
	return r, theta, phi
}

func (o *OrbitControls) place(r, theta, phi float64) {
	sinPhi := math.Sin(phi)
	off := r3.Vec{
		X: r * sinPhi * math.Sin(theta),
		Y: r * math.Cos(phi),
		Z: r * sinPhi * math.Cos(theta),
	}
	o.Camera.Position = r3.Add(o.Camera.Target, off)
}

// Rotate orbits by the given azimuth and polar deltas in radians.
func (o *OrbitControls) Rotate(dAzimuth, dPolar float64) {
	r, theta, phi := o.spherical()
	theta += dAzimuth
	phi = clamp(phi+dPolar, polarEpsilon, math.Pi-polarEpsilon)
	o.place(r, theta, phi)
}

// Pan shifts camera and target together within the view plane. A delta
// of 1 moves by half the visible height at the target.
func (o *OrbitControls) Pan(dx, dy float64) {
	b := o.Camera.basis()
	k := o.Camera.Distance() * o.Camera.tanHalfFOV()
	move := r3.Add(r3.Scale(dx*k, b.right), r3.Scale(dy*k, b.up))
	o.Camera.Position = r3.Add(o.Camera.Position, move)
	o.Camera.Target = r3.Add(o.Camera.Target, move)
}

// Dolly scales the camera distance; factors below 1 zoom in.
func (o *OrbitControls) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	r, theta, phi := o.spherical()
	r = clamp(r*factor, o.MinDistance, o.MaxDistance)
	o.place(r, theta, phi)
}

// Reset restores the initial camera.
func (o *OrbitControls) Reset() {
	o.Camera = o.initial
}
