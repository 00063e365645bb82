package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/astro"
)

// AmbientLight lights every surface equally.
type AmbientLight struct {
	Color     astro.Color
	Intensity float64
}

// PointLight emits from a single point in all directions.
type PointLight struct {
	Position  r3.Vec
	Color     astro.Color
	Intensity float64
}

// Default lights.
var (
	DefaultAmbient = AmbientLight{Color: "#ffffff", Intensity: 0.5}
	DefaultPoint   = PointLight{Position: r3.Vec{X: 10, Y: 10, Z: 10}, Color: "#ffffff", Intensity: 1}
)

const shininess = 32

// Lighting is the result of shading one surface point.
type Lighting struct {
	Diffuse  float64 // Ambient plus Lambert term
	Specular float64 // Blinn-Phong highlight
}

// Shade computes diffuse and specular terms at a surface point with unit
// normal n, seen from eye.
func Shade(ambient AmbientLight, light PointLight, point, n, eye r3.Vec) Lighting {
	l := r3.Unit(r3.Sub(light.Position, point))
	lambert := math.Max(0, r3.Dot(n, l))

	var spec float64
	if lambert > 0 {
		v := r3.Unit(r3.Sub(eye, point))
		h := r3.Unit(r3.Add(l, v))
		spec = math.Pow(math.Max(0, r3.Dot(n, h)), shininess) * 0.3 * light.Intensity
	}

	return Lighting{
		Diffuse:  ambient.Intensity + light.Intensity*lambert,
		Specular: spec,
	}
}

// Apply tints a base color by the lighting terms and returns a hex color.
// Unparseable colors are treated as white.
func (lt Lighting) Apply(base astro.Color) astro.Color {
	c, err := colorful.Hex(string(base))
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	shaded := colorful.Color{
		R: c.R*lt.Diffuse + lt.Specular,
		G: c.G*lt.Diffuse + lt.Specular,
		B: c.B*lt.Diffuse + lt.Specular,
	}
	return astro.Color(shaded.Clamped().Hex())
}

// Intensity collapses the lighting terms into a single brightness in
// [0, 1], used for monochrome output.
func (lt Lighting) Intensity() float64 {
	return clamp((lt.Diffuse+lt.Specular)/1.5, 0, 1)
}
