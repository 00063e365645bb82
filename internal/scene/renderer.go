package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Options toggle optional overlays.
type Options struct {
	ShowStars  bool
	ShowLabels bool
}

// DefaultOptions shows the starfield and body labels.
func DefaultOptions() Options {
	return Options{ShowStars: true, ShowLabels: true}
}

// Renderer owns a scene and the camera looking at it.
type Renderer struct {
	scene    *Scene
	controls *OrbitControls
	opts     Options
	stars    []astro.Star
}

// NewRenderer creates a renderer with an empty scene and the default camera.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		scene:    New(),
		controls: NewOrbitControls(DefaultCamera()),
		opts:     opts,
		stars:    astro.BrightStars(),
	}
}

// Update rebuilds the scene from an observation list.
func (r *Renderer) Update(obs []astro.Observation) {
	r.scene.Rebuild(obs)
}

// Scene returns the owned scene.
func (r *Renderer) Scene() *Scene {
	return r.scene
}

// Controls returns the camera controls.
func (r *Renderer) Controls() *OrbitControls {
	return r.controls
}

// Camera returns the current camera.
func (r *Renderer) Camera() PerspectiveCamera {
	return r.controls.Camera
}

// Options returns the overlay settings.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the overlay settings.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

// Frame rasterizes the scene at the given size in cells.
func (r *Renderer) Frame(width, height int) *Framebuffer {
	fb := NewFramebuffer(width, height)
	if width == 0 || height == 0 {
		return fb
	}

	cam := r.controls.Camera
	b := cam.basis()
	meshes := r.scene.Meshes()

	if r.opts.ShowStars {
		r.drawStars(fb, cam, b)
	}
	for i, m := range meshes {
		r.drawSphere(fb, cam, b, i, m)
	}
	if r.opts.ShowLabels {
		r.drawLabels(fb, cam, b, meshes)
	}

	return fb
}

func (r *Renderer) drawStars(fb *Framebuffer, cam PerspectiveCamera, b viewBasis) {
	for _, s := range r.stars {
		vp := cam.toView(b, s.Position())
		if vp.Z < cam.Near || vp.Z > cam.Far {
			continue
		}
		k := 1 / (vp.Z * cam.tanHalfFOV())
		x, y := fb.toScreen(vp.X*k, vp.Y*k)
		if !fb.in(x, y) || fb.At(x, y).Kind != CellEmpty {
			continue
		}
		fb.set(x, y, Cell{
			Kind:  CellStar,
			Glyph: astro.StarGlyph(s.Mag),
			Color: "#585858",
			Depth: vp.Z,
			Mesh:  -1,
		})
	}
}

func (r *Renderer) drawSphere(fb *Framebuffer, cam PerspectiveCamera, b viewBasis, idx int, m Mesh) {
	center := cam.toView(b, m.Position)
	radius := m.Geometry.Radius
	if center.Z-radius < cam.Near || center.Z+radius > cam.Far || radius <= 0 {
		return
	}
	if math.IsNaN(center.X) || math.IsNaN(center.Y) || math.IsNaN(center.Z) {
		return
	}

	k := 1 / (center.Z * cam.tanHalfFOV())
	cu, cv := center.X*k, center.Y*k
	pr := radius * k

	h := float64(fb.Height)
	x0 := int(math.Floor(float64(fb.Width)/2 + (cu-pr)*h))
	x1 := int(math.Ceil(float64(fb.Width)/2 + (cu+pr)*h))
	y0 := int(math.Floor(h/2 - (cv+pr)*h/2))
	y1 := int(math.Ceil(h/2 - (cv-pr)*h/2))

	covered := false
	for y := max(y0, 0); y <= min(y1, fb.Height-1); y++ {
		for x := max(x0, 0); x <= min(x1, fb.Width-1); x++ {
			pu, pv := fb.cellCenter(x, y)
			dx := (pu - cu) / pr
			dy := (pv - cv) / pr
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			nz := math.Sqrt(1 - d2)
			depth := center.Z - nz*radius
			if depth >= fb.At(x, y).Depth {
				covered = true
				continue
			}

			n := r3.Unit(r3.Add(
				r3.Add(r3.Scale(dx, b.right), r3.Scale(dy, b.up)),
				r3.Scale(-nz, b.forward),
			))
			fb.set(x, y, r.shadeCell(cam, idx, m, m.Geometry.Facet(n), depth, '█'))
			covered = true
		}
	}

	// Too small to cover a cell center: mark the center cell.
	if !covered {
		x, y := fb.toScreen(cu, cv)
		if fb.in(x, y) && center.Z < fb.At(x, y).Depth {
			toEye := r3.Unit(r3.Scale(-1, b.forward))
			fb.set(x, y, r.shadeCell(cam, idx, m, toEye, center.Z, '•'))
		}
	}
}

func (r *Renderer) shadeCell(cam PerspectiveCamera, idx int, m Mesh, n r3.Vec, depth float64, glyph rune) Cell {
	surface := r3.Add(m.Position, r3.Scale(m.Geometry.Radius, n))
	lt := Shade(r.scene.Ambient, r.scene.Light, surface, n, cam.Position)
	return Cell{
		Kind:      CellMesh,
		Glyph:     glyph,
		Color:     lt.Apply(m.Color),
		Depth:     depth,
		Intensity: lt.Intensity(),
		Mesh:      idx,
	}
}

// drawLabels writes each mesh's name to the right of its center on empty
// or star cells.
func (r *Renderer) drawLabels(fb *Framebuffer, cam PerspectiveCamera, b viewBasis, meshes []Mesh) {
	for _, m := range meshes {
		vp := cam.toView(b, m.Position)
		if vp.Z < cam.Near || vp.Z > cam.Far {
			continue
		}
		k := 1 / (vp.Z * cam.tanHalfFOV())
		x, y := fb.toScreen(vp.X*k, vp.Y*k)
		if y < 0 || y >= fb.Height {
			continue
		}

		// Start past the sphere's right edge.
		edge := int(math.Ceil(m.Geometry.Radius * k * float64(fb.Height)))
		x += edge + 1

		label := "Sun"
		if m.Kind == KindBody {
			label = m.Observation.DisplayName()
		}

		for i, ch := range []rune(label) {
			lx := x + i
			if lx < 0 {
				continue
			}
			if lx >= fb.Width {
				break
			}
			c := fb.At(lx, y)
			if c.Kind != CellEmpty && c.Kind != CellStar {
				break
			}
			fb.set(lx, y, Cell{Kind: CellLabel, Glyph: ch, Depth: math.Inf(1), Mesh: -1})
		}
	}
}
