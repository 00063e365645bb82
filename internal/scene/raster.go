package scene

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
)

// CellKind says what occupies a framebuffer cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellStar
	CellMesh
	CellLabel
)

// Cell is one terminal character of the rendered frame.
type Cell struct {
	Kind      CellKind
	Glyph     rune
	Color     astro.Color
	Depth     float64
	Intensity float64
	Mesh      int // Index into Scene.Meshes, -1 if none
}

// Framebuffer is a row-major grid of cells. Terminal cells are treated as
// twice as tall as they are wide.
type Framebuffer struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewFramebuffer creates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	fb.Clear()
	return fb
}

// Clear resets every cell.
func (fb *Framebuffer) Clear() {
	for i := range fb.Cells {
		fb.Cells[i] = Cell{Kind: CellEmpty, Glyph: ' ', Depth: math.Inf(1), Mesh: -1}
	}
}

// At returns the cell at column x, row y.
func (fb *Framebuffer) At(x, y int) Cell {
	return fb.Cells[y*fb.Width+x]
}

func (fb *Framebuffer) in(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

func (fb *Framebuffer) set(x, y int, c Cell) {
	fb.Cells[y*fb.Width+x] = c
}

// toScreen maps projected (u, v) to a cell. v spans [-1, 1] over the
// height; u uses the same units, so a cell is 1/H wide and 2/H tall.
func (fb *Framebuffer) toScreen(u, v float64) (int, int) {
	h := float64(fb.Height)
	x := int(math.Floor(float64(fb.Width)/2 + u*h))
	y := int(math.Floor(h/2 - v*h/2))
	return x, y
}

// cellCenter is the inverse of toScreen for a cell's center.
func (fb *Framebuffer) cellCenter(x, y int) (float64, float64) {
	h := float64(fb.Height)
	u := (float64(x) + 0.5 - float64(fb.Width)/2) / h
	v := (h/2 - (float64(y) + 0.5)) * 2 / h
	return u, v
}

// MeshCoverage counts cells covered by each mesh index.
func (fb *Framebuffer) MeshCoverage() map[int]int {
	cov := make(map[int]int)
	for _, c := range fb.Cells {
		if c.Kind == CellMesh {
			cov[c.Mesh]++
		}
	}
	return cov
}

// shadeRamp orders glyphs from dark to bright for monochrome output.
const shadeRamp = ".:-=+*#%@"

func rampGlyph(intensity float64) rune {
	r := []rune(shadeRamp)
	i := int(intensity * float64(len(r)-1))
	if i < 0 {
		i = 0
	}
	if i >= len(r) {
		i = len(r) - 1
	}
	return r[i]
}

// String renders the frame. With colored set, mesh cells are solid blocks
// in their shaded color; otherwise brightness is shown with a glyph ramp.
func (fb *Framebuffer) String(colored bool) string {
	var b strings.Builder

	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
	meshStyles := make(map[astro.Color]lipgloss.Style)

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			switch c.Kind {
			case CellEmpty:
				b.WriteRune(' ')
			case CellStar:
				if colored {
					b.WriteString(starStyle.Render(string(c.Glyph)))
				} else {
					b.WriteRune(c.Glyph)
				}
			case CellLabel:
				if colored {
					b.WriteString(labelStyle.Render(string(c.Glyph)))
				} else {
					b.WriteRune(c.Glyph)
				}
			case CellMesh:
				if !colored {
					b.WriteRune(rampGlyph(c.Intensity))
					continue
				}
				style, ok := meshStyles[c.Color]
				if !ok {
					style = lipgloss.NewStyle().Foreground(lipgloss.Color(string(c.Color)))
					meshStyles[c.Color] = style
				}
				b.WriteString(style.Render(string(c.Glyph)))
			}
		}
		if y < fb.Height-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}
