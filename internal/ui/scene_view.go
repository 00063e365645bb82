package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Camera step sizes per key press.
const (
	rotateStep = 0.1  // radians
	panStep    = 0.1  // fraction of the half view height
	zoomIn     = 0.8  // dolly factor
	zoomOut    = 1.25 // dolly factor
)

// SceneViewModel renders the 3-D scene and owns the camera keys.
type SceneViewModel struct {
	width    int
	height   int
	colored  bool
	renderer *scene.Renderer
}

// NewSceneViewModel creates a scene view with an empty scene.
func NewSceneViewModel(opts scene.Options) SceneViewModel {
	return SceneViewModel{
		colored:  true,
		renderer: scene.NewRenderer(opts),
	}
}

// SetSize updates the viewport size.
func (m SceneViewModel) SetSize(width, height int) SceneViewModel {
	m.width = width
	m.height = height
	return m
}

// SetColored switches between truecolor and glyph-ramp output.
func (m SceneViewModel) SetColored(colored bool) SceneViewModel {
	m.colored = colored
	return m
}

// SetObservations rebuilds every body mesh.
func (m SceneViewModel) SetObservations(obs []astro.Observation) SceneViewModel {
	m.renderer.Update(obs)
	return m
}

// Scene returns the rendered scene.
func (m SceneViewModel) Scene() *scene.Scene {
	return m.renderer.Scene()
}

// Camera returns the current camera.
func (m SceneViewModel) Camera() scene.PerspectiveCamera {
	return m.renderer.Camera()
}

// Options returns the overlay settings.
func (m SceneViewModel) Options() scene.Options {
	return m.renderer.Options()
}

// Update handles camera and overlay keys. Nothing here touches the meshes.
func (m SceneViewModel) Update(msg tea.Msg) (SceneViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	c := m.renderer.Controls()
	switch key.String() {
	case "left":
		c.Rotate(-rotateStep, 0)
	case "right":
		c.Rotate(rotateStep, 0)
	case "up":
		c.Rotate(0, -rotateStep)
	case "down":
		c.Rotate(0, rotateStep)

	case "w":
		c.Pan(0, panStep)
	case "s":
		c.Pan(0, -panStep)
	case "a":
		c.Pan(-panStep, 0)
	case "d":
		c.Pan(panStep, 0)

	case "+", "=":
		c.Dolly(zoomIn)
	case "-", "_":
		c.Dolly(zoomOut)

	case "r":
		c.Reset()

	case "l":
		opts := m.renderer.Options()
		opts.ShowLabels = !opts.ShowLabels
		m.renderer.SetOptions(opts)
	case "*":
		opts := m.renderer.Options()
		opts.ShowStars = !opts.ShowStars
		m.renderer.SetOptions(opts)
	}

	return m, nil
}

// View renders one frame at the current size.
func (m SceneViewModel) View() string {
	if m.width < 10 || m.height < 4 {
		return "Scene view requires larger terminal"
	}
	return m.renderer.Frame(m.width, m.height).String(m.colored)
}
