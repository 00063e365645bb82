package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Export is the JSON-serializable representation of a scene and camera.
type Export struct {
	Date   string        `json:"date,omitempty"`
	Camera CameraExport  `json:"camera"`
	Lights []LightExport `json:"lights"`
	Meshes []MeshExport  `json:"meshes"`
}

// CameraExport is a JSON-friendly perspective camera.
type CameraExport struct {
	FOV      float64    `json:"fov"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
}

// LightExport is a JSON-friendly light.
type LightExport struct {
	Type      string      `json:"type"`
	Color     string      `json:"color"`
	Intensity float64     `json:"intensity"`
	Position  *[3]float64 `json:"position,omitempty"`
}

// MeshExport is a JSON-friendly sphere mesh.
type MeshExport struct {
	Name           string     `json:"name"`
	Kind           string     `json:"kind"`
	Position       [3]float64 `json:"position"`
	Radius         float64    `json:"radius"`
	Color          string     `json:"color"`
	WidthSegments  int        `json:"width_segments"`
	HeightSegments int        `json:"height_segments"`
	RA             *float64   `json:"ra,omitempty"`
	Dec            *float64   `json:"dec,omitempty"`
	DistanceAU     *float64   `json:"distance_au,omitempty"`
	Magnitude      *float64   `json:"magnitude,omitempty"`
}

func vec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// ExportScene converts a scene and camera to an exportable form.
func ExportScene(s *Scene, cam PerspectiveCamera, date string) Export {
	lightPos := vec(s.Light.Position)
	export := Export{
		Date: date,
		Camera: CameraExport{
			FOV:      cam.FOV,
			Near:     cam.Near,
			Far:      cam.Far,
			Position: vec(cam.Position),
			Target:   vec(cam.Target),
		},
		Lights: []LightExport{
			{Type: "ambient", Color: string(s.Ambient.Color), Intensity: s.Ambient.Intensity},
			{Type: "point", Color: string(s.Light.Color), Intensity: s.Light.Intensity, Position: &lightPos},
		},
	}

	for _, m := range s.Meshes() {
		me := MeshExport{
			Name:           m.Name,
			Kind:           m.Kind.String(),
			Position:       vec(m.Position),
			Radius:         m.Geometry.Radius,
			Color:          string(m.Color),
			WidthSegments:  m.Geometry.WidthSegments,
			HeightSegments: m.Geometry.HeightSegments,
		}
		if m.Kind == KindBody {
			o := m.Observation
			me.RA, me.Dec, me.DistanceAU, me.Magnitude = &o.RA, &o.Dec, &o.Distance, &o.Magnitude
		}
		export.Meshes = append(export.Meshes, me)
	}

	return export
}

// WriteJSON writes the export as indented JSON.
func (e Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
