package astro

// Color is a hex RGB color such as "#ff4d4d".
type Color string

// Attributes describe how a body is drawn.
type Attributes struct {
	Color  Color
	Radius float64 // Sphere radius in scene units
}

// DefaultAttributes is used for any body not in the table.
var DefaultAttributes = Attributes{Color: "#ffffff", Radius: 0.3}

// SunAttributes is the fixed look of the central star.
var SunAttributes = Attributes{Color: "#ffd700", Radius: 1.0}

// SunName labels the central star mesh.
const SunName = "sun"

var bodyAttributes = map[string]Attributes{
	"mercury": {Color: "#b5b5b5", Radius: 0.2},
	"venus":   {Color: "#e6b800", Radius: 0.4},
	"mars":    {Color: "#ff4d4d", Radius: 0.3},
	"jupiter": {Color: "#ffad33", Radius: 0.8},
	"saturn":  {Color: "#ffd700", Radius: 0.7},
	"uranus":  {Color: "#99ccff", Radius: 0.5},
	"neptune": {Color: "#4d94ff", Radius: 0.5},
	"pluto":   {Color: "#999999", Radius: 0.2},
}

// AttributesFor returns the display attributes for a body name.
// Lookup is exact and case-sensitive.
func AttributesFor(name string) Attributes {
	if a, ok := bodyAttributes[name]; ok {
		return a
	}
	return DefaultAttributes
}

// KnownBodies returns the names that have dedicated attributes, ordered
// outward from the Sun.
func KnownBodies() []string {
	return []string{"mercury", "venus", "mars", "jupiter", "saturn", "uranus", "neptune", "pluto"}
}
