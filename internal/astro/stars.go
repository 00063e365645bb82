package astro

import "gonum.org/v1/gonum/spatial/r3"

// StarShellAU is the distance at which background stars are placed.
// It keeps them well outside the orbit of Pluto.
const StarShellAU = 40.0

// Star is a catalog star used for the background field.
type Star struct {
	Name   string
	RAdeg  float64 // J2000
	DecDeg float64 // J2000
	Mag    float64 // Apparent visual magnitude (lower = brighter)
}

// Position places the star on the background shell using the same mapping
// as Project, so bodies and stars share one frame.
func (s Star) Position() r3.Vec {
	return projectAngles(s.RAdeg, s.DecDeg, StarShellAU)
}

// BrightStars returns the background catalog, brightest first.
func BrightStars() []Star {
	out := make([]Star, len(brightStars))
	copy(out, brightStars)
	return out
}

var brightStars = []Star{
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.826, 5.225, 0.34},
	{"Achernar", 24.429, -57.237, 0.46},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Hadar", 210.956, -60.373, 0.61},
	{"Altair", 297.696, 8.868, 0.76},
	{"Acrux", 186.650, -63.099, 0.76},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Castor", 113.650, 31.889, 1.58},
	{"Bellatrix", 81.283, 6.350, 1.64},
	{"Alnilam", 84.053, -1.202, 1.69},
	{"Alioth", 193.507, 55.960, 1.77},
	{"Dubhe", 165.932, 61.751, 1.79},
	{"Mirfak", 51.081, 49.861, 1.79},
	{"Alkaid", 206.885, 49.313, 1.86},
	{"Polaris", 37.954, 89.264, 2.02},
	{"Hamal", 31.793, 23.463, 2.00},
	{"Alpheratz", 2.097, 29.091, 2.06},
	{"Algol", 47.042, 40.957, 2.12},
	{"Denebola", 177.265, 14.572, 2.13},
	{"Schedar", 10.127, 56.537, 2.23},
	{"Enif", 326.046, 9.875, 2.39},
	{"Markab", 346.190, 15.205, 2.49},
}

// StarGlyph picks a background glyph by magnitude.
func StarGlyph(mag float64) rune {
	switch {
	case mag <= 1.0:
		return '∗'
	case mag <= 2.5:
		return '·'
	default:
		return '˙'
	}
}
