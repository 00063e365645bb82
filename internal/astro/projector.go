package astro

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// DisplayScale is the number of scene units per astronomical unit.
const DisplayScale = 5.0

// Project maps an observation to its position in the scene.
//
// The mapping is a display projection, not a spherical-to-Cartesian
// conversion: X and Z follow right ascension around the vertical axis and
// Y follows declination alone.
//
//	x = cos(ra) * d
//	y = sin(dec) * d
//	z = sin(ra) * d
//
// where d is the distance in AU times DisplayScale. Inputs are not
// validated; NaN and negative distances pass straight through.
func Project(o Observation) r3.Vec {
	return projectAngles(o.RA, o.Dec, o.Distance)
}

func projectAngles(raDeg, decDeg, distAU float64) r3.Vec {
	ra := unit.AngleFromDeg(raDeg).Rad()
	dec := unit.AngleFromDeg(decDeg).Rad()
	d := distAU * DisplayScale

	return r3.Vec{
		X: math.Cos(ra) * d,
		Y: math.Sin(dec) * d,
		Z: math.Sin(ra) * d,
	}
}
