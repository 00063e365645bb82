package astro

import (
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// DateLayout is the calendar date format used by the ephemeris service.
const DateLayout = "2006-01-02"

// Observation is one body's equatorial position on a given date, as
// reported by the ephemeris service.
type Observation struct {
	Name      string  `json:"name" msgpack:"name"`           // Lowercase canonical body name
	RA        float64 `json:"ra" msgpack:"ra"`               // Right ascension in degrees [0, 360)
	Dec       float64 `json:"dec" msgpack:"dec"`             // Declination in degrees [-90, 90]
	Distance  float64 `json:"distance" msgpack:"distance"`   // Heliocentric distance in AU
	Magnitude float64 `json:"magnitude" msgpack:"magnitude"` // Apparent visual magnitude
}

// DisplayName returns the body name with its first letter capitalised.
func (o Observation) DisplayName() string {
	if o.Name == "" {
		return ""
	}
	return strings.ToUpper(o.Name[:1]) + o.Name[1:]
}

// FormatObservation renders the one-line info summary for a body.
func FormatObservation(o Observation) string {
	return fmt.Sprintf("%s: RA: %.2f°, DEC: %.2f°, Distance: %.2f AU, Magnitude: %.2f",
		o.DisplayName(), o.RA, o.Dec, o.Distance, o.Magnitude)
}

// FormatDate formats a date the way the ephemeris service expects it.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a yyyy-MM-dd date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Today returns the current local calendar date at midnight UTC.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// JulianDay returns the Julian day number at 0h UT of the given date.
func JulianDay(date time.Time) float64 {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return julian.TimeToJD(d)
}
