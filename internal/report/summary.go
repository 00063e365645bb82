// Package report writes the plain-text outputs of the headless modes.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

// SummaryRow is one body in the positions table.
type SummaryRow struct {
	Body      string
	RA        float64
	Dec       float64
	Distance  float64
	Magnitude float64
	X, Y, Z   float64
}

// GenerateSummaryRows converts observations to table rows, in input order.
func GenerateSummaryRows(obs []astro.Observation) []SummaryRow {
	rows := make([]SummaryRow, 0, len(obs))
	for _, o := range obs {
		p := astro.Project(o)
		rows = append(rows, SummaryRow{
			Body:      o.DisplayName(),
			RA:        o.RA,
			Dec:       o.Dec,
			Distance:  o.Distance,
			Magnitude: o.Magnitude,
			X:         p.X,
			Y:         p.Y,
			Z:         p.Z,
		})
	}
	return rows
}

// WriteSummary prints the info-panel lines for a date followed by a table
// of scene positions.
func WriteSummary(w io.Writer, date time.Time, obs []astro.Observation) {
	fmt.Fprintf(w, "Positions @ %s (JD %.1f)\n", astro.FormatDate(date), astro.JulianDay(date))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(obs) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	for _, o := range obs {
		fmt.Fprintln(w, astro.FormatObservation(o))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s %8s %8s %8s %6s %9s %9s %9s\n",
		"Body", "RA", "Dec", "AU", "Mag", "X", "Y", "Z")
	fmt.Fprintln(w, strings.Repeat("─", 78))
	for _, r := range GenerateSummaryRows(obs) {
		fmt.Fprintf(w, "%-10s %8.2f %8.2f %8.3f %6.2f %9.3f %9.3f %9.3f\n",
			truncateStr(r.Body, 10), r.RA, r.Dec, r.Distance, r.Magnitude, r.X, r.Y, r.Z)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies\n", len(obs))
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
