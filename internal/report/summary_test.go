package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
)

func TestWriteSummary(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	obs := []astro.Observation{
		{Name: "mars", RA: 0, Dec: 0, Distance: 1.5, Magnitude: 1.1},
		{Name: "planet-nine-candidate", RA: 90, Dec: 0, Distance: 2},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, date, obs)
	out := buf.String()

	for _, want := range []string{
		"Positions @ 2024-03-20 (JD 2460389.5)",
		"Mars: RA: 0.00°, DEC: 0.00°, Distance: 1.50 AU, Magnitude: 1.10",
		"Planet-nine-candidate: RA: 90.00°",
		"Planet-n..",
		"7.500",
		"Total: 2 bodies",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	if !strings.Contains(buf.String(), "No bodies") {
		t.Errorf("empty summary = %q", buf.String())
	}
}

func TestGenerateSummaryRows(t *testing.T) {
	rows := GenerateSummaryRows([]astro.Observation{{Name: "mars", Distance: 1.5}})
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Body != "Mars" || rows[0].X != 7.5 || rows[0].Y != 0 || rows[0].Z != 0 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Mars", 10, "Mars"},
		{"Planet-nine", 10, "Planet-n.."},
		{"Saturn", 3, "Sat"},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
