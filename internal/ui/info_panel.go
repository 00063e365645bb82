package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
)

// InfoPanelModel lists the current observations, one line per body.
type InfoPanelModel struct {
	width        int
	date         string
	observations []astro.Observation
}

// NewInfoPanelModel creates an empty info panel.
func NewInfoPanelModel() InfoPanelModel {
	return InfoPanelModel{}
}

// SetWidth updates the panel width.
func (m InfoPanelModel) SetWidth(width int) InfoPanelModel {
	m.width = width
	return m
}

// UpdateData replaces the listed observations.
func (m InfoPanelModel) UpdateData(date string, obs []astro.Observation) InfoPanelModel {
	m.date = date
	m.observations = obs
	return m
}

// Height returns the number of lines View produces.
func (m InfoPanelModel) Height() int {
	if len(m.observations) == 0 {
		return 2
	}
	return len(m.observations) + 1
}

// View renders the panel.
func (m InfoPanelModel) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	title := "  Positions"
	if m.date != "" {
		title += " for " + m.date
	}
	b.WriteString(titleStyle.Render(title))

	if len(m.observations) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  No data"))
		return b.String()
	}

	for _, o := range m.observations {
		b.WriteString("\n")
		line := "  " + astro.FormatObservation(o)
		if m.width > 0 && len([]rune(line)) > m.width {
			line = string([]rune(line)[:m.width])
		}
		b.WriteString(line)
	}
	return b.String()
}
