package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/state"
)

type (
	// CatalogMsg carries the body catalog fetched at startup.
	CatalogMsg struct {
		Names []string
		Err   error
	}

	// PositionsMsg carries the result of one positions request.
	PositionsMsg struct {
		Ticket       state.Ticket
		Observations []astro.Observation
		Duration     time.Duration
		Err          error
	}
)

func fetchCatalogCmd(src ephem.Source) tea.Cmd {
	return func() tea.Msg {
		names, err := src.Planets(context.Background())
		return CatalogMsg{Names: names, Err: err}
	}
}

func fetchPositionsCmd(src ephem.Source, t state.Ticket) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		obs, err := src.Positions(context.Background(), t.Date)
		return PositionsMsg{
			Ticket:       t,
			Observations: obs,
			Duration:     time.Since(start),
			Err:          err,
		}
	}
}
