// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// Metrics receives UI-side events. *observability.Collector satisfies it.
type Metrics interface {
	ObserveStale()
	SetSceneMeshes(n int)
}

type noMetrics struct{}

func (noMetrics) ObserveStale()      {}
func (noMetrics) SetSceneMeshes(int) {}

// AnimTickMsg triggers spinner and shimmer updates.
type AnimTickMsg time.Time

// Option configures the root model.
type Option func(*Model)

// WithLogger sets the logger. The default discards.
func WithLogger(l *logging.Logger) Option {
	return func(m *Model) {
		m.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(mt Metrics) Option {
	return func(m *Model) {
		m.metrics = mt
	}
}

// WithSceneOptions sets the initial overlay settings.
func WithSceneOptions(opts scene.Options) Option {
	return func(m *Model) {
		m.sceneView = NewSceneViewModel(opts)
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	src     ephem.Source
	log     *logging.Logger
	metrics Metrics

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	showInfo  bool

	// Date entry
	entering  bool
	dateInput string

	// Sub-models
	sceneView SceneViewModel
	info      InfoPanelModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, src ephem.Source, opts ...Option) Model {
	m := Model{
		state:     stateMgr,
		src:       src,
		log:       logging.Discard(),
		metrics:   noMetrics{},
		showInfo:  true,
		sceneView: NewSceneViewModel(scene.DefaultOptions()),
		info:      NewInfoPanelModel(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	if m.metrics == nil {
		m.metrics = noMetrics{}
	}
	m.metrics.SetSceneMeshes(m.sceneView.Scene().Len())
	m.snapshot = stateMgr.Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchCatalogCmd(m.src),
		m.requestPositions(),
		animTickCmd(),
	)
}

// requestPositions issues a ticket for the selected date and returns the
// command that fetches it.
func (m *Model) requestPositions() tea.Cmd {
	t := m.state.BeginFetch()
	m.snapshot = m.state.Snapshot()
	m.log.Debug("fetch positions %s (seq %d)", astro.FormatDate(t.Date), t.Seq)
	return fetchPositionsCmd(m.src, t)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.entering {
			cmds = append(cmds, m.updateDateEntry(msg))
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case ",":
			m.state.ShiftDate(-1)
			cmds = append(cmds, m.requestPositions())
		case ".":
			m.state.ShiftDate(1)
			cmds = append(cmds, m.requestPositions())
		case "t":
			m.state.SetDate(astro.Today())
			cmds = append(cmds, m.requestPositions())
		case "u", "enter":
			cmds = append(cmds, m.requestPositions())

		case "/":
			m.entering = true
			m.dateInput = ""
			m.statusMsg = ""

		case "i":
			m.showInfo = !m.showInfo
			m.resize()

		default:
			var cmd tea.Cmd
			m.sceneView, cmd = m.sceneView.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case CatalogMsg:
		if msg.Err != nil {
			m.log.Error("fetch planets: %v", msg.Err)
			break
		}
		m.state.SetCatalog(msg.Names)
		m.snapshot = m.state.Snapshot()
		m.log.Info("catalog: %d bodies", len(msg.Names))

	case PositionsMsg:
		date := astro.FormatDate(msg.Ticket.Date)
		switch m.state.Apply(msg.Ticket, msg.Observations, msg.Duration, msg.Err) {
		case state.Applied:
			m.snapshot = m.state.Snapshot()
			m.sceneView = m.sceneView.SetObservations(m.snapshot.Observations)
			m.info = m.info.UpdateData(date, m.snapshot.Observations)
			m.metrics.SetSceneMeshes(m.sceneView.Scene().Len())
			m.log.Info("positions %s: %d bodies in %s", date, len(msg.Observations), msg.Duration.Round(time.Millisecond))
			m.resize()
		case state.Failed:
			m.snapshot = m.state.Snapshot()
			m.log.Error("fetch positions %s: %v", date, msg.Err)
		case state.Stale:
			m.snapshot = m.state.Snapshot()
			m.metrics.ObserveStale()
			m.log.Debug("dropped stale positions for %s (seq %d)", date, msg.Ticket.Seq)
		}

	case AnimTickMsg:
		m.animTick++
		cmds = append(cmds, animTickCmd())
	}

	return m, tea.Batch(cmds...)
}

// updateDateEntry handles keys while the date prompt is open.
func (m *Model) updateDateEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.entering = false
		m.dateInput = ""
		return nil
	case tea.KeyEnter:
		m.entering = false
		d, err := astro.ParseDate(m.dateInput)
		if err != nil {
			m.statusMsg = fmt.Sprintf("invalid date %q, want yyyy-MM-dd", m.dateInput)
			return nil
		}
		m.statusMsg = ""
		m.state.SetDate(d)
		return m.requestPositions()
	case tea.KeyBackspace:
		if r := []rune(m.dateInput); len(r) > 0 {
			m.dateInput = string(r[:len(r)-1])
		}
		return nil
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if len(m.dateInput) >= len(astro.DateLayout) {
				break
			}
			if (r >= '0' && r <= '9') || r == '-' {
				m.dateInput += string(r)
			}
		}
	}
	return nil
}

// resize hands the space left by the header, info panel and footer to the
// scene.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.info = m.info.SetWidth(m.width)

	sceneHeight := m.height - headerHeight - footerHeight
	if m.showInfo {
		sceneHeight -= m.info.Height()
	}
	if sceneHeight < 1 {
		sceneHeight = 1
	}
	m.sceneView = m.sceneView.SetSize(m.width, sceneHeight)
}

const (
	headerHeight = 2
	footerHeight = 1
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	parts := []string{m.renderHeader(), m.sceneView.View()}
	if m.showInfo {
		parts = append(parts, m.info.View())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	return m.renderTitle() + "\n" + m.renderStatusLine()
}

// renderTitle draws the name with a horizontal gradient.
func (m Model) renderTitle() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	title := []rune("ls-orrery")
	var b strings.Builder
	b.WriteString("  ")
	for i, r := range title {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(i, len(title)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  v%s · Solar System Positions", version.Version)))
	return b.String()
}

var (
	gradientStart, _ = colorful.Hex("#3B82F6")
	gradientMid, _   = colorful.Hex("#8B5CF6")
	gradientEnd, _   = colorful.Hex("#EC4899")
)

// gradientColor returns the color at position i of n on a blue to purple
// to pink ramp.
func gradientColor(i, n int) string {
	if n <= 1 {
		return gradientStart.Hex()
	}
	t := float64(i) / float64(n-1)
	if t < 0.5 {
		return gradientStart.BlendLuv(gradientMid, t*2).Clamped().Hex()
	}
	return gradientMid.BlendLuv(gradientEnd, (t-0.5)*2).Clamped().Hex()
}

func (m Model) renderStatusLine() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	snap := m.snapshot
	var b strings.Builder
	b.WriteString("  ")

	if m.entering {
		b.WriteString(accentStyle.Render("Date: "))
		b.WriteString(dateStyle.Render(m.dateInput + "_"))
		b.WriteString(dimStyle.Render("  (yyyy-MM-dd, enter to apply, esc to cancel)"))
		return b.String()
	}

	b.WriteString(dateStyle.Render(astro.FormatDate(snap.Date)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  JD %.1f", astro.JulianDay(snap.Date))))

	if !snap.LoadedDate.IsZero() && !snap.LoadedDate.Equal(snap.Date) {
		b.WriteString(dimStyle.Render("  showing " + astro.FormatDate(snap.LoadedDate)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d bodies", len(snap.Observations))))

	switch {
	case snap.Loading:
		spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		b.WriteString("  " + accentStyle.Render(spinner) + " " + m.renderShimmerText("Loading..."))
	case snap.LastError != nil:
		b.WriteString("  " + errorStyle.Render("ERROR: "+snap.LastError.Error()))
	case snap.FetchDuration > 0:
		b.WriteString(dimStyle.Render("  (" + snap.FetchDuration.Round(time.Millisecond).String() + ")"))
	}

	if m.statusMsg != "" {
		b.WriteString("  " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return "  " + dimStyle.Render(",/.: day | t: today | /: date | u: refresh | arrows: orbit | wasd: pan | +/-: zoom | r: reset | l: labels | *: stars | i: info | q: quit")
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var hex string
		switch {
		case dist <= 1:
			hex = "#B4A0DC"
		case dist <= 3:
			hex = "#8C78B4"
		case dist <= 5:
			hex = "#6E5A96"
		default:
			hex = "#504678"
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

// Snapshot returns the state shown by the last update.
func (m Model) Snapshot() state.Snapshot {
	return m.snapshot
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
