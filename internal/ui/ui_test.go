package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/state"
)

type countingMetrics struct {
	stale  int
	meshes int
}

func (c *countingMetrics) ObserveStale()        { c.stale++ }
func (c *countingMetrics) SetSceneMeshes(n int) { c.meshes = n }

func day(s string) time.Time {
	d, err := astro.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSource() *ephem.Static {
	src := ephem.NewStatic([]string{"mercury", "venus", "mars"})
	src.Set("2024-03-19", []astro.Observation{
		{Name: "mars", RA: 10, Dec: 1, Distance: 1.5},
	})
	src.Set("2024-03-20", []astro.Observation{
		{Name: "mercury", RA: 30, Dec: 5, Distance: 0.39},
		{Name: "venus", RA: 80, Dec: 20, Distance: 0.72},
		{Name: "mars", RA: 0, Dec: 0, Distance: 1.5},
	})
	src.Set("2024-03-21", []astro.Observation{
		{Name: "venus", RA: 81, Dec: 20, Distance: 0.72},
	})
	return src
}

func newTestModel(t *testing.T) (Model, *state.Manager, *countingMetrics) {
	t.Helper()
	mgr := state.NewManager(state.Config{InitialDate: day("2024-03-20")})
	mt := &countingMetrics{}
	m := New(mgr, testSource(), WithMetrics(mt))
	return m, mgr, mt
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestNewModel(t *testing.T) {
	m, _, mt := newTestModel(t)

	if m.View() != "Initializing..." {
		t.Errorf("View before size = %q", m.View())
	}
	if m.sceneView.Scene().Len() != 1 {
		t.Errorf("initial scene Len = %d, want 1 (star only)", m.sceneView.Scene().Len())
	}
	if mt.meshes != 1 {
		t.Errorf("meshes gauge = %d, want 1", mt.meshes)
	}
	if !m.showInfo {
		t.Error("info panel should start visible")
	}
}

func TestFetchBuildsScene(t *testing.T) {
	m, _, mt := newTestModel(t)

	m = run(t, m, m.requestPositions())

	if got := m.sceneView.Scene().Len(); got != 4 {
		t.Errorf("scene Len = %d, want 4", got)
	}
	if mt.meshes != 4 {
		t.Errorf("meshes gauge = %d, want 4", mt.meshes)
	}
	snap := m.Snapshot()
	if snap.Loading {
		t.Error("still loading after result applied")
	}
	if !snap.LoadedDate.Equal(day("2024-03-20")) {
		t.Errorf("LoadedDate = %v", snap.LoadedDate)
	}
}

func TestCatalogMsg(t *testing.T) {
	m, mgr, _ := newTestModel(t)

	m = run(t, m, fetchCatalogCmd(m.src))
	if got := mgr.Snapshot().Catalog; len(got) != 3 {
		t.Errorf("catalog = %v", got)
	}

	m, _ = update(m, CatalogMsg{Err: errors.New("down")})
	if got := m.Snapshot().Catalog; len(got) != 3 {
		t.Errorf("catalog after error = %v, want unchanged", got)
	}
}

func TestDayStepKeys(t *testing.T) {
	m, mgr, _ := newTestModel(t)

	m, cmd := update(m, keyRunes("."))
	if !mgr.Date().Equal(day("2024-03-21")) {
		t.Errorf("after '.', Date = %v", mgr.Date())
	}
	m = run(t, m, cmd)
	if got := m.sceneView.Scene().Len(); got != 2 {
		t.Errorf("scene Len = %d, want 2", got)
	}

	m, _ = update(m, keyRunes(","))
	m, _ = update(m, keyRunes(","))
	if !mgr.Date().Equal(day("2024-03-19")) {
		t.Errorf("after ',' twice, Date = %v", mgr.Date())
	}
}

func TestStaleResultDropped(t *testing.T) {
	m, mgr, mt := newTestModel(t)

	// D1 requested, then D2, then D2 resolves before D1.
	m, cmdD1 := update(m, keyRunes(","))
	m, cmdD2 := update(m, keyRunes("."))

	msgD1 := cmdD1()
	msgD2 := cmdD2()

	m, _ = update(m, msgD2)
	m, _ = update(m, msgD1)

	if got := m.sceneView.Scene().Len(); got != 4 {
		t.Errorf("scene Len = %d, want 4 (D2's three bodies plus the star)", got)
	}
	if !mgr.Snapshot().LoadedDate.Equal(day("2024-03-20")) {
		t.Errorf("LoadedDate = %v, want 2024-03-20", mgr.Snapshot().LoadedDate)
	}
	if mt.stale != 1 {
		t.Errorf("stale count = %d, want 1", mt.stale)
	}
}

func TestFailedFetchKeepsScene(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = run(t, m, m.requestPositions())
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	// No data for 2024-03-22 in the static source.
	m, cmd21 := update(m, keyRunes("."))
	m, cmd22 := update(m, keyRunes("."))
	m = run(t, m, cmd22)
	m = run(t, m, cmd21)

	if got := m.sceneView.Scene().Len(); got != 4 {
		t.Errorf("scene Len = %d, want previous 4", got)
	}
	if m.Snapshot().LastError == nil {
		t.Fatal("LastError not recorded")
	}
	if !strings.Contains(m.View(), "ERROR") {
		t.Error("error not shown in status line")
	}
}

func TestDateEntry(t *testing.T) {
	m, mgr, _ := newTestModel(t)

	m, _ = update(m, keyRunes("/"))
	if !m.entering {
		t.Fatal("'/' should open the date prompt")
	}

	// Keys go to the prompt, not the global handlers.
	m, _ = update(m, keyRunes("q"))
	m, _ = update(m, keyRunes("2024-03-1x9"))
	if m.dateInput != "2024-03-19" {
		t.Errorf("dateInput = %q", m.dateInput)
	}

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.entering {
		t.Error("enter should close the prompt")
	}
	if !mgr.Date().Equal(day("2024-03-19")) {
		t.Errorf("Date = %v", mgr.Date())
	}
	m = run(t, m, cmd)
	if got := m.sceneView.Scene().Len(); got != 2 {
		t.Errorf("scene Len = %d, want 2", got)
	}
}

func TestDateEntryInvalid(t *testing.T) {
	m, mgr, _ := newTestModel(t)

	m, _ = update(m, keyRunes("/"))
	m, _ = update(m, keyRunes("2024-13-45"))
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("invalid date should not fetch")
	}
	if !strings.Contains(m.statusMsg, "invalid date") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if !mgr.Date().Equal(day("2024-03-20")) {
		t.Errorf("Date changed to %v", mgr.Date())
	}
}

func TestDateEntryEditing(t *testing.T) {
	m, mgr, _ := newTestModel(t)

	m, _ = update(m, keyRunes("/"))
	m, _ = update(m, keyRunes("2024-03-2099"))
	if m.dateInput != "2024-03-20" {
		t.Errorf("input not capped: %q", m.dateInput)
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.dateInput != "2024-03-2" {
		t.Errorf("after backspace: %q", m.dateInput)
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.entering || m.dateInput != "" {
		t.Error("esc should cancel the prompt")
	}
	if !mgr.Date().Equal(day("2024-03-20")) {
		t.Errorf("Date changed to %v", mgr.Date())
	}
}

func TestCameraKeysLeaveSceneAlone(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = run(t, m, m.requestPositions())
	gen := m.sceneView.Scene().Generation()
	cam := m.sceneView.Camera()

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyLeft},
		{Type: tea.KeyUp},
		keyRunes("w"),
		keyRunes("d"),
		keyRunes("+"),
	} {
		var cmd tea.Cmd
		m, cmd = update(m, k)
		if cmd != nil {
			if _, isQuit := cmd().(tea.QuitMsg); isQuit {
				t.Fatalf("key %q quit", k.String())
			}
		}
	}

	if m.sceneView.Scene().Generation() != gen {
		t.Error("camera keys rebuilt the scene")
	}
	if m.sceneView.Camera() == cam {
		t.Error("camera did not move")
	}

	m, _ = update(m, keyRunes("r"))
	if m.sceneView.Camera() != cam {
		t.Error("r should reset the camera")
	}
}

func TestOverlayToggles(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(m, keyRunes("l"))
	if m.sceneView.Options().ShowLabels {
		t.Error("l should hide labels")
	}
	m, _ = update(m, keyRunes("*"))
	if m.sceneView.Options().ShowStars {
		t.Error("* should hide stars")
	}
	m, _ = update(m, keyRunes("i"))
	if m.showInfo {
		t.Error("i should hide the info panel")
	}
}

func TestViewLayout(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = run(t, m, m.requestPositions())
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	if got := strings.Count(view, "\n") + 1; got != 40 {
		t.Errorf("view has %d lines, want 40", got)
	}
	for _, want := range []string{
		"2024-03-20",
		"JD 2460389.5",
		"Mars: RA: 0.00°, DEC: 0.00°, Distance: 1.50 AU, Magnitude: 0.00",
		"3 bodies",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(m, keyRunes("i"))
	view = m.View()
	if got := strings.Count(view, "\n") + 1; got != 40 {
		t.Errorf("view without info has %d lines, want 40", got)
	}
	if strings.Contains(view, "Distance: 1.50 AU") {
		t.Error("info panel still shown")
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := update(m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
