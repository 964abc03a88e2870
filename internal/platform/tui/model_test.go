package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/skyraid/internal/core"
	"github.com/vovakirdan/skyraid/internal/registry"
	"github.com/vovakirdan/skyraid/internal/storage"
)

// stubGame ends after a fixed number of ticks.
type stubGame struct {
	ticks    int
	endAfter int
	last     core.InputFrame
	err      error
	resized  bool
	journal  []registry.Entry
}

func (g *stubGame) ID() string               { return "stub" }
func (g *stubGame) Title() string            { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig) { g.ticks = 0 }
func (g *stubGame) Elapsed() float64         { return float64(g.ticks) / 60 }
func (g *stubGame) Resize(int, int)          { g.resized = true }

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) Journal() []registry.Entry {
	j := g.journal
	g.journal = nil
	return j
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.last = in.Clone()
	if g.err != nil {
		return core.StepResult{State: g.State(), Err: g.err}
	}
	if in.Has(core.ActionRestart) && g.ticks >= g.endAfter {
		g.ticks = 0
	}
	if g.ticks < g.endAfter {
		g.ticks++
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: g.ticks, Level: 2, Kills: 3, GameOver: g.ticks >= g.endAfter}
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(g *stubGame, opts Options) Model {
	m := NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 1, Difficulty: "hard"}, opts)
	m.Init()
	return m
}

func tick(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(TickMsg{})
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelSavesRunOnGameOver(t *testing.T) {
	store := testStore(t)
	g := &stubGame{endAfter: 5}
	m := newTestModel(g, Options{Store: store})

	for i := 0; i < 20; i++ {
		m, _ = tick(t, m)
	}

	runs, err := store.TopRuns("stub", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected exactly one saved run, got %d", len(runs))
	}
	r := runs[0]
	if r.Score != 5 || r.Level != 2 || r.Kills != 3 || r.Difficulty != "hard" {
		t.Errorf("saved run = %+v", r)
	}
	if r.RunID == "" || r.Duration <= 0 {
		t.Errorf("run id %q duration %v", r.RunID, r.Duration)
	}

	// Restart and finish again: a second run is stored.
	next, _ := m.Update(runeKey('r'))
	m = next.(Model)
	for i := 0; i < 20; i++ {
		m, _ = tick(t, m)
	}
	if runs, _ := store.TopRuns("stub", 10); len(runs) != 2 {
		t.Errorf("expected two runs after a restart, got %d", len(runs))
	}
}

func TestModelSavesRunOnQuit(t *testing.T) {
	store := testStore(t)
	g := &stubGame{endAfter: 100}
	m := newTestModel(g, Options{Store: store})

	for i := 0; i < 3; i++ {
		m, _ = tick(t, m)
	}
	next, cmd := m.Update(runeKey('q'))
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q should quit")
	}
	if runs, _ := store.TopRuns("stub", 10); len(runs) != 1 || runs[0].Score != 3 {
		t.Errorf("quit should store the unfinished run, got %+v", runs)
	}
}

func TestModelQuitBeforePlayStoresNothing(t *testing.T) {
	store := testStore(t)
	m := newTestModel(&stubGame{endAfter: 100}, Options{Store: store})

	next, _ := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() {
		t.Fatal("q should quit")
	}
	if runs, _ := store.TopRuns("stub", 10); len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestModelSurfacesStepError(t *testing.T) {
	boom := errors.New("boom")
	m := newTestModel(&stubGame{endAfter: 100, err: boom}, Options{})

	m, cmd := tick(t, m)
	if cmd == nil || !m.IsQuitting() {
		t.Fatal("a step error should stop the program")
	}
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, expected to wrap boom", m.Err())
	}
}

func TestModelInput(t *testing.T) {
	g := &stubGame{endAfter: 100}
	m := newTestModel(g, Options{})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	next, _ = m.Update(tea.MouseMsg{X: 4, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	m, _ = tick(t, m)

	if !g.last.Has(core.ActionLeft) || !g.last.Has(core.ActionFire) {
		t.Errorf("actions not forwarded: %v", g.last.Actions)
	}
	if !g.last.Aim.Valid || g.last.Aim.X != 4 || g.last.Aim.Y != 5 {
		t.Errorf("aim = %+v", g.last.Aim)
	}

	m, _ = tick(t, m)
	if g.last.Has(core.ActionFire) || g.last.Aim.Valid {
		t.Error("actions should be cleared after a tick")
	}
	if !g.last.Pointer.Valid {
		t.Error("pointer should persist across ticks")
	}
}

func TestModelResizeAndView(t *testing.T) {
	g := &stubGame{endAfter: 100}
	m := newTestModel(g, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(Model)
	if !g.resized {
		t.Error("resizable game should be resized in place")
	}
	if !strings.Contains(m.View(), "stub") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestModelEmbeddedBack(t *testing.T) {
	g := &stubGame{endAfter: 2}
	m := newTestModel(g, Options{Embedded: true})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(Model).BackToMenu() {
		t.Fatal("back must be ignored during play")
	}

	for i := 0; i < 3; i++ {
		m, _ = tick(t, m)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(Model).BackToMenu() {
		t.Error("back should return to the menu after game over")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColored(0, 0, "SKY", core.ColorGold)
	s.DrawText(0, 1, "raid")

	out := RenderScreen(s)
	if !strings.Contains(out, "SKY") || !strings.Contains(out, "raid") {
		t.Errorf("RenderScreen lost text: %q", out)
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("expected 2 lines, got %d newlines", got)
	}
}
