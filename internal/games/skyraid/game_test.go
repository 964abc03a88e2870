package skyraid

import (
	"testing"

	"github.com/vovakirdan/skyraid/internal/core"
	"github.com/vovakirdan/skyraid/internal/registry"
)

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	g := New()
	g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 24, TickRate: 60})
	if g.Session() == nil {
		t.Fatalf("Reset failed: %v", g.State())
	}
	return g
}

func TestGameRegistered(t *testing.T) {
	if !registry.Exists(GameID) {
		t.Fatalf("%q not registered", GameID)
	}
	if registry.Title(GameID) != "Sky Raid" {
		t.Errorf("Title = %q", registry.Title(GameID))
	}
}

func TestGameDeterminism(t *testing.T) {
	g1 := newTestGame(t, 12345)
	g2 := newTestGame(t, 12345)

	input := core.NewInputFrame()
	for i := 0; i < 600; i++ {
		input.Clear()
		if i%10 == 0 {
			input.Set(core.ActionFire)
		}
		if i%50 < 10 {
			input.Set(core.ActionUp)
		}
		g1.Step(input)
		g2.Step(input)
	}

	snap1 := g1.Session().Snapshot()
	snap2 := g2.Session().Snapshot()
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("same seed diverged: score %d vs %d, kills %d vs %d",
			snap1.Score, snap2.Score, snap1.Kills, snap2.Kills)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, 1)
	input := core.NewInputFrame()

	g.Step(input)
	before := g.Elapsed()

	input.Set(core.ActionPause)
	res := g.Step(input)
	if !res.State.Paused {
		t.Fatal("expected paused state")
	}

	input.Clear()
	for i := 0; i < 10; i++ {
		g.Step(input)
	}
	if g.Elapsed() != before {
		t.Errorf("paused game advanced: %f -> %f", before, g.Elapsed())
	}

	input.Set(core.ActionPause)
	g.Step(input)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
	if g.Elapsed() <= before {
		t.Error("resumed game should advance")
	}
}

func TestGameQuit(t *testing.T) {
	g := newTestGame(t, 1)
	input := core.NewInputFrame()
	input.Set(core.ActionQuit)

	res := g.Step(input)
	if !res.State.Quit {
		t.Error("expected Quit in state")
	}
	if g.Session().Running() {
		t.Error("session should stop on quit")
	}
}

func TestGamePointerSteers(t *testing.T) {
	g := newTestGame(t, 1)
	input := core.NewInputFrame()
	input.Pointer = core.Pointer{X: 60, Y: 13, Valid: true}

	for i := 0; i < 120; i++ {
		g.Step(input)
		input.Clear()
	}

	want := g.bounds.ToWorld(60, 13)
	if got := g.Session().Player().Position; got != want {
		t.Errorf("player at %v, expected pointer cell centre %v", got, want)
	}
}

func TestGameKeyboardNudge(t *testing.T) {
	g := newTestGame(t, 1)
	start := g.Session().Player().Position
	input := core.NewInputFrame()

	input.Set(core.ActionRight)
	g.Step(input)
	input.Clear()
	for i := 0; i < 30; i++ {
		g.Step(input)
	}

	want := start.Add(core.V(keyNudge, 0))
	if got := g.Session().Player().Position; got != want {
		t.Errorf("player at %v, expected %v", got, want)
	}
}

func TestGameFire(t *testing.T) {
	tests := []struct {
		name string
		set  func(*core.InputFrame)
	}{
		{"key fires at nearest enemy", func(in *core.InputFrame) { in.Set(core.ActionFire) }},
		{"click fires at pointer", func(in *core.InputFrame) {
			in.Set(core.ActionFire)
			in.Aim = core.Pointer{X: 70, Y: 20, Valid: true}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, 1)
			input := core.NewInputFrame()
			tc.set(&input)
			g.Step(input)

			if n := len(g.Session().Player().Projectiles); n != 1 {
				t.Errorf("projectiles = %d, expected 1", n)
			}
		})
	}
}

func TestGameRestart(t *testing.T) {
	g := newTestGame(t, 1)
	input := core.NewInputFrame()

	input.Set(core.ActionRestart)
	g.Step(input)
	if g.Elapsed() == 0 {
		t.Error("restart during play should be ignored and the tick should run")
	}

	s := g.Session()
	s.gameOver, s.running, s.score = true, false, 0

	res := g.Step(input)
	if res.State.GameOver {
		t.Fatal("restart should leave game over")
	}
	if res.State.Score != 10 || res.State.Level != 1 {
		t.Errorf("after restart score=%d level=%d", res.State.Score, res.State.Level)
	}
}

func TestGameResize(t *testing.T) {
	g := newTestGame(t, 1)
	dst := core.NewScreen(120, 40)

	g.Render(dst)

	w, h := g.Session().Snapshot().Width, g.Session().Snapshot().Height
	if w != 120*CellWidth || h != (40-hudRows)*CellHeight {
		t.Errorf("field = %.0fx%.0f after resize", w, h)
	}
	if res := g.Step(core.NewInputFrame()); res.Err != nil {
		t.Errorf("Step after resize: %v", res.Err)
	}
}

func TestGameDrainEvents(t *testing.T) {
	g := newTestGame(t, 1)
	s := g.Session()
	e := firstActiveEnemy(t, s)
	shoot(t, s, e)

	g.Step(core.NewInputFrame())

	events := g.DrainEvents()
	if len(events) == 0 {
		t.Fatal("expected events after a kill")
	}
	if _, ok := events[0].(EnemyKilled); !ok {
		t.Errorf("first event = %T, expected EnemyKilled", events[0])
	}
	if len(g.DrainEvents()) != 0 {
		t.Error("DrainEvents should empty the queue")
	}
}

func TestGameJournal(t *testing.T) {
	g := newTestGame(t, 1)
	s := g.Session()
	shoot(t, s, firstActiveEnemy(t, s))

	g.Step(core.NewInputFrame())

	entries := g.Journal()
	if len(entries) == 0 || entries[0].Msg != "enemy killed" {
		t.Fatalf("journal = %+v", entries)
	}
	if len(entries[0].Fields)%2 != 0 {
		t.Error("fields must be key/value pairs")
	}
	if g.Journal() != nil {
		t.Error("journal should be drained")
	}
}

func TestGameDifficultyPerRun(t *testing.T) {
	tests := []struct {
		difficulty string
		score      int
	}{
		{"", 10},
		{"easy", 15},
		{"hard", 6},
		{"bogus", 10},
	}
	for _, tc := range tests {
		g := New()
		g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24, Difficulty: tc.difficulty})
		if got := g.State().Score; got != tc.score {
			t.Errorf("difficulty %q: start score = %d, expected %d", tc.difficulty, got, tc.score)
		}
	}
}
