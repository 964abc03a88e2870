package gui

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/skyraid/internal/core"
	"github.com/vovakirdan/skyraid/internal/games/skyraid"
	"github.com/vovakirdan/skyraid/internal/storage"
)

func newTestWindow(t *testing.T, store *storage.Store) *Window {
	t.Helper()
	w, err := NewWindow(Options{Width: 800, Height: 600, Seed: 1, Difficulty: "normal", Store: store})
	if err != nil {
		t.Fatalf("NewWindow() failed: %v", err)
	}
	return w
}

func mustStep(t *testing.T, w *Window, in frameInput) {
	t.Helper()
	if err := w.step(in); err != nil {
		t.Fatalf("step() failed: %v", err)
	}
}

func TestWindowDefaults(t *testing.T) {
	w, err := NewWindow(Options{})
	if err != nil {
		t.Fatalf("NewWindow() failed: %v", err)
	}
	if gw, gh := w.Layout(100, 100); gw != DefaultWidth || gh != DefaultHeight {
		t.Errorf("Layout = %dx%d", gw, gh)
	}
	if w.opts.TickRate != 60 || w.opts.Seed == 0 {
		t.Errorf("options not normalized: %+v", w.opts)
	}
}

func TestWindowDifficulty(t *testing.T) {
	skyraid.SetDifficultyPreset("hard")
	t.Cleanup(func() { skyraid.SetDifficultyPreset("") })

	tests := []struct {
		difficulty string
		wantLabel  string
		wantScore  int
	}{
		{"easy", "easy", 15},
		{"normal", "normal", 10},
		{"", "hard", 6},
		{"bogus", "hard", 6},
	}

	for _, tc := range tests {
		t.Run(tc.wantLabel+"/"+tc.difficulty, func(t *testing.T) {
			w, err := NewWindow(Options{Seed: 1, Difficulty: tc.difficulty})
			if err != nil {
				t.Fatalf("NewWindow() failed: %v", err)
			}
			if w.opts.Difficulty != tc.wantLabel {
				t.Errorf("recorded difficulty = %q, expected %q", w.opts.Difficulty, tc.wantLabel)
			}
			if got := w.Session().Score(); got != tc.wantScore {
				t.Errorf("start score = %d, expected %d", got, tc.wantScore)
			}
		})
	}
}

func TestWindowCursorSteers(t *testing.T) {
	w := newTestWindow(t, nil)
	in := frameInput{Cursor: image.Pt(600, 300)}

	for i := 0; i < 120; i++ {
		mustStep(t, w, in)
	}

	if got := w.Session().Player().Position; got != core.V(600, 300) {
		t.Errorf("player at %v, expected the cursor", got)
	}
}

func TestWindowKeysOverrideCursor(t *testing.T) {
	w := newTestWindow(t, nil)
	start := w.Session().Player().Position

	mustStep(t, w, frameInput{Cursor: image.Pt(600, 300), Move: core.V(0, -1)})

	got := w.Session().Player().Position
	if got.X != start.X || got.Y >= start.Y {
		t.Errorf("player moved from %v to %v, expected straight up", start, got)
	}
}

func TestWindowFire(t *testing.T) {
	tests := []struct {
		name string
		in   frameInput
	}{
		{"click", frameInput{Cursor: image.Pt(700, 100), Click: true}},
		{"key", frameInput{Fire: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWindow(t, nil)
			mustStep(t, w, tc.in)
			if n := len(w.Session().Player().Projectiles); n != 1 {
				t.Errorf("projectiles = %d, expected 1", n)
			}
		})
	}
}

func TestWindowPause(t *testing.T) {
	w := newTestWindow(t, nil)
	mustStep(t, w, frameInput{})
	before := w.Session().Elapsed()

	mustStep(t, w, frameInput{Pause: true})
	for i := 0; i < 10; i++ {
		mustStep(t, w, frameInput{})
	}
	if w.Session().Elapsed() != before {
		t.Error("paused window advanced the session")
	}

	mustStep(t, w, frameInput{Pause: true})
	if w.Session().Elapsed() <= before {
		t.Error("resumed window should advance")
	}
}

func TestWindowRestartIgnoredDuringPlay(t *testing.T) {
	w := newTestWindow(t, nil)
	for i := 0; i < 30; i++ {
		mustStep(t, w, frameInput{})
	}
	before := w.Session().Elapsed()

	mustStep(t, w, frameInput{Restart: true})
	if w.Session().Elapsed() <= before {
		t.Error("restart during play should not reset the session")
	}
}

func TestWindowQuitSavesRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	w := newTestWindow(t, store)
	for i := 0; i < 30; i++ {
		mustStep(t, w, frameInput{})
	}

	if err := w.step(frameInput{Quit: true}); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("quit returned %v, expected ebiten.Termination", err)
	}
	if w.Session().Running() {
		t.Error("session should stop on quit")
	}

	// Closing after quitting must not store the run twice.
	w.saveRun("closed")

	runs, err := store.TopRuns(skyraid.GameID, 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("stored %d runs, expected 1", len(runs))
	}
	if runs[0].Difficulty != "normal" || runs[0].Duration <= 0 {
		t.Errorf("stored run = %+v", runs[0])
	}
}

func TestWindowQuitBeforePlayStoresNothing(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	w := newTestWindow(t, store)
	if err := w.step(frameInput{Quit: true}); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("quit returned %v", err)
	}

	if runs, _ := store.TopRuns(skyraid.GameID, 10); len(runs) != 0 {
		t.Errorf("stored %d runs, expected none", len(runs))
	}
}
