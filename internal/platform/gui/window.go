// Package gui runs Sky Raid in a desktop window with mouse steering.
package gui

import (
	"fmt"
	"image"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
	"github.com/vovakirdan/skyraid/internal/games/skyraid"
	"github.com/vovakirdan/skyraid/internal/storage"
)

// Default logical window size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// Options configures a window run.
type Options struct {
	Width, Height int   // Logical size in world pixels
	TickRate      int   // Updates per second (default 60)
	Seed          int64  // 0 picks a time-based seed
	Difficulty    string // Preset name; empty or unknown uses the process-wide preset
	AssetDir      string // Holds level<N>.png and default.png

	Store  *storage.Store
	Logger *log.Logger // Nil discards logs
}

func (o *Options) normalize() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.TickRate <= 0 {
		o.TickRate = 60
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// frameInput is the player's input sampled for one update.
type frameInput struct {
	Cursor      image.Point
	CursorMoved bool
	Click       bool // Fire at the cursor
	Fire        bool // Fire at the nearest enemy
	Move        core.Vec2
	Pause       bool
	Restart     bool
	Quit        bool
}

// Window is an ebiten.Game driving one Sky Raid session.
type Window struct {
	opts        Options
	cfg         config.SkyraidConfig
	session     *skyraid.Session
	backgrounds *Backgrounds
	logger      *log.Logger
	lastCursor  image.Point
	paused      bool
	runSaved    bool
	err         error
}

var _ ebiten.Game = (*Window)(nil)

// NewWindow creates a window with a fresh session sized to the options.
func NewWindow(opts Options) (*Window, error) {
	opts.normalize()

	logger := opts.Logger.With("game", skyraid.GameID)
	// Record the preset that is actually played.
	opts.Difficulty = string(skyraid.ResolvePreset(opts.Difficulty))
	cfg, err := skyraid.LoadConfigFor(opts.Difficulty)
	if err != nil {
		logger.Warn("using default settings", "error", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //#nosec G404 -- gameplay randomness
	bounds := core.FixedBounds{W: float64(opts.Width), H: float64(opts.Height)}
	session, err := skyraid.NewSession(cfg, bounds, rng)
	if err != nil {
		return nil, fmt.Errorf("gui: new session: %w", err)
	}

	logger.Info("run started", "seed", opts.Seed, "difficulty", opts.Difficulty,
		"window", fmt.Sprintf("%dx%d", opts.Width, opts.Height))

	return &Window{
		opts:        opts,
		cfg:         cfg,
		session:     session,
		backgrounds: NewBackgrounds(opts.AssetDir, logger),
		logger:      logger,
	}, nil
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	return w.step(pollInput())
}

// pollInput samples keyboard and mouse state.
func pollInput() frameInput {
	x, y := ebiten.CursorPosition()
	in := frameInput{
		Cursor:  image.Pt(x, y),
		Click:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Fire:    inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Pause:   inpututil.IsKeyJustPressed(ebiten.KeyP),
		Restart: inpututil.IsKeyJustPressed(ebiten.KeyR),
		Quit:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Move.X++
	}
	return in
}

// step applies one frame of input and advances the session by one tick.
func (w *Window) step(in frameInput) error {
	if w.err != nil {
		return w.err
	}

	if in.Quit {
		w.session.OnQuit()
		w.saveRun("quit")
		return ebiten.Termination
	}

	if in.Restart {
		restarted, err := w.session.OnRestart()
		if err != nil {
			return w.fail(err)
		}
		if restarted {
			w.paused = false
			w.runSaved = false
			w.logger.Info("run restarted")
		}
	}

	if in.Pause && !w.session.IsGameOver() {
		w.paused = !w.paused
	}
	if w.paused || !w.session.Running() {
		return nil
	}

	in.CursorMoved = in.Cursor != w.lastCursor
	w.lastCursor = in.Cursor
	if err := w.applyInput(in); err != nil {
		return w.fail(err)
	}

	if err := w.session.Update(1 / float64(w.opts.TickRate)); err != nil {
		return w.fail(err)
	}
	for _, ev := range w.session.DrainEvents() {
		e := skyraid.EventEntry(ev)
		w.logger.Debug(e.Msg, e.Fields...)
	}

	if w.session.IsGameOver() {
		w.saveRun("game over")
	}
	return nil
}

func (w *Window) applyInput(in frameInput) error {
	cursor := core.V(float64(in.Cursor.X), float64(in.Cursor.Y))

	// Keys override the mouse; a resting cursor does not pull the ship back.
	switch {
	case !in.Move.IsZero():
		w.session.MovePlayer(in.Move)
	case in.CursorMoved:
		w.session.SteerPlayer(cursor)
	}

	var target core.Vec2
	switch {
	case in.Click:
		target = cursor
	case in.Fire:
		t, ok := w.session.NearestEnemy()
		if !ok {
			t = w.session.Player().Position.Add(core.V(1, 0))
		}
		target = t
	default:
		return nil
	}
	_, err := w.session.OnFire(target)
	return err
}

func (w *Window) fail(err error) error {
	w.logger.Error("simulation stopped", "error", err)
	w.err = fmt.Errorf("gui: %w", err)
	return w.err
}

// saveRun stores the current run once.
func (w *Window) saveRun(reason string) {
	if w.runSaved || w.session.Elapsed() == 0 {
		return
	}
	w.runSaved = true

	elapsed := w.session.Elapsed()
	w.logger.Info("run ended",
		"reason", reason,
		"score", w.session.Score(),
		"level", w.session.Level(),
		"kills", w.session.Kills(),
		"seconds", fmt.Sprintf("%.1f", elapsed),
	)

	if w.opts.Store == nil {
		return
	}
	run, err := w.opts.Store.SaveRun(storage.Run{
		GameID:     skyraid.GameID,
		Score:      w.session.Score(),
		Level:      w.session.Level(),
		Kills:      w.session.Kills(),
		Difficulty: w.opts.Difficulty,
		Duration:   time.Duration(elapsed * float64(time.Second)),
	})
	if err != nil {
		w.logger.Error("could not save run", "error", err)
		return
	}
	w.logger.Debug("run saved", "run_id", run.RunID)
}

// Layout implements ebiten.Game. The world keeps its logical size and
// ebiten scales it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.opts.Width, w.opts.Height
}

// Session exposes the running session.
func (w *Window) Session() *skyraid.Session {
	return w.session
}

// Err returns the error that stopped the simulation, if any.
func (w *Window) Err() error {
	return w.err
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	w, err := NewWindow(opts)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(w.opts.Width, w.opts.Height)
	ebiten.SetWindowTitle("Sky Raid")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.opts.TickRate)

	err = ebiten.RunGame(w)
	w.saveRun("closed")
	if w.err != nil {
		return w.err
	}
	if err != nil {
		return fmt.Errorf("gui: run: %w", err)
	}
	return nil
}
