package skyraid

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
	"github.com/vovakirdan/skyraid/internal/registry"
)

// GameID is the registry and score-table identifier.
const GameID = "skyraid"

// Terminal cells are roughly twice as tall as they are wide.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// LoadConfig resolves the configuration the same way the game does:
// the configured file (or search path) with the selected preset applied.
func LoadConfig() (config.SkyraidConfig, error) {
	return loadConfig(difficultyPreset)
}

// ResolvePreset returns the preset a run named difficulty plays with. A known
// name overrides the process-wide preset; anything else falls back to it.
func ResolvePreset(difficulty string) config.DifficultyPreset {
	if p, ok := config.ParsePreset(difficulty); ok {
		return p
	}
	return difficultyPreset
}

// LoadConfigFor is LoadConfig with a per-run difficulty.
func LoadConfigFor(difficulty string) (config.SkyraidConfig, error) {
	return loadConfig(ResolvePreset(difficulty))
}

func loadConfig(preset config.DifficultyPreset) (config.SkyraidConfig, error) {
	cfg, err := config.LoadSkyraid(configPath)
	if err != nil {
		cfg = config.DefaultSkyraidConfig()
	}
	if preset != "" {
		config.ApplySkyraidPreset(&cfg, preset)
	}
	return cfg, err
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

var (
	_ registry.Game    = (*Game)(nil)
	_ registry.Resizer = (*Game)(nil)
	_ registry.Clock   = (*Game)(nil)
	_ registry.Journal = (*Game)(nil)
)

// keyNudge is how far one movement key press steers the ship.
const keyNudge = 3 * CellWidth

// Game adapts a Session to the terminal platform: it converts input
// frames into session commands, runs one fixed tick per Step and draws
// the snapshot into a character screen.
type Game struct {
	cfg         config.SkyraidConfig
	runtime     core.RuntimeConfig
	bounds      *core.CellBounds
	session     *Session
	lastPointer core.Pointer
	paused      bool
	quit        bool
	err         error // Fatal: the session rejected a call
	configErr   error // Non-fatal: defaults were used instead
	events      []Event
}

// New creates a new Sky Raid game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Sky Raid"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.paused = false
	g.quit = false
	g.err = nil
	g.events = nil
	g.lastPointer = core.Pointer{}

	// A broken config file falls back to defaults; ConfigError reports it.
	g.cfg, g.configErr = LoadConfigFor(runtime.Difficulty)

	g.bounds = &core.CellBounds{
		Cols:     runtime.ScreenW,
		Rows:     runtime.ScreenH,
		CellW:    CellWidth,
		CellH:    CellHeight,
		Reserved: hudRows,
	}

	rng := rand.New(rand.NewSource(runtime.Seed)) //#nosec G404 -- gameplay randomness
	session, err := NewSession(g.cfg, g.bounds, rng)
	if err != nil {
		g.session = nil
		g.err = err
		return
	}
	g.session = session
}

// Resize adapts the playfield to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	if g.bounds != nil {
		g.bounds.Cols = w
		g.bounds.Rows = h
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil || g.err != nil {
		return g.result()
	}

	if in.Has(core.ActionQuit) {
		g.session.OnQuit()
		g.quit = true
		return g.result()
	}

	if in.Has(core.ActionRestart) {
		restarted, err := g.session.OnRestart()
		if err != nil {
			g.err = err
			return g.result()
		}
		if restarted {
			g.paused = false
			g.lastPointer = core.Pointer{}
		}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && !g.session.IsGameOver() {
		g.paused = !g.paused
	}

	// Don't update if paused or game over
	if g.paused || !g.session.Running() {
		return g.result()
	}

	if err := g.applyInput(in); err != nil {
		g.err = err
		return g.result()
	}
	if err := g.session.Update(g.runtime.TickSeconds()); err != nil {
		g.err = err
		return g.result()
	}
	g.events = append(g.events, g.session.DrainEvents()...)
	return g.result()
}

// applyInput turns one input frame into steering and firing commands.
func (g *Game) applyInput(in core.InputFrame) error {
	// Only fresh pointer motion steers, so keyboard flying is not pulled
	// back to a mouse that has not moved.
	if in.Pointer.Valid && in.Pointer != g.lastPointer {
		g.session.SteerPlayer(g.bounds.ToWorld(in.Pointer.X, in.Pointer.Y))
		g.lastPointer = in.Pointer
	}
	if dx, dy := in.MoveAxis(); dx != 0 || dy != 0 {
		dir := core.V(float64(dx), float64(dy)).Normalize()
		pos := g.session.Player().Position
		g.session.SteerPlayer(pos.Add(dir.Scale(keyNudge)))
	}

	var target core.Vec2
	switch {
	case in.Aim.Valid:
		target = g.bounds.ToWorld(in.Aim.X, in.Aim.Y)
	case in.Has(core.ActionFire):
		t, ok := g.session.NearestEnemy()
		if !ok {
			// Nothing to aim at: fire straight ahead.
			t = g.session.Player().Position.Add(core.V(1, 0))
		}
		target = t
	default:
		return nil
	}
	_, err := g.session.OnFire(target)
	return err
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Err: g.err}
}

// Render draws the current game state into the provided screen buffer.
func (g *Game) Render(dst *core.Screen) {
	if g.session == nil {
		dst.Clear()
		dst.DrawTextCentered(dst.Height()/2, "Sky Raid failed to start", core.ColorBrightRed)
		return
	}
	if g.bounds.Cols != dst.Width() || g.bounds.Rows != dst.Height() {
		g.Resize(dst.Width(), dst.Height())
	}
	RenderSnapshot(dst, g.session.Snapshot(), g.bounds, g.paused)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Quit: g.quit}
	}
	return core.GameState{
		Score:    g.session.Score(),
		Level:    g.session.Level(),
		Kills:    g.session.Kills(),
		GameOver: g.session.IsGameOver(),
		Paused:   g.paused,
		Quit:     g.quit,
	}
}

// Session exposes the underlying session, or nil if Reset failed.
func (g *Game) Session() *Session {
	return g.session
}

// Elapsed returns simulated seconds since the last reset.
func (g *Game) Elapsed() float64 {
	if g.session == nil {
		return 0
	}
	return g.session.Elapsed()
}

// DrainEvents returns session events gathered since the last call.
func (g *Game) DrainEvents() []Event {
	out := g.events
	g.events = nil
	return out
}

// Journal drains pending events as log entries.
func (g *Game) Journal() []registry.Entry {
	events := g.DrainEvents()
	if len(events) == 0 {
		return nil
	}
	out := make([]registry.Entry, 0, len(events))
	for _, ev := range events {
		out = append(out, EventEntry(ev))
	}
	return out
}

// EventEntry describes a session event as a log entry.
func EventEntry(ev Event) registry.Entry {
	switch e := ev.(type) {
	case EnemyKilled:
		return registry.Entry{Msg: "enemy killed", Fields: []any{"x", int(e.Position.X), "y", int(e.Position.Y), "score", e.Score}}
	case LevelUp:
		return registry.Entry{Msg: "level up", Fields: []any{"level", e.Level, "spawn_interval", e.SpawnInterval}}
	case PlayerHit:
		return registry.Entry{Msg: "player hit", Fields: []any{"penalty", e.Penalty, "score", e.Score}}
	case CoinCollected:
		return registry.Entry{Msg: "coin collected", Fields: []any{"reward", e.Reward.Kind, "value", e.Reward.Value, "message", e.Message}}
	case GameOver:
		return registry.Entry{Msg: "game over", Fields: []any{"level", e.Level, "kills", e.Kills}}
	default:
		return registry.Entry{Msg: "event", Fields: []any{"type", fmt.Sprintf("%T", ev)}}
	}
}

// ConfigError returns the error that made Reset fall back to default
// settings, if any.
func (g *Game) ConfigError() error {
	return g.configErr
}
