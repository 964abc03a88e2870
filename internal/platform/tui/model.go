package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyraid/internal/core"
	"github.com/vovakirdan/skyraid/internal/registry"
	"github.com/vovakirdan/skyraid/internal/storage"
)

// Options configures a game Model.
type Options struct {
	Store  *storage.Store
	Logger *log.Logger // Nil discards logs

	// Player names the person at the keyboard in logs (the SSH user).
	Player string

	// Embedded models return to a menu on Back instead of quitting.
	Embedded bool
}

// configReporter is implemented by games that can fall back to default
// settings when their config file is broken.
type configReporter interface {
	ConfigError() error
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	opts       Options
	logger     *log.Logger
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current run has been stored
	err        error
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Player != "" {
		logger = logger.With("player", opts.Player)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		opts:       opts,
		logger:     logger.With("game", game.ID()),
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	if cr, ok := m.game.(configReporter); ok && cr.ConfigError() != nil {
		m.logger.Warn("using default settings", "error", cr.ConfigError())
	}
	m.logger.Info("run started",
		"seed", m.config.Seed,
		"difficulty", m.config.Difficulty,
		"screen", fmt.Sprintf("%dx%d", m.config.ScreenW, m.config.ScreenH),
	)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveRun("quit")
		m.quitting = true
		return m, tea.Quit
	}

	// B or Esc leaves an embedded game once it is over or paused
	if m.opts.Embedded && m.inputFrame.Has(core.ActionBack) &&
		(m.gameState.GameOver || m.gameState.Paused) {
		m.saveRun("back")
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		// Games that cannot follow a resize start over at the new size
		m.game.Reset(m.config)
	}
	m.logger.Debug("resized", "width", msg.Width, "height", msg.Height)

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()

	if result.Err != nil {
		m.logger.Error("simulation stopped", "error", result.Err)
		m.err = fmt.Errorf("tui: %s: %w", m.game.ID(), result.Err)
		m.quitting = true
		return m, tea.Quit
	}

	if j, ok := m.game.(registry.Journal); ok {
		for _, e := range j.Journal() {
			m.logger.Debug(e.Msg, e.Fields...)
		}
	}

	// A restart begins a new run
	if m.gameState.GameOver && !result.State.GameOver {
		m.runSaved = false
		m.logger.Info("run restarted")
	}
	m.gameState = result.State

	if m.gameState.GameOver {
		m.saveRun("game over")
	}

	if m.gameState.Quit {
		m.quitting = true
		return m, tea.Quit
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the current run once. Runs quit before the first tick
// are not recorded.
func (m *Model) saveRun(reason string) {
	if m.runSaved {
		return
	}
	m.runSaved = true

	elapsed := 0.0
	if c, ok := m.game.(registry.Clock); ok {
		elapsed = c.Elapsed()
	}
	if elapsed == 0 {
		return
	}

	state := m.game.State()
	m.logger.Info("run ended",
		"reason", reason,
		"score", state.Score,
		"level", state.Level,
		"kills", state.Kills,
		"seconds", fmt.Sprintf("%.1f", elapsed),
	)

	if m.opts.Store == nil {
		return
	}
	run, err := m.opts.Store.SaveRun(storage.Run{
		GameID:     m.game.ID(),
		Score:      state.Score,
		Level:      state.Level,
		Kills:      state.Kills,
		Difficulty: m.config.Difficulty,
		Duration:   time.Duration(elapsed * float64(time.Second)),
	})
	if err != nil {
		m.logger.Error("could not save run", "error", err)
		return
	}
	m.logger.Debug("run saved", "run_id", run.RunID)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".skyraid", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Steering follows the mouse without a button held
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(Model); ok {
		return m.Err()
	}
	return nil
}
