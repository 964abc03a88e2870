package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyraid/internal/platform/gui"
)

var (
	flagWidth    int
	flagHeight   int
	flagAssetDir string
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play in a desktop window",
	Long: `Open a desktop window and play with the mouse.

Backgrounds are read from the asset directory: level1.png .. level5.png,
falling back to default.png and then to a solid colour.

Controls:
  Mouse        - Steer toward the cursor
  Left click   - Fire at the cursor
  WASD/Arrows  - Steer
  Space        - Fire at the nearest raider
  P            - Pause
  R            - Restart (after game over)
  Esc          - Quit

Examples:
  skyraid window
  skyraid window --assets ./assets --width 1280 --height 720`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().IntVar(&flagWidth, "width", gui.DefaultWidth, "Playfield width in pixels")
	windowCmd.Flags().IntVar(&flagHeight, "height", gui.DefaultHeight, "Playfield height in pixels")
	windowCmd.Flags().StringVar(&flagAssetDir, "assets", "~/.skyraid/assets", "Directory holding background images")
}

func runWindow(_ *cobra.Command, _ []string) error {
	logger, closer, err := openLogger(flagLogPath, flagVerbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	assets, err := expandHome(flagAssetDir)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	return gui.Run(gui.Options{
		Width:      flagWidth,
		Height:     flagHeight,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		Difficulty: flagDifficulty,
		AssetDir:   assets,
		Store:      store,
		Logger:     logger,
	})
}
