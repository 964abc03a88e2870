package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyraid/internal/games/skyraid"
	"github.com/vovakirdan/skyraid/internal/platform/tui"
	"github.com/vovakirdan/skyraid/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a difficulty and play",
	Long: `Start Sky Raid in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a difficulty.
Quitting a run with Q returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Fly
  Tab          - Scoreboard
  Q            - Quit

Examples:
  skyraid menu
  skyraid menu --fps 30
  skyraid menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closer, err := openLogger(flagLogPath, flagVerbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(skyraid.GameID, store, cfg)
		if err != nil {
			return err
		}

		// Keep size changes and the chosen difficulty
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(skyraid.GameID)
		if err != nil {
			return err
		}

		// Fresh seed for each run unless one was fixed
		run := cfg
		if flagSeed == 0 {
			run.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, run, tui.Options{Store: store, Logger: logger}); err != nil {
			return err
		}
	}
}
