// skyraid is an arcade shooter for the terminal, a desktop window, or an
// SSH server.
//
// Usage:
//
//	skyraid list              - List available games
//	skyraid play              - Play in the terminal
//	skyraid window            - Play in a desktop window
//	skyraid menu              - Pick a difficulty interactively
//	skyraid serve             - Start SSH server for remote play
//	skyraid scores            - Show the best runs
//	skyraid config            - Print the default configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.skyraid/scores.db)
//	--log <path>          - Set log file (default: ~/.skyraid/skyraid.log)
//	--config <path>       - Use a custom config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/games/skyraid"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLogPath    string
	flagVerbose    bool
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyraid",
	Short: "Sky Raid - shoot down the raiders before they wear you down",
	Long: `Sky Raid is an arcade shooter. Steer your ship with the mouse or the
keyboard, shoot down pursuing raiders, and collect the coins they drop
to upgrade your ship. Every third kill raises the level; getting hit
costs points, and the run ends when your score reaches zero.

Available commands:
  list     - Show all available games
  play     - Play in the terminal
  window   - Play in a desktop window
  menu     - Interactive difficulty picker
  serve    - Start SSH server for remote play
  scores   - View the best runs
  config   - Print the default configuration

Examples:
  skyraid play
  skyraid play --difficulty hard
  skyraid window --assets ./assets
  skyraid serve --ssh :2222
  skyraid scores`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagDifficulty != "" {
			if _, ok := config.ParsePreset(flagDifficulty); !ok {
				return fmt.Errorf("unknown difficulty %q (expected easy, normal, hard or fixed)", flagDifficulty)
			}
		}
		skyraid.SetConfigPath(flagConfig)
		skyraid.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.skyraid/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.skyraid/skyraid.log", "Path to log file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log gameplay events")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}
