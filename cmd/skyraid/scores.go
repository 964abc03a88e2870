package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyraid/internal/games/skyraid"
	"github.com/vovakirdan/skyraid/internal/registry"
	"github.com/vovakirdan/skyraid/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
	flagScoresRun   string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the best runs",
	Long: `Display the best runs for a game, ranked by score, then level,
then kills.

Examples:
  skyraid scores
  skyraid scores --limit 25
  skyraid scores --clear
  skyraid scores --run 3f2c9a1e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every stored run for the game")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show a single run by its ID")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := skyraid.GameID
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q (run 'skyraid list' to see available games)", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared all runs for %s.\n", registry.Title(gameID))
		return nil
	}

	if flagScoresRun != "" {
		run, err := store.RunByID(flagScoresRun)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no run with id %q", flagScoresRun)
		}
		printRuns([]storage.Run{*run})
		fmt.Printf("\nRun ID: %s\n", run.RunID)
		return nil
	}

	runs, err := store.TopRuns(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best runs - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'skyraid play' to set the first high score!")
		return nil
	}

	printRuns(runs)

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Runs: %d   Best: %d   Best level: %d   Kills: %d   Played: %s\n",
		stats.RunsCount, stats.HighScore, stats.BestLevel, stats.TotalKills, stats.PlayTime.Round(1e9))
	return nil
}

func printRuns(runs []storage.Run) {
	fmt.Printf("  %-4s  %-6s  %-5s  %-5s  %-6s  %-8s  %s\n", "Rank", "Score", "Level", "Kills", "Time", "Mode", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-5s  %-6s  %-8s  %s\n", "----", "-----", "-----", "-----", "----", "----", "----")
	for i, r := range runs {
		mode := r.Difficulty
		if mode == "" {
			mode = "-"
		}
		secs := int(r.Duration.Seconds())
		fmt.Printf("  %-4d  %-6d  %-5d  %-5d  %-6s  %-8s  %s\n",
			i+1, r.Score, r.Level, r.Kills,
			fmt.Sprintf("%d:%02d", secs/60, secs%60),
			mode, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
