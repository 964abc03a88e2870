package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyraid/internal/registry"
	"github.com/vovakirdan/skyraid/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows a list of all registered games with how often each was played.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	stats := playedStats()

	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "ID", "Runs", "Best", "Title")
	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "--", "----", "----", "-----")
	for _, g := range games {
		runs, best := "-", "-"
		if st, ok := stats[g.ID]; ok {
			runs, best = fmt.Sprint(st.RunsCount), fmt.Sprint(st.HighScore)
		}
		fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, g.ID, runs, best, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'skyraid play' to fly a sortie.")
}

// playedStats returns per-game run statistics, or nil if the score database
// cannot be read. Listing games never fails because of storage.
func playedStats() map[string]*storage.GameStats {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil
	}
	defer store.Close()

	stats, err := store.GetAllGamesStats()
	if err != nil {
		return nil
	}
	return stats
}
