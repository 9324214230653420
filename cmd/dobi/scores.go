package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dobi-games/flappy-dobi/internal/platform/tui"
	"github.com/dobi-games/flappy-dobi/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresPlayer      string
	flagScoresInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the local leaderboard",
	RunE:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "for", "", "Show scores for a single player")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse scores in an interactive table")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	if flagScoresInteractive {
		p := tea.NewProgram(tui.NewScoreboard(store), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run scoreboard: %w", err)
		}
		return nil
	}

	var entries []storage.ScoreEntry
	if flagScoresPlayer != "" {
		entries, err = store.PlayerScores(flagScoresPlayer, flagScoresLimit)
	} else {
		entries, err = store.TopScores(flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No scores yet. Go play!")
		return nil
	}

	fmt.Printf("%-4s %-16s %6s  %-8s %-6s %s\n", "#", "PLAYER", "SCORE", "MODE", "WON", "DATE")
	fmt.Println(strings.Repeat("-", 58))
	for i, e := range entries {
		won := "no"
		if e.Won {
			won = "yes"
		}
		fmt.Printf("%-4d %-16s %6d  %-8s %-6s %s\n",
			i+1, e.Player, e.Score, e.Mode, won, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
