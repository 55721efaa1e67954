package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pi-arcade/internal/platform/tui"
	"github.com/vovakirdan/pi-arcade/internal/registry"
	"github.com/vovakirdan/pi-arcade/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTable bool
	flagScoresClear bool
	flagScoresKeep  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Without a game, prints a summary of every game that has been played.
With a game, prints its top scores, or opens the interactive scoreboard
with --interactive.

Examples:
  arcade scores
  arcade scores snake
  arcade scores tetris -i
  arcade scores memory --clear
  arcade scores snake --keep 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagScoresTable, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score of the game")
	scoresCmd.Flags().IntVar(&flagScoresKeep, "keep", 0, "Delete all but the best N scores of the game")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Scores.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagScoresClear || flagScoresKeep > 0 {
			return errors.New("--clear and --keep need a game")
		}
		return printSummary(store)
	}

	game, err := lookupGame(args[0])
	if err != nil {
		return fmt.Errorf("%w (run 'arcade list' to see available games)", err)
	}

	switch {
	case flagScoresClear:
		if err := store.ClearScores(game.ID); err != nil {
			return err
		}
		fmt.Printf("Scores cleared for %s.\n", game.Name)
		return nil
	case flagScoresKeep > 0:
		n, err := store.Prune(game.ID, flagScoresKeep)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d scores from %s.\n", n, game.Name)
		return nil
	case flagScoresTable:
		return tui.RunScoreboard(store, game.ID)
	}
	return printTop(store, game)
}

func printTop(store *storage.Store, game registry.GameDescriptor) error {
	scores, err := store.TopScores(game.ID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Name)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %s\n", "Rank", "Score", "Time", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %s\n", "----", "-----", "----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %-8s  %s\n",
			i+1, entry.Score, tui.FormatPlayed(entry.Duration), entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GameStats(game.ID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d   Games: %d   Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.AllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s  %-8s  %-6s  %-10s  %s\n", "Game", "Best", "Games", "Played", "Last")
	fmt.Printf("  %-12s  %-8s  %-6s  %-10s  %s\n", "----", "----", "-----", "------", "----")
	for _, id := range ids {
		s := all[id]
		name := id
		if d, err := registry.Get(id); err == nil {
			name = d.Name
		}
		fmt.Printf("  %-12s  %-8d  %-6d  %-10s  %s\n",
			name, s.HighScore, s.GamesCount, tui.FormatPlayed(s.TotalPlay), s.LastPlayed.Format("2006-01-02"))
	}
	return nil
}
