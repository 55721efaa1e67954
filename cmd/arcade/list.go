package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pi-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows the games in menu order with the keypad number that selects them.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := len("ID"), len("Name")
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxNameLen = max(maxNameLen, len(g.Name))
	}

	fmt.Printf("  %-3s  %-*s  %-*s  %s\n", "Key", maxIDLen, "ID", maxNameLen, "Name", "Difficulty")
	fmt.Printf("  %-3s  %-*s  %-*s  %s\n", "---", maxIDLen, "--", maxNameLen, "----", "----------")

	for _, g := range games {
		fmt.Printf("  %-3d  %-*s  %-*s  %s\n", g.Number, maxIDLen, g.ID, maxNameLen, g.Name, g.Difficulty)
	}

	fmt.Println()
	fmt.Printf("%d games. Run 'arcade run --game <id|key>' to start with a game selected.\n", registry.Count())
}
