// arcade is the game console of a Raspberry Pi arcade cabinet: nine games on
// the HDMI terminal, driven by a matrix keypad and a gamepad, with a buzzer,
// traffic lights, a power button and a small SPI status display.
//
// Usage:
//
//	arcade [run]              - Start the console (default)
//	arcade list               - List available games
//	arcade scores [game]      - Show high scores
//	arcade config init|show   - Write or print the console configuration
//	arcade serve              - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>      - Console config file (default: ~/.arcade/config.json)
//	--fps <rate>         - Override the tick rate
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Override the scores database path
//	--simulate           - Run without GPIO, SPI or SDL
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/registry"

	// Import games to register them
	_ "github.com/vovakirdan/pi-arcade/internal/games/breakout"
	_ "github.com/vovakirdan/pi-arcade/internal/games/invaders"
	_ "github.com/vovakirdan/pi-arcade/internal/games/maze"
	_ "github.com/vovakirdan/pi-arcade/internal/games/memory"
	_ "github.com/vovakirdan/pi-arcade/internal/games/reaction"
	_ "github.com/vovakirdan/pi-arcade/internal/games/snake"
	_ "github.com/vovakirdan/pi-arcade/internal/games/tetris"
	_ "github.com/vovakirdan/pi-arcade/internal/games/tictactoe"
	_ "github.com/vovakirdan/pi-arcade/internal/games/whackamole"
)

var (
	// Global flags
	flagConfig     string
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagSimulate   bool
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Pi Arcade - a retro game console for the Raspberry Pi",
	Long: `Pi Arcade runs a small game console on the HDMI terminal of a
Raspberry Pi. Games are picked with the matrix keypad or the gamepad; the
buzzer, traffic lights and SPI display give feedback.

Without a subcommand the console starts (same as 'arcade run').

Examples:
  arcade
  arcade run --simulate
  arcade run --game snake --difficulty hard
  arcade list
  arcade scores tetris
  arcade config init
  arcade serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsole,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Console config file (default ~/.arcade/config.json)")
	pf.IntVar(&flagFPS, "fps", 0, "Tick rate in frames per second (0 = from config)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	pf.BoolVar(&flagSimulate, "simulate", false, "Use virtual peripherals instead of GPIO, SPI and SDL")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	// The root command runs the console too, so it shares the run flags.
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&flagGame, "game", "", "Preselect a game in the menu (slug or number)")
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings loads the console config and applies the global flags on top.
// It returns the file the config came from, or "" for built-in defaults.
func loadSettings() (config.Console, string, error) {
	cfg, path, err := config.LoadConsole(flagConfig)
	if err != nil {
		return cfg, path, err
	}

	if flagFPS > 0 {
		cfg.Display.FPS = flagFPS
	}
	if flagDBPath != "" {
		cfg.Scores.DBPath = flagDBPath
	}
	if flagSimulate {
		cfg.Debug.Simulate = true
	}

	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return cfg, path, err
	}
	config.SetDifficultyPreset(preset)

	return cfg, path, cfg.Validate()
}

// lookupGame resolves a game given by slug or by its menu number.
func lookupGame(arg string) (registry.GameDescriptor, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return registry.ByNumber(n)
	}
	return registry.Get(arg)
}
