package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/console"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/hw"
	"github.com/vovakirdan/pi-arcade/internal/platform/tui"
	"github.com/vovakirdan/pi-arcade/internal/storage"
)

var flagGame string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the console",
	Long: `Start the arcade console on the current terminal (the HDMI tty on the Pi).

Peripherals that fail to open are disabled. If more than half of the enabled
peripherals fail, startup aborts. Use --simulate to run on a desktop.

Keyboard (stands in for the keypad and gamepad):
  Arrows/WASD  - Move          Enter      - Confirm
  Space/J      - A (fire)      Esc        - Back
  K            - B             P          - Pause
  X / Y        - X / Y         R          - Play again
  0-9 * # A-D  - Keypad keys   ?          - Help
  Q/Ctrl+C     - Quit

Examples:
  arcade run
  arcade run --simulate --game tetris
  arcade run --difficulty fixed`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadSettings()
	if err != nil {
		return err
	}
	if flagGame != "" {
		d, err := lookupGame(flagGame)
		if err != nil {
			return fmt.Errorf("%w (run 'arcade list' to see available games)", err)
		}
		flagGame = d.ID
	}

	logger, closeLog, err := newLogger(cfg.Debug, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if path == "" {
		path = "defaults"
	}
	logger.Info("console starting", "config", path, "simulate", cfg.Debug.Simulate, "fps", cfg.Display.FPS)

	powerOff, err := playConsole(cfg, logger)
	if err != nil {
		logger.Error("console stopped", "error", err)
		return err
	}

	pb := cfg.Hardware.PowerButton
	if powerOff && pb.Shutdown && !cfg.Debug.Simulate {
		return shutdown(cmd.Context(), pb.Command, logger)
	}
	logger.Info("console stopped", "power_off", powerOff)
	return nil
}

// playConsole runs the console until it quits and releases every resource
// before returning. It reports whether the power button ended the session.
func playConsole(cfg config.Console, logger *log.Logger) (bool, error) {
	periph, err := hw.Open(cfg, logger)
	if err != nil {
		if errors.Is(err, hw.ErrTooManyFailures) {
			return false, fmt.Errorf("%w (try --simulate)", err)
		}
		return false, err
	}
	defer func() {
		if err := periph.Close(); err != nil {
			logger.Warn("closing peripherals", "error", err)
		}
	}()

	var scores console.ScoreStore
	if store := openStore(cfg.Scores, logger); store != nil {
		defer store.Close()
		scores = store
	}

	w, h := screenSize(cfg.Display)
	ctrl := console.New(console.FromPeripherals(periph), scores, console.Config{
		Runtime: core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: cfg.Display.FPS, Seed: flagSeed},
		Timing:  cfg.Timing,
		ShowFPS: cfg.Debug.ShowFPS,
	}, logger.WithPrefix("console"))

	if flagGame != "" {
		if err := ctrl.SelectGame(flagGame); err != nil {
			return false, err
		}
	}

	var opts []tui.ModelOption
	if cfg.Display.HDMIWidth > 0 || cfg.Display.HDMIHeight > 0 {
		opts = append(opts, tui.WithFixedSize(w, h))
	}
	if err := tui.Run(ctrl, cfg.Display.FPS, opts...); err != nil {
		return false, fmt.Errorf("terminal: %w", err)
	}
	if err := ctrl.Err(); err != nil {
		logger.Warn("last console error", "error", err)
	}
	return ctrl.PowerOff(), nil
}

// openStore opens the score database. Scores are optional: a failure is
// logged and the console runs without persistence.
func openStore(cfg config.ScoresConfig, logger *log.Logger) *storage.Store {
	if !cfg.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("scores disabled", "path", cfg.DBPath, "error", err)
		return nil
	}
	return store
}

// screenSize picks the HDMI screen size: the configured size, else the
// terminal size, else the default. A configured size stays fixed for the
// session; otherwise the screen follows terminal resizes.
func screenSize(cfg config.DisplayConfig) (int, int) {
	def := core.DefaultConfig()
	w, h := def.ScreenW, def.ScreenH
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	if cfg.HDMIWidth > 0 {
		w = cfg.HDMIWidth
	}
	if cfg.HDMIHeight > 0 {
		h = cfg.HDMIHeight
	}
	return w, h
}

// shutdown runs the configured power-off command.
func shutdown(ctx context.Context, command string, logger *log.Logger) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return errors.New("power: empty shutdown command")
	}
	logger.Info("powering off", "command", command)

	out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("power: %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
