package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets its own console with the keyboard as its only input
device. Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  arcade serve                           # Listen on :23234 with auto-generated key
  arcade serve --ssh :2222               # Listen on port 2222
  arcade serve --host-key ./my_host_key  # Use specific host key
  arcade serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", tui.DefaultSSHServerConfig().MaxSessions, "Concurrent players allowed (0 = no limit)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	// The server does not own a terminal, so it logs to stderr.
	logger, closeLog, err := newLogger(config.DebugConfig{LogLevel: cfg.Debug.LogLevel}, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.Scores, logger)
	if store != nil {
		defer store.Close()
	}

	srvCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		MaxSessions: flagMaxSessions,
		FPS:         cfg.Display.FPS,
		Timing:      cfg.Timing,
	}

	server, err := tui.NewSSHServer(srvCfg, store, logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting arcade SSH server on %s\n", srvCfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
