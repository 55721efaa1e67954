package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/console"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxSessions caps concurrent players; 0 means no limit. Every session
	// runs its own console loop on the Pi's CPU.
	MaxSessions int

	FPS    int
	Timing config.TimingConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		MaxSessions: 4,
		FPS:         60,
		Timing:      config.DefaultConsole().Timing,
	}
}

// SSHServer serves one virtual console per SSH session. Sessions have no
// peripherals; they share the score store.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int32
}

// NewSSHServer creates a new SSH server. store may be nil.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds a console and its Bubble Tea model for each session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	ctrl := s.newConsole(sess.User(), pty.Window.Width, pty.Window.Height)
	return NewModel(ctrl, s.config.FPS), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) newConsole(user string, w, h int) *console.Controller {
	var scores console.ScoreStore
	if s.store != nil {
		scores = s.store
	}
	cfg := console.Config{
		Runtime: core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: s.config.FPS},
		Timing:  s.config.Timing,
	}
	return console.New(console.Devices{}, scores, cfg, s.logger.WithPrefix("ssh:"+user))
}

// sessionMiddleware turns sessions away above MaxSessions and logs the rest.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.active.Add(1)
		defer s.active.Add(-1)

		remote := sess.RemoteAddr().String()
		if limit := s.config.MaxSessions; limit > 0 && int(n) > limit {
			s.logger.Warn("session rejected", "user", sess.User(), "remote", remote, "active", n-1)
			wish.Fatalln(sess, "The arcade is full, try again later.")
			return
		}

		s.logger.Info("session started", "user", sess.User(), "remote", remote, "active", n)
		start := time.Now()
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", remote,
			"duration", time.Since(start).Round(time.Second))
	}
}

// Active returns the number of connected sessions.
func (s *SSHServer) Active() int { return int(s.active.Load()) }

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. The store is left to its owner.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
