package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pi-arcade/internal/config"
)

// newLogger builds the root logger from the debug options. The console owns
// the terminal, so log lines go to debug.log_file; with no file they go to
// fallback. The returned func closes the file.
func newLogger(dbg config.DebugConfig, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(dbg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	out, closeFn := fallback, func() {}
	if dbg.LogFile != "" {
		path := config.ExpandPath(dbg.LogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log: create directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log: open %s: %w", path, err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           level,
	})
	return logger, closeFn, nil
}
