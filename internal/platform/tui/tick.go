// Package tui runs the arcade console on a terminal: the HDMI tty of the Pi
// or an SSH session. It owns the Bubble Tea loop, maps the keyboard onto
// console actions and turns the console's screen buffer into styled text.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one console tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after one frame at
// the given rate.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
