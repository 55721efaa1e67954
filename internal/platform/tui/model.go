package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pi-arcade/internal/console"
	"github.com/vovakirdan/pi-arcade/internal/core"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model that drives one console.
type Model struct {
	ctrl       *console.Controller
	fps        int
	keys       KeyMap
	help       help.Model
	showHelp   bool
	inputFrame core.InputFrame
	fixed      bool
	shotDir    string
	quitting   bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithFixedSize pins the HDMI screen to w x h cells. Terminal resizes are
// then ignored.
func WithFixedSize(w, h int) ModelOption {
	return func(m *Model) {
		if w > 0 && h > 0 {
			m.fixed = true
			m.ctrl.Resize(w, h)
		}
	}
}

// NewModel creates a model ticking the controller at fps frames per second.
func NewModel(ctrl *console.Controller, fps int, opts ...ModelOption) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{
		ctrl:       ctrl,
		fps:        fps,
		keys:       DefaultKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		shotDir:    filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots"),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Controller returns the driven console.
func (m Model) Controller() *console.Controller { return m.ctrl }

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if !m.fixed {
			m.ctrl.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Shot):
		m.saveScreenshot()
		return m, nil
	}

	if r, ok := KeypadKey(msg); ok {
		m.ctrl.PressKey(r)
		return m, nil
	}
	if a := m.keys.Action(msg); a != core.ActionNone {
		m.inputFrame.Set(a)
	}
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.ctrl.Update(now, m.inputFrame)
	m.inputFrame.Clear()

	if m.ctrl.Done() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.fps)
}

// saveScreenshot writes the current HDMI frame as plain text.
func (m Model) saveScreenshot() {
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.shotDir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.ctrl.State(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, the console continues regardless
	os.WriteFile(filepath.Join(m.shotDir, name), []byte(m.ctrl.Screen().String()), 0o600)
}

// View renders the console screen. The key help, when toggled, covers the
// bottom rows of the frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	out := RenderScreen(m.ctrl.Screen())
	if !m.showHelp {
		return out
	}
	rows := strings.Split(out, "\n")
	help := strings.Split(helpStyle.Render(m.help.View(m.keys)), "\n")
	help = append([]string{""}, help...)
	if len(help) > len(rows) {
		help = help[len(help)-len(rows):]
	}
	copy(rows[len(rows)-len(help):], help)
	return strings.Join(rows, "\n")
}

// Run runs the console on the current terminal until it quits.
func Run(ctrl *console.Controller, fps int, opts ...ModelOption) error {
	_, err := tea.NewProgram(NewModel(ctrl, fps, opts...), tea.WithAltScreen()).Run()
	return err
}
