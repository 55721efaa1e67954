package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

// KeyMap is the keyboard fallback for the gamepad and keypad. Terminals do
// not report key releases, so every key event counts as a fresh press.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Fire    key.Binding
	Alt     key.Binding
	Extra   key.Binding
	Rotate  key.Binding
	Pause   key.Binding
	Confirm key.Binding
	Back    key.Binding
	Restart key.Binding
	Help    key.Binding
	Shot    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
		Fire:    key.NewBinding(key.WithKeys(" ", "j"), key.WithHelp("space/j", "A")),
		Alt:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "B")),
		Extra:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "X")),
		Rotate:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "Y")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Shot:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "screenshot")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fire, k.Confirm, k.Back, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Fire, k.Alt, k.Extra, k.Rotate},
		{k.Pause, k.Confirm, k.Back, k.Restart},
		{k.Help, k.Shot, k.Quit},
	}
}

type actionBinding struct {
	b key.Binding
	a core.Action
}

// actions lists the bindings that become console actions, in match order.
func (k KeyMap) actions() []actionBinding {
	return []actionBinding{
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.Fire, core.ActionFire},
		{k.Alt, core.ActionAlt},
		{k.Extra, core.ActionExtra},
		{k.Rotate, core.ActionRotate},
		{k.Pause, core.ActionPause},
		{k.Confirm, core.ActionConfirm},
		{k.Back, core.ActionBack},
		{k.Restart, core.ActionRestart},
		{k.Quit, core.ActionQuit},
	}
}

// Action translates a key message to a console action, or ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	for _, m := range k.actions() {
		if key.Matches(msg, m.b) {
			return m.a
		}
	}
	return core.ActionNone
}

// KeypadKey reports the matrix keypad key a keyboard key stands for: digits,
// '*', '#', and the shifted letters A to D.
func KeypadKey(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return 0, false
	}
	switch r := msg.Runes[0]; {
	case r >= '0' && r <= '9', r == '*', r == '#', r >= 'A' && r <= 'D':
		return r, true
	}
	return 0, false
}
