package core

import "time"

// Action is a semantic button or direction, decoupled from the physical device
// (keypad, gamepad or keyboard) that produced it.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // D-pad/stick up, W, Up arrow
	ActionDown           // D-pad/stick down, S, Down arrow
	ActionLeft           // D-pad/stick left, A, Left arrow
	ActionRight          // D-pad/stick right, D, Right arrow
	ActionFire           // Gamepad A, Space - primary in-game action
	ActionAlt            // Gamepad B - secondary in-game action
	ActionExtra          // Gamepad X
	ActionRotate         // Gamepad Y
	ActionPause          // Gamepad Start, P
	ActionConfirm        // Keypad A, Enter
	ActionBack           // Keypad B/D, gamepad Back, Esc
	ActionRestart        // R
	ActionQuit           // Ctrl+C, power button
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionFire:    "Fire",
	ActionAlt:     "Alt",
	ActionExtra:   "Extra",
	ActionRotate:  "Rotate",
	ActionPause:   "Pause",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame is the flat set of button and direction flags sampled once per tick.
//
// Pressed holds actions that went down during this tick (edge), Held holds
// actions that are currently down (level). A press always implies held for the
// same frame. Delta is the wall-clock time covered by the tick; games gate
// movement and timers on it instead of reading the clock themselves, which keeps
// Step deterministic under test.
type InputFrame struct {
	Pressed map[Action]bool
	Held    map[Action]bool
	Delta   time.Duration
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Pressed: make(map[Action]bool),
		Held:    make(map[Action]bool),
	}
}

// FrameOf builds a frame with the given actions pressed and a fixed delta.
// Mostly useful in tests and for scripted input.
func FrameOf(delta time.Duration, actions ...Action) InputFrame {
	f := NewInputFrame()
	f.Delta = delta
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as pressed (and held) for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Pressed == nil {
		f.Pressed = make(map[Action]bool)
	}
	f.Pressed[a] = true
	f.Hold(a)
}

// Hold marks an action as held without registering a new press.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// Has returns true if the action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Pressed[a]
}

// IsHeld returns true if the action is down this frame.
func (f InputFrame) IsHeld(a Action) bool {
	return f.Held[a] || f.Pressed[a]
}

// Empty reports whether no action is pressed or held.
func (f InputFrame) Empty() bool {
	return len(f.Pressed) == 0 && len(f.Held) == 0
}

// Clear resets all actions for the next frame. Delta is kept.
func (f *InputFrame) Clear() {
	for k := range f.Pressed {
		delete(f.Pressed, k)
	}
	for k := range f.Held {
		delete(f.Held, k)
	}
}

// Merge adds every pressed and held action of other into f.
// Used to combine keyboard, keypad and gamepad sources into one frame.
func (f *InputFrame) Merge(other InputFrame) {
	for a, v := range other.Pressed {
		if v {
			f.Set(a)
		}
	}
	for a, v := range other.Held {
		if v {
			f.Hold(a)
		}
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.Delta = f.Delta
	clone.Merge(f)
	return clone
}
