package console

import (
	"image/color"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/hw"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// KeySource is a debounced matrix keypad.
type KeySource interface {
	Poll(now time.Time) (rune, bool)
}

// PadSource yields one input frame per poll.
type PadSource interface {
	Poll(now time.Time) core.InputFrame
}

// Sounder plays tunes and game effects without blocking.
type Sounder interface {
	Melody(m hw.Melody)
	Play(s registry.Sound)
	Stop()
}

// Indicator is the traffic light.
type Indicator interface {
	Set(l hw.Light) error
}

// SmallDisplay is the SPI panel next to the keypad.
type SmallDisplay interface {
	ShowLoading(message string, percent int) error
	ShowMenu(entries []hw.MenuEntry, selected int) error
	ShowInstructions(title, description string, controls []string) error
	ShowCountdown(n int) error
	ShowGameOver(title string, score, high int, newHigh bool) error
	ShowMessage(title, message string, titleColor color.RGBA) error
}

// PowerSwitch reports true once per long press.
type PowerSwitch interface {
	Poll(now time.Time) bool
}

// Devices are the peripherals the controller talks to. Any of them may be nil.
type Devices struct {
	Keys    KeySource
	Pad     PadSource
	Sound   Sounder
	Lights  Indicator
	Display SmallDisplay
	Power   PowerSwitch
}

// FromPeripherals converts opened hardware into Devices. Missing peripherals
// stay nil interfaces rather than typed nil pointers.
func FromPeripherals(p *hw.Peripherals) Devices {
	var d Devices
	if p == nil {
		return d
	}
	if p.Keypad != nil {
		d.Keys = p.Keypad
	}
	if p.Gamepad != nil {
		d.Pad = p.Gamepad
	}
	if p.Buzzer != nil {
		d.Sound = p.Buzzer
	}
	if p.Lights != nil {
		d.Lights = p.Lights
	}
	if p.Panel != nil {
		d.Display = p.Panel
	}
	if p.Power != nil {
		d.Power = p.Power
	}
	return d
}
