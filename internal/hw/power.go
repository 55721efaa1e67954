package hw

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// DefaultHold is how long the power button must be held.
const DefaultHold = 3 * time.Second

// PowerButton detects a long press on an active-low button.
type PowerButton struct {
	pin  gpio.PinIn
	hold time.Duration

	down    bool
	since   time.Time
	tripped bool // Already reported for this press
}

// NewPowerButton configures pin as a pulled-up input.
func NewPowerButton(pin gpio.PinIn, hold time.Duration) (*PowerButton, error) {
	if hold <= 0 {
		hold = DefaultHold
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hw: power button %s: %w", pin, err)
	}
	return &PowerButton{pin: pin, hold: hold}, nil
}

// Poll returns true once per press, on the first poll after the button has
// been held for the hold time.
func (p *PowerButton) Poll(now time.Time) bool {
	down := p.pin.Read() == gpio.Low
	switch {
	case !down:
		p.down = false
		p.tripped = false
		return false
	case !p.down:
		p.down = true
		p.since = now
	}
	if p.tripped || now.Sub(p.since) < p.hold {
		return false
	}
	p.tripped = true
	return true
}

// HeldFor returns how long the button has been down.
func (p *PowerButton) HeldFor(now time.Time) time.Duration {
	if !p.down {
		return 0
	}
	return now.Sub(p.since)
}

// Close is a no-op; the pin is released with the host.
func (p *PowerButton) Close() error { return nil }
