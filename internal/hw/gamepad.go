package hw

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

// ErrNoController is returned when no game controller sits at the index.
var ErrNoController = errors.New("hw: no game controller")

// PadButton is a physical gamepad button, in Xbox layout.
type PadButton int

const (
	PadA PadButton = iota
	PadB
	PadX
	PadY
	PadStart
	PadBack
	PadLB
	PadRB
	PadUp
	PadDown
	PadLeft
	PadRight
	padButtonCount
)

// PadState is one sample of a controller.
type PadState struct {
	Buttons [padButtonCount]bool
	LX, LY  float64 // Left stick, -1..1, +Y is down
	Trigger float64 // Combined triggers, -1 (left) .. 1 (right)
}

// PadDevice is an opened controller.
type PadDevice interface {
	Read() (PadState, bool) // false once the device is gone
	Name() string
	Close() error
}

// PadOpener opens the controller at an index.
type PadOpener func(index int) (PadDevice, error)

// DefaultThreshold is the stick deflection counted as a direction.
const DefaultThreshold = 0.5

const reconnectInterval = 2 * time.Second

// padActions maps buttons to console actions. D-pad and stick directions are
// handled separately so both can feed the same action.
var padActions = map[PadButton][]core.Action{
	PadA:     {core.ActionFire, core.ActionConfirm},
	PadB:     {core.ActionAlt, core.ActionBack},
	PadX:     {core.ActionExtra},
	PadY:     {core.ActionRotate},
	PadStart: {core.ActionPause},
	PadBack:  {core.ActionBack},
	PadLB:    {core.ActionLeft},
	PadRB:    {core.ActionRight},
}

// Gamepad turns controller samples into input frames with edge detection and
// reopens the controller after a disconnect.
type Gamepad struct {
	open      PadOpener
	index     int
	threshold float64
	logger    *log.Logger

	dev       PadDevice
	lastTry   time.Time
	prev      map[core.Action]bool
	connected bool
}

// NewGamepad creates a gamepad. The first Poll tries to open the device.
func NewGamepad(open PadOpener, index int, threshold float64, logger *log.Logger) *Gamepad {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	return &Gamepad{
		open:      open,
		index:     index,
		threshold: threshold,
		logger:    logger,
		prev:      make(map[core.Action]bool),
	}
}

// Connect opens the controller now.
func (g *Gamepad) Connect(now time.Time) error {
	g.lastTry = now
	dev, err := g.open(g.index)
	if err != nil {
		return err
	}
	g.dev = dev
	g.connected = true
	g.logger.Info("gamepad connected", "name", dev.Name(), "index", g.index)
	return nil
}

// Connected reports whether a controller is attached.
func (g *Gamepad) Connected() bool { return g.connected }

// Poll samples the controller. Held carries every action currently down and
// Pressed the ones that went down since the previous poll.
func (g *Gamepad) Poll(now time.Time) core.InputFrame {
	frame := core.NewInputFrame()

	if g.dev == nil {
		if now.Sub(g.lastTry) < reconnectInterval {
			return frame
		}
		if err := g.Connect(now); err != nil {
			g.logger.Debug("gamepad not available", "err", err)
			return frame
		}
	}

	st, ok := g.dev.Read()
	if !ok {
		g.logger.Warn("gamepad disconnected", "name", g.dev.Name())
		g.dev.Close()
		g.dev = nil
		g.connected = false
		g.lastTry = now
		clear(g.prev)
		return frame
	}

	held := g.actions(st)
	for a := range held {
		if g.prev[a] {
			frame.Hold(a)
		} else {
			frame.Set(a)
		}
	}
	g.prev = held
	return frame
}

func (g *Gamepad) actions(st PadState) map[core.Action]bool {
	held := make(map[core.Action]bool)
	for b, down := range st.Buttons {
		if !down {
			continue
		}
		switch PadButton(b) {
		case PadUp:
			held[core.ActionUp] = true
		case PadDown:
			held[core.ActionDown] = true
		case PadLeft:
			held[core.ActionLeft] = true
		case PadRight:
			held[core.ActionRight] = true
		default:
			for _, a := range padActions[PadButton(b)] {
				held[a] = true
			}
		}
	}

	switch {
	case st.LX <= -g.threshold:
		held[core.ActionLeft] = true
	case st.LX >= g.threshold:
		held[core.ActionRight] = true
	}
	switch {
	case st.LY <= -g.threshold:
		held[core.ActionUp] = true
	case st.LY >= g.threshold:
		held[core.ActionDown] = true
	}
	if st.Trigger >= g.threshold {
		held[core.ActionFire] = true
	}
	return held
}

// Close releases the controller.
func (g *Gamepad) Close() error {
	if g.dev == nil {
		return nil
	}
	err := g.dev.Close()
	g.dev = nil
	g.connected = false
	return err
}
