//go:build cgo && !nosdl

package hw

import (
	"fmt"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

var (
	sdlOnce sync.Once
	sdlErr  error
)

func initSDL() error {
	sdlOnce.Do(func() {
		sdlErr = sdl.InitSubSystem(sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK)
	})
	return sdlErr
}

var sdlButtons = [padButtonCount]sdl.GameControllerButton{
	PadA:     sdl.CONTROLLER_BUTTON_A,
	PadB:     sdl.CONTROLLER_BUTTON_B,
	PadX:     sdl.CONTROLLER_BUTTON_X,
	PadY:     sdl.CONTROLLER_BUTTON_Y,
	PadStart: sdl.CONTROLLER_BUTTON_START,
	PadBack:  sdl.CONTROLLER_BUTTON_BACK,
	PadLB:    sdl.CONTROLLER_BUTTON_LEFTSHOULDER,
	PadRB:    sdl.CONTROLLER_BUTTON_RIGHTSHOULDER,
	PadUp:    sdl.CONTROLLER_BUTTON_DPAD_UP,
	PadDown:  sdl.CONTROLLER_BUTTON_DPAD_DOWN,
	PadLeft:  sdl.CONTROLLER_BUTTON_DPAD_LEFT,
	PadRight: sdl.CONTROLLER_BUTTON_DPAD_RIGHT,
}

type sdlPad struct {
	pad *sdl.GameController
}

// OpenSDLPad opens an SDL game controller. It is the PadOpener used on the
// console.
func OpenSDLPad(index int) (PadDevice, error) {
	if err := initSDL(); err != nil {
		return nil, fmt.Errorf("hw: sdl: %w", err)
	}
	sdl.GameControllerUpdate()
	if index >= sdl.NumJoysticks() || !sdl.IsGameController(index) {
		return nil, fmt.Errorf("%w at index %d", ErrNoController, index)
	}
	pad := sdl.GameControllerOpen(index)
	if pad == nil || !pad.Attached() {
		return nil, fmt.Errorf("hw: sdl: open controller %d: %w", index, sdl.GetError())
	}
	return &sdlPad{pad: pad}, nil
}

func (p *sdlPad) Read() (PadState, bool) {
	sdl.GameControllerUpdate()
	if !p.pad.Attached() {
		return PadState{}, false
	}

	var st PadState
	for b, sb := range sdlButtons {
		st.Buttons[b] = p.pad.Button(sb) == 1
	}
	st.LX = axis(p.pad.Axis(sdl.CONTROLLER_AXIS_LEFTX))
	st.LY = axis(p.pad.Axis(sdl.CONTROLLER_AXIS_LEFTY))
	st.Trigger = axis(p.pad.Axis(sdl.CONTROLLER_AXIS_TRIGGERRIGHT)) - axis(p.pad.Axis(sdl.CONTROLLER_AXIS_TRIGGERLEFT))
	return st, true
}

func (p *sdlPad) Name() string { return p.pad.Name() }

func (p *sdlPad) Close() error {
	p.pad.Close()
	return nil
}

func axis(v int16) float64 {
	return float64(v) / 32767
}
