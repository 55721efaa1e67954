// Package hw wraps the console peripherals: matrix keypad, gamepad, buzzer,
// traffic light LEDs, power button and the small SPI display.
//
// Every peripheral is optional. Open logs the ones that fail and carries on
// without them, unless most of them fail, which usually means the console is
// not running on the Pi at all.
package hw

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/vovakirdan/pi-arcade/internal/config"
)

// ErrTooManyFailures is returned by Open when more than half of the enabled
// peripherals could not be opened.
var ErrTooManyFailures = errors.New("hw: too many peripherals failed")

// Peripherals holds what could be opened. Absent peripherals are nil,
// except Buzzer and Panel which fall back to silent/in-memory versions.
type Peripherals struct {
	Keypad  *Keypad
	Gamepad *Gamepad
	Buzzer  *Buzzer
	Lights  *Lights
	Power   *PowerButton
	Panel   *Panel

	Failed []string // Names of peripherals that failed to open
}

// Drivers are the low-level hooks Open uses. Tests swap them for fakes.
// SPI returns the connection along with the port that must be closed after it.
type Drivers struct {
	Init    func() error
	Pin     func(bcm int) (gpio.PinIO, error)
	SPI     func(port string, hz int64) (spi.Conn, io.Closer, error)
	Gamepad PadOpener
}

// HostDrivers opens real hardware through periph.io and SDL.
func HostDrivers() Drivers {
	return Drivers{
		Init: func() error {
			_, err := host.Init()
			return err
		},
		Pin: func(bcm int) (gpio.PinIO, error) {
			p := gpioreg.ByName(fmt.Sprintf("GPIO%d", bcm))
			if p == nil {
				return nil, fmt.Errorf("hw: no pin GPIO%d", bcm)
			}
			return p, nil
		},
		SPI: func(port string, hz int64) (spi.Conn, io.Closer, error) {
			p, err := spireg.Open(port)
			if err != nil {
				return nil, nil, err
			}
			c, err := p.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
			if err != nil {
				p.Close()
				return nil, nil, err
			}
			return c, p, nil
		},
		Gamepad: OpenSDLPad,
	}
}

// Open opens the peripherals enabled in cfg with the host drivers.
// In simulation mode no hardware is touched.
func Open(cfg config.Console, logger *log.Logger) (*Peripherals, error) {
	if cfg.Debug.Simulate {
		return Simulated(cfg, logger), nil
	}
	return OpenWith(cfg, HostDrivers(), logger)
}

// Simulated returns peripherals without hardware: a memory display and a
// buzzer that records to WAV when configured, or stays silent.
func Simulated(cfg config.Console, logger *log.Logger) *Peripherals {
	p := &Peripherals{}
	if cfg.Audio.Enabled {
		var sp Speaker = NullSpeaker{}
		if cfg.Audio.RecordWAV != "" {
			sp = NewWAVSpeaker(config.ExpandPath(cfg.Audio.RecordWAV))
		}
		p.Buzzer = NewBuzzer(sp, cfg.Audio.QueueSize, cfg.Audio.Volume, logger.WithPrefix("buzzer"))
	}
	if cfg.Display.SPI.Enabled {
		w, h := panelSize(cfg.Display.SPI)
		p.Panel = NewPanel(w, h, &MemorySink{}, logger.WithPrefix("display"))
	}
	return p
}

// OpenWith opens the enabled peripherals through drv.
func OpenWith(cfg config.Console, drv Drivers, logger *log.Logger) (*Peripherals, error) {
	p := &Peripherals{}
	attempted := 0

	hostErr := drv.Init()
	if hostErr != nil {
		logger.Error("gpio host init failed", "err", hostErr)
	}

	try := func(name string, open func() error) {
		attempted++
		if hostErr != nil && name != "gamepad" {
			p.Failed = append(p.Failed, name)
			return
		}
		if err := open(); err != nil {
			logger.Error("peripheral disabled", "peripheral", name, "err", err)
			p.Failed = append(p.Failed, name)
			return
		}
		logger.Info("peripheral ready", "peripheral", name)
	}

	hc := cfg.Hardware
	if hc.Keypad.Enabled {
		try("keypad", func() error {
			rows, err := pins(drv, hc.Keypad.RowPins)
			if err != nil {
				return err
			}
			cols, err := pins(drv, hc.Keypad.ColPins)
			if err != nil {
				return err
			}
			scan, err := NewMatrixScanner(rows, cols)
			if err != nil {
				return err
			}
			p.Keypad = NewKeypad(scan, time.Duration(hc.Keypad.DebounceMS)*time.Millisecond)
			return nil
		})
	}

	if hc.Gamepad.Enabled {
		try("gamepad", func() error {
			p.Gamepad = NewGamepad(drv.Gamepad, hc.Gamepad.Index, hc.Gamepad.Threshold, logger.WithPrefix("gamepad"))
			// A missing controller is not fatal; Poll keeps retrying.
			if err := p.Gamepad.Connect(time.Now()); err != nil {
				logger.Warn("gamepad not connected yet", "err", err)
			}
			return nil
		})
	}

	if cfg.Audio.Enabled {
		try("buzzer", func() error {
			pin, err := drv.Pin(cfg.Audio.BuzzerPin)
			if err != nil {
				return err
			}
			pwm, err := NewPWMSpeaker(pin)
			if err != nil {
				return err
			}
			var sp Speaker = pwm
			if cfg.Audio.RecordWAV != "" {
				sp = Speakers{pwm, NewWAVSpeaker(config.ExpandPath(cfg.Audio.RecordWAV))}
			}
			p.Buzzer = NewBuzzer(sp, cfg.Audio.QueueSize, cfg.Audio.Volume, logger.WithPrefix("buzzer"))
			return nil
		})
	}

	if tl := hc.TrafficLight; tl.Enabled {
		try("traffic light", func() error {
			lp, err := pins(drv, []int{tl.RedPin, tl.YellowPin, tl.GreenPin})
			if err != nil {
				return err
			}
			p.Lights, err = NewLights(lp[0], lp[1], lp[2])
			return err
		})
	}

	if pb := hc.PowerButton; pb.Enabled {
		try("power button", func() error {
			pin, err := drv.Pin(pb.Pin)
			if err != nil {
				return err
			}
			hold := time.Duration(pb.HoldSeconds * float64(time.Second))
			p.Power, err = NewPowerButton(pin, hold)
			return err
		})
	}

	if sc := cfg.Display.SPI; sc.Enabled {
		try("display", func() error {
			panel, err := openPanel(drv, sc, logger)
			p.Panel = panel
			return err
		})
	}

	if attempted > 0 && len(p.Failed)*2 > attempted {
		p.Close()
		return nil, fmt.Errorf("%w: %d of %d (%v)", ErrTooManyFailures, len(p.Failed), attempted, p.Failed)
	}

	if p.Buzzer == nil && cfg.Audio.Enabled {
		p.Buzzer = NewBuzzer(NullSpeaker{}, cfg.Audio.QueueSize, cfg.Audio.Volume, logger.WithPrefix("buzzer"))
	}
	return p, nil
}

// openPanel brings up the SPI display. The SPI port is closed again when
// any later step fails.
func openPanel(drv Drivers, sc config.SPIConfig, logger *log.Logger) (_ *Panel, rerr error) {
	conn, port, err := drv.SPI(sc.Port, sc.SpeedHz)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr != nil {
			port.Close()
		}
	}()

	dc, err := drv.Pin(sc.DCPin)
	if err != nil {
		return nil, err
	}
	reset, _ := drv.Pin(sc.ResetPin)
	led, _ := drv.Pin(sc.LEDPin)
	w, h := panelSize(sc)
	lcd, err := NewILI9341(conn, dc, optional(reset), optional(led), w, h, sc.Rotate)
	if err != nil {
		return nil, err
	}
	panel := NewPanel(w, h, spiSink{lcd, port}, logger.WithPrefix("display"))
	if err := panel.SetBrightness(sc.Brightness); err != nil {
		return nil, err
	}
	return panel, nil
}

// spiSink is the panel controller together with the SPI port it owns.
type spiSink struct {
	*ILI9341
	port io.Closer
}

func (s spiSink) Close() error {
	return errors.Join(s.ILI9341.Close(), s.port.Close())
}

// Close releases everything that was opened.
func (p *Peripherals) Close() error {
	var errs []error
	if p.Keypad != nil {
		errs = append(errs, p.Keypad.Close())
	}
	if p.Power != nil {
		errs = append(errs, p.Power.Close())
	}
	if p.Buzzer != nil {
		errs = append(errs, p.Buzzer.Close())
	}
	if p.Lights != nil {
		errs = append(errs, p.Lights.Close())
	}
	if p.Gamepad != nil {
		errs = append(errs, p.Gamepad.Close())
	}
	if p.Panel != nil {
		errs = append(errs, p.Panel.Close())
	}
	return errors.Join(errs...)
}

func pins(drv Drivers, nums []int) ([]gpio.PinIO, error) {
	out := make([]gpio.PinIO, 0, len(nums))
	for _, n := range nums {
		p, err := drv.Pin(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// optional turns a missing pin into a nil interface.
func optional(p gpio.PinIO) gpio.PinOut {
	if p == nil {
		return nil
	}
	return p
}

// panelSize is the logical size after rotation.
func panelSize(sc config.SPIConfig) (int, int) {
	if sc.Rotate%2 == 1 {
		return sc.Height, sc.Width
	}
	return sc.Width, sc.Height
}
