package hw

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/vovakirdan/pi-arcade/internal/config"
)

// fakeDrivers hands out test pins for every BCM number except the missing ones.
func fakeDrivers(initErr error, missing ...int) Drivers {
	return Drivers{
		Init: func() error { return initErr },
		Pin: func(bcm int) (gpio.PinIO, error) {
			if slices.Contains(missing, bcm) {
				return nil, fmt.Errorf("no pin GPIO%d", bcm)
			}
			return &gpiotest.Pin{N: fmt.Sprintf("GPIO%d", bcm), Num: bcm}, nil
		},
		SPI: func(string, int64) (spi.Conn, io.Closer, error) {
			rec := spitest.NewRecordRaw(io.Discard)
			c, err := rec.Connect(0, spi.Mode0, 8)
			return c, rec, err
		},
		Gamepad: func(int) (PadDevice, error) { return nil, ErrNoController },
	}
}

func testConsole() config.Console {
	cfg := config.DefaultConsole()
	cfg.Display.SPI.Width, cfg.Display.SPI.Height = 8, 8
	return cfg
}

func TestOpenAllPeripherals(t *testing.T) {
	p, err := OpenWith(testConsole(), fakeDrivers(nil), discard)
	if err != nil {
		t.Fatalf("OpenWith() failed: %v", err)
	}
	defer p.Close()

	if len(p.Failed) != 0 {
		t.Errorf("failed = %v", p.Failed)
	}
	if p.Keypad == nil || p.Gamepad == nil || p.Buzzer == nil || p.Lights == nil || p.Power == nil || p.Panel == nil {
		t.Errorf("missing peripheral: %+v", p)
	}
	if p.Gamepad.Connected() {
		t.Error("gamepad should wait for a controller")
	}
}

type portCloser struct{ closed int }

func (c *portCloser) Close() error {
	c.closed++
	return nil
}

func TestOpenPanelReleasesPort(t *testing.T) {
	cfg := testConsole()
	tests := []struct {
		name       string
		missing    []int
		wantPanel  bool
		wantClosed int // after Peripherals.Close
	}{
		{"panel opened", nil, true, 1},
		{"dc pin missing", []int{cfg.Display.SPI.DCPin}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &portCloser{}
			drv := fakeDrivers(nil, tt.missing...)
			drv.SPI = func(string, int64) (spi.Conn, io.Closer, error) {
				c, err := spitest.NewRecordRaw(io.Discard).Connect(0, spi.Mode0, 8)
				return c, port, err
			}

			p, err := OpenWith(cfg, drv, discard)
			if err != nil {
				t.Fatalf("OpenWith() failed: %v", err)
			}
			if got := p.Panel != nil; got != tt.wantPanel {
				t.Errorf("panel opened = %v, want %v", got, tt.wantPanel)
			}
			if !tt.wantPanel && port.closed != 1 {
				t.Errorf("port closed %d times after a failed open, want 1", port.closed)
			}
			p.Close()
			if port.closed != tt.wantClosed {
				t.Errorf("port closed %d times, want %d", port.closed, tt.wantClosed)
			}
		})
	}
}

func TestOpenDegradedMode(t *testing.T) {
	cfg := testConsole()
	p, err := OpenWith(cfg, fakeDrivers(nil, cfg.Hardware.PowerButton.Pin, cfg.Audio.BuzzerPin), discard)
	if err != nil {
		t.Fatalf("OpenWith() failed: %v", err)
	}
	defer p.Close()

	want := []string{"buzzer", "power button"}
	if !slices.Equal(p.Failed, want) {
		t.Errorf("failed = %v, want %v", p.Failed, want)
	}
	if p.Power != nil {
		t.Error("power button should be disabled")
	}
	if p.Buzzer == nil {
		t.Error("buzzer should fall back to a silent speaker")
	}
}

func TestOpenTooManyFailures(t *testing.T) {
	tests := []struct {
		name string
		drv  Drivers
		cfg  func(*config.Console)
	}{
		{"host init fails", fakeDrivers(errors.New("no gpio")), nil},
		{"most pins missing", fakeDrivers(nil, 6, 5, 18, 4), func(c *config.Console) {
			c.Display.SPI.Enabled = false
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConsole()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			_, err := OpenWith(cfg, tt.drv, discard)
			if !errors.Is(err, ErrTooManyFailures) {
				t.Errorf("err = %v, want ErrTooManyFailures", err)
			}
		})
	}
}

func TestOpenExactlyHalfFailing(t *testing.T) {
	cfg := testConsole()
	cfg.Hardware.Gamepad.Enabled = false
	cfg.Display.SPI.Enabled = false
	// keypad, buzzer, traffic light, power button: two of four fail.
	p, err := OpenWith(cfg, fakeDrivers(nil, 6, 4), discard)
	if err != nil {
		t.Fatalf("half failing should not abort: %v", err)
	}
	p.Close()
}

func TestOpenNothingEnabled(t *testing.T) {
	cfg := testConsole()
	cfg.Hardware = config.HardwareConfig{}
	cfg.Audio.Enabled = false
	cfg.Display.SPI.Enabled = false

	p, err := OpenWith(cfg, fakeDrivers(errors.New("no gpio")), discard)
	if err != nil {
		t.Fatalf("OpenWith() failed: %v", err)
	}
	if p.Buzzer != nil || p.Panel != nil {
		t.Error("disabled peripherals opened")
	}
}

func TestSimulated(t *testing.T) {
	cfg := testConsole()
	cfg.Debug.Simulate = true
	p, err := Open(cfg, discard)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer p.Close()

	if p.Keypad != nil || p.Lights != nil {
		t.Error("simulation must not touch GPIO")
	}
	if p.Buzzer == nil || p.Panel == nil {
		t.Error("simulation needs a buzzer and a panel")
	}
}

func TestPanelSizeRotation(t *testing.T) {
	sc := config.SPIConfig{Width: 240, Height: 320, Rotate: 1}
	if w, h := panelSize(sc); w != 320 || h != 240 {
		t.Errorf("panelSize = %dx%d, want 320x240", w, h)
	}
}
