package hw

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// ILI9341 commands.
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdPASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdPIXFMT  = 0x3A
)

// madctl values per quarter turn, BGR order.
var madctl = [4]byte{0x48, 0x28, 0x88, 0xE8}

// maxChunk is the largest single SPI write spidev accepts by default.
const maxChunk = 4096

// ILI9341 sends frames to an ILI9341 TFT controller over SPI.
type ILI9341 struct {
	conn  spi.Conn
	dc    gpio.PinOut // Low = command, high = data
	reset gpio.PinOut // Optional
	led   gpio.PinOut // Optional backlight

	w, h int
	buf  []byte
}

// NewILI9341 resets and initialises the controller. w and h are the panel
// size after rotation.
func NewILI9341(conn spi.Conn, dc, reset, led gpio.PinOut, w, h, rotate int) (*ILI9341, error) {
	return newILI9341(conn, dc, reset, led, w, h, rotate, time.Sleep)
}

func newILI9341(conn spi.Conn, dc, reset, led gpio.PinOut, w, h, rotate int, sleep func(time.Duration)) (*ILI9341, error) {
	d := &ILI9341{conn: conn, dc: dc, reset: reset, led: led, w: w, h: h}

	if reset != nil {
		if err := reset.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("hw: ili9341 reset: %w", err)
		}
		sleep(10 * time.Millisecond)
		if err := reset.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("hw: ili9341 reset: %w", err)
		}
		sleep(120 * time.Millisecond)
	}

	steps := []struct {
		cmd   byte
		data  []byte
		pause time.Duration
	}{
		{cmdSWRESET, nil, 150 * time.Millisecond},
		{cmdSLPOUT, nil, 120 * time.Millisecond},
		{cmdPIXFMT, []byte{0x55}, 0}, // 16 bits per pixel
		{cmdMADCTL, []byte{madctl[rotate&3]}, 0},
		{cmdDISPON, nil, 20 * time.Millisecond},
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return nil, fmt.Errorf("hw: ili9341 init: %w", err)
		}
		if s.pause > 0 {
			sleep(s.pause)
		}
	}

	if err := d.SetBrightness(100); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ILI9341) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.data(data)
}

func (d *ILI9341) data(b []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(b) > 0 {
		n := min(len(b), maxChunk)
		if err := d.conn.Tx(b[:n], nil); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// Flush writes a whole frame as big-endian RGB565.
func (d *ILI9341) Flush(img *image.RGBA) error {
	b := img.Bounds()
	w, h := min(b.Dx(), d.w), min(b.Dy(), d.h)

	if err := d.command(cmdCASET, 0, 0, byte((w-1)>>8), byte(w-1)); err != nil {
		return err
	}
	if err := d.command(cmdPASET, 0, 0, byte((h-1)>>8), byte(h-1)); err != nil {
		return err
	}

	need := w * h * 2
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]
	i := 0
	for y := range h {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := range w {
			px := row[x*4 : x*4+3]
			c := RGB565(px[0], px[1], px[2])
			buf[i] = byte(c >> 8)
			buf[i+1] = byte(c)
			i += 2
		}
	}

	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	return d.data(buf)
}

// SetBrightness drives the backlight: fully on, off, or PWM in between.
func (d *ILI9341) SetBrightness(percent int) error {
	if d.led == nil {
		return nil
	}
	var err error
	switch {
	case percent >= 100:
		err = d.led.Out(gpio.High)
	case percent <= 0:
		err = d.led.Out(gpio.Low)
	default:
		duty := gpio.Duty(int64(gpio.DutyMax) * int64(percent) / 100)
		err = d.led.PWM(duty, 1*physic.KiloHertz)
	}
	if err != nil {
		return fmt.Errorf("hw: ili9341 backlight: %w", err)
	}
	return nil
}

// Close turns the backlight off.
func (d *ILI9341) Close() error {
	return d.SetBrightness(0)
}

// RGB565 packs an 8-bit colour into 5-6-5 bits.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}
