package hw

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Light is one lamp of the traffic light.
type Light int

const (
	LightOff Light = iota
	LightRed
	LightYellow
	LightGreen
)

func (l Light) String() string {
	switch l {
	case LightRed:
		return "red"
	case LightYellow:
		return "yellow"
	case LightGreen:
		return "green"
	default:
		return "off"
	}
}

// Lights drives the red/yellow/green LEDs. At most one is lit at a time.
type Lights struct {
	mu      sync.Mutex
	pins    [3]gpio.PinOut // red, yellow, green
	current Light
}

// NewLights takes the three LED pins and switches them all off.
func NewLights(red, yellow, green gpio.PinOut) (*Lights, error) {
	l := &Lights{pins: [3]gpio.PinOut{red, yellow, green}}
	if err := l.Off(); err != nil {
		return nil, fmt.Errorf("hw: traffic light: %w", err)
	}
	return l, nil
}

// Set lights one lamp and turns the others off.
func (l *Lights) Set(which Light) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for i, p := range l.pins {
		level := gpio.Low
		if Light(i+1) == which {
			level = gpio.High
		}
		if err := p.Out(level); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", Light(i+1), err))
		}
	}
	l.current = which
	return errors.Join(errs...)
}

// Off turns every lamp off.
func (l *Lights) Off() error {
	return l.Set(LightOff)
}

// Current returns the lit lamp.
func (l *Lights) Current() Light {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Close switches the lamps off.
func (l *Lights) Close() error {
	return l.Off()
}
