package hw

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// PWMSpeaker drives a passive buzzer with a square wave on a PWM-capable pin.
// Volume maps to the duty cycle, full volume being a 50% duty.
type PWMSpeaker struct {
	pin gpio.PinIO
}

// NewPWMSpeaker takes the buzzer pin and drives it low.
func NewPWMSpeaker(pin gpio.PinIO) (*PWMSpeaker, error) {
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("hw: buzzer pin %s: %w", pin, err)
	}
	return &PWMSpeaker{pin: pin}, nil
}

func (s *PWMSpeaker) Play(n Note, volume float64) error {
	if n.Freq <= 0 || volume <= 0 {
		return s.pin.Out(gpio.Low)
	}
	duty := gpio.Duty(float64(gpio.DutyHalf) * volume)
	freq := physic.Frequency(n.Freq * float64(physic.Hertz))
	return s.pin.PWM(duty, freq)
}

func (s *PWMSpeaker) Silence() error {
	return s.pin.Out(gpio.Low)
}

func (s *PWMSpeaker) Close() error {
	return s.pin.Halt()
}

// WAVSampleRate is the sample rate of recorded audio.
const WAVSampleRate = 22050

// WAVSpeaker renders notes as square waves and writes them to a mono 16-bit
// WAV file on Close. It stands in for the buzzer in simulation.
type WAVSpeaker struct {
	path string

	mu      sync.Mutex
	samples []int
}

// NewWAVSpeaker records to path.
func NewWAVSpeaker(path string) *WAVSpeaker {
	return &WAVSpeaker{path: path}
}

func (s *WAVSpeaker) Play(n Note, volume float64) error {
	count := int(n.Dur.Seconds() * WAVSampleRate)
	amp := int(volume * 0.5 * 32767)

	s.mu.Lock()
	defer s.mu.Unlock()
	if n.Freq <= 0 {
		s.samples = append(s.samples, make([]int, count)...)
		return nil
	}
	half := WAVSampleRate / n.Freq / 2
	for i := range count {
		v := amp
		if int(float64(i)/half)%2 == 1 {
			v = -amp
		}
		s.samples = append(s.samples, v)
	}
	return nil
}

func (s *WAVSpeaker) Silence() error { return nil }

// Samples returns a copy of what has been recorded.
func (s *WAVSpeaker) Samples() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.samples...)
}

// Close writes the WAV file.
func (s *WAVSpeaker) Close() (rerr error) {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("hw: wav: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("hw: wav: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, WAVSampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: WAVSampleRate},
		Data:           s.Samples(),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("hw: wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("hw: wav: %w", err)
	}
	return nil
}

// NullSpeaker discards every note.
type NullSpeaker struct{}

func (NullSpeaker) Play(Note, float64) error { return nil }
func (NullSpeaker) Silence() error           { return nil }
func (NullSpeaker) Close() error             { return nil }

// Speakers plays every note on all of its members, e.g. the real buzzer and
// a recording.
type Speakers []Speaker

func (ss Speakers) Play(n Note, volume float64) error {
	var errs []error
	for _, s := range ss {
		errs = append(errs, s.Play(n, volume))
	}
	return errors.Join(errs...)
}

func (ss Speakers) Silence() error {
	var errs []error
	for _, s := range ss {
		errs = append(errs, s.Silence())
	}
	return errors.Join(errs...)
}

func (ss Speakers) Close() error {
	var errs []error
	for _, s := range ss {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
