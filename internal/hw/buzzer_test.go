package hw

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/wav"

	"github.com/vovakirdan/pi-arcade/internal/registry"
)

type recSpeaker struct {
	mu      sync.Mutex
	notes   []Note
	volumes []float64
	started chan struct{} // Receives after each Play, if set
	closed  bool
}

func (r *recSpeaker) Play(n Note, volume float64) error {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.volumes = append(r.volumes, volume)
	r.mu.Unlock()
	if r.started != nil {
		r.started <- struct{}{}
	}
	return nil
}

func (r *recSpeaker) Silence() error { return nil }

func (r *recSpeaker) Close() error {
	r.closed = true
	return nil
}

func (r *recSpeaker) played() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

func noSleep(time.Duration) {}

func waitIdle(t *testing.T, b *Buzzer) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for b.Playing() {
		if time.Now().After(deadline) {
			t.Fatal("buzzer never went idle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBuzzerPlaysMelodyInOrder(t *testing.T) {
	sp := &recSpeaker{}
	b := newBuzzer(sp, 8, 0.5, discard, noSleep)
	defer b.Close()

	b.Melody(MelodyStartup)
	b.Tone(1000, 100*time.Millisecond)
	waitIdle(t, b)

	want, _ := Tune(MelodyStartup)
	want = append(want, Note{Freq: 1000, Dur: 100 * time.Millisecond})
	got := sp.played()
	if len(got) != len(want) {
		t.Fatalf("played %d notes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("note %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if sp.volumes[0] != 0.5 {
		t.Errorf("volume = %v, want 0.5", sp.volumes[0])
	}
}

func TestBuzzerGameSounds(t *testing.T) {
	sounds := []registry.Sound{
		registry.SoundEat, registry.SoundHit, registry.SoundBounce, registry.SoundShoot,
		registry.SoundExplode, registry.SoundPowerUp, registry.SoundMove, registry.SoundMatch,
		registry.SoundMiss, registry.SoundLevelUp, registry.SoundLine, registry.SoundWin,
		registry.SoundLose, registry.SoundSignal, registry.SoundGameOver,
	}
	for _, s := range sounds {
		if notes, ok := Effect(s); !ok || len(notes) == 0 {
			t.Errorf("no effect for %q", s)
		}
	}

	sp := &recSpeaker{}
	b := newBuzzer(sp, 8, 1, discard, noSleep)
	defer b.Close()
	b.Play(registry.SoundEat)
	b.Play(registry.Sound("unknown"))
	waitIdle(t, b)
	want, _ := Effect(registry.SoundEat)
	if len(sp.played()) != len(want) {
		t.Errorf("played %v, want %v", sp.played(), want)
	}
}

func TestBuzzerStopDropsQueue(t *testing.T) {
	sp := &recSpeaker{started: make(chan struct{}, 16)}
	gate := make(chan struct{})
	b := newBuzzer(sp, 8, 1, discard, func(time.Duration) { <-gate })
	defer b.Close()

	b.Melody(MelodyGameOver)
	b.Melody(MelodyWin)
	<-sp.started // First note sounding, worker blocked in sleep

	b.Stop()
	close(gate)
	waitIdle(t, b)

	if n := len(sp.played()); n != 1 {
		t.Errorf("played %d notes after Stop, want 1", n)
	}

	// Playback works again after a stop.
	b.Melody(MelodyBeep)
	waitIdle(t, b)
	if n := len(sp.played()); n != 2 {
		t.Errorf("played %d notes, want 2", n)
	}
}

func TestBuzzerLongNoteChecksStop(t *testing.T) {
	var mu sync.Mutex
	var sleeps []time.Duration
	sp := &recSpeaker{}
	b := newBuzzer(sp, 8, 1, discard, func(d time.Duration) {
		mu.Lock()
		sleeps = append(sleeps, d)
		mu.Unlock()
	})
	defer b.Close()

	b.Tone(440, 120*time.Millisecond)
	waitIdle(t, b)

	mu.Lock()
	defer mu.Unlock()
	want := []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 20 * time.Millisecond}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestBuzzerVolume(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.3, 0.3},
		{-1, 0},
		{2, 1},
	}
	b := newBuzzer(NullSpeaker{}, 1, 0, discard, noSleep)
	defer b.Close()
	for _, tt := range tests {
		b.SetVolume(tt.in)
		if got := b.Volume(); got != tt.want {
			t.Errorf("SetVolume(%v): Volume() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuzzerDisabledAndClosed(t *testing.T) {
	sp := &recSpeaker{}
	b := newBuzzer(sp, 8, 1, discard, noSleep)

	b.SetEnabled(false)
	b.Melody(MelodyWin)
	waitIdle(t, b)
	if len(sp.played()) != 0 {
		t.Error("disabled buzzer played")
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !sp.closed {
		t.Error("speaker not closed")
	}
	b.SetEnabled(true)
	b.Melody(MelodyWin) // Must not panic on the closed queue
	if err := b.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestWAVSpeaker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sp := NewWAVSpeaker(path)

	sp.Play(Note{Freq: 1000, Dur: 100 * time.Millisecond}, 1)
	sp.Play(Note{Freq: 0, Dur: 50 * time.Millisecond}, 1)

	samples := sp.Samples()
	tone := WAVSampleRate / 10
	rest := WAVSampleRate / 20
	if len(samples) != tone+rest {
		t.Fatalf("samples = %d, want %d", len(samples), tone+rest)
	}
	if samples[0] != 16383 || samples[12] != -16383 {
		t.Errorf("unexpected square wave: %d %d", samples[0], samples[12])
	}
	for _, s := range samples[tone:] {
		if s != 0 {
			t.Fatal("rest is not silent")
		}
	}

	if err := sp.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(buf.Data) != len(samples) || int(dec.SampleRate) != WAVSampleRate {
		t.Errorf("decoded %d samples at %d Hz", len(buf.Data), dec.SampleRate)
	}
}
