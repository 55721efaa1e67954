package hw

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// Speaker produces the actual sound of a note.
type Speaker interface {
	// Play starts sounding a note, Freq 0 being a rest. The buzzer waits
	// out its duration.
	Play(n Note, volume float64) error
	// Silence ends the current note.
	Silence() error
	Close() error
}

// stopStep is how often a playing note checks for Stop.
const stopStep = 50 * time.Millisecond

type tune struct {
	name  string
	notes []Note
	gen   uint64
}

// Buzzer plays tones and melodies on a background worker so the game loop
// never blocks on audio. Tunes are queued and played in order.
type Buzzer struct {
	speaker Speaker
	logger  *log.Logger
	sleep   func(time.Duration)

	queue   chan tune
	gen     atomic.Uint64 // Bumped by Stop; queued tunes of older generations are dropped
	volume  atomic.Uint64 // Per-mille
	enabled atomic.Bool
	pending atomic.Int64 // Tunes queued or playing

	mu     sync.Mutex // Guards queue sends against Close
	closed bool
	done   chan struct{}
}

// NewBuzzer starts the audio worker.
func NewBuzzer(sp Speaker, queueSize int, volume float64, logger *log.Logger) *Buzzer {
	return newBuzzer(sp, queueSize, volume, logger, time.Sleep)
}

func newBuzzer(sp Speaker, queueSize int, volume float64, logger *log.Logger, sleep func(time.Duration)) *Buzzer {
	if queueSize <= 0 {
		queueSize = 32
	}
	b := &Buzzer{
		speaker: sp,
		logger:  logger,
		sleep:   sleep,
		queue:   make(chan tune, queueSize),
		done:    make(chan struct{}),
	}
	b.SetVolume(volume)
	b.enabled.Store(true)
	go b.run()
	return b
}

func (b *Buzzer) run() {
	defer close(b.done)
	for t := range b.queue {
		if t.gen == b.gen.Load() {
			b.playTune(t)
		}
		b.pending.Add(-1)
	}
}

func (b *Buzzer) playTune(t tune) {
	for _, n := range t.notes {
		if t.gen != b.gen.Load() {
			return
		}
		if err := b.speaker.Play(n, b.Volume()); err != nil {
			b.logger.Error("tone failed", "tune", t.name, "freq", n.Freq, "err", err)
			return
		}
		b.wait(n.Dur, t.gen)
		if err := b.speaker.Silence(); err != nil {
			b.logger.Error("silence failed", "err", err)
		}
	}
}

// wait sleeps d in short steps so Stop cuts a long note short.
func (b *Buzzer) wait(d time.Duration, gen uint64) {
	for d > 0 && gen == b.gen.Load() {
		step := min(d, stopStep)
		b.sleep(step)
		d -= step
	}
}

func (b *Buzzer) enqueue(name string, notes []Note) {
	if !b.enabled.Load() || len(notes) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.pending.Add(1)
	select {
	case b.queue <- tune{name: name, notes: notes, gen: b.gen.Load()}:
	default:
		b.pending.Add(-1)
		b.logger.Warn("audio queue full", "tune", name)
	}
}

// Tone queues a single tone.
func (b *Buzzer) Tone(freq float64, d time.Duration) {
	b.enqueue("tone", []Note{{Freq: freq, Dur: d}})
}

// Melody queues a named tune. Unknown names are logged and ignored.
func (b *Buzzer) Melody(m Melody) {
	notes, ok := Tune(m)
	if !ok {
		b.logger.Warn("unknown melody", "melody", m)
		return
	}
	b.enqueue(string(m), notes)
}

// Sequence queues arbitrary notes, rests included.
func (b *Buzzer) Sequence(notes []Note) {
	b.enqueue("sequence", notes)
}

// Play queues the effect for a game sound.
func (b *Buzzer) Play(s registry.Sound) {
	notes, ok := Effect(s)
	if !ok {
		b.logger.Debug("no effect for sound", "sound", s)
		return
	}
	b.enqueue(string(s), notes)
}

// Stop cuts the current note short and drops everything queued.
func (b *Buzzer) Stop() {
	b.gen.Add(1)
}

// Playing reports whether the worker is busy with a tune.
func (b *Buzzer) Playing() bool {
	return b.pending.Load() > 0
}

// SetVolume sets the volume, clamped to [0, 1].
func (b *Buzzer) SetVolume(v float64) {
	v = max(0, min(1, v))
	b.volume.Store(uint64(math.Round(v * 1000)))
}

// Volume returns the current volume.
func (b *Buzzer) Volume() float64 {
	return float64(b.volume.Load()) / 1000
}

// SetEnabled mutes or unmutes the buzzer. Muting stops what is playing.
func (b *Buzzer) SetEnabled(on bool) {
	b.enabled.Store(on)
	if !on {
		b.Stop()
	}
}

// Close stops playback, waits for the worker and closes the speaker.
func (b *Buzzer) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.enabled.Store(false)
	b.Stop()
	close(b.queue)
	b.mu.Unlock()

	<-b.done
	return b.speaker.Close()
}
