package hw

import (
	"time"

	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// Note is one step of a tune. Freq 0 is a rest.
type Note struct {
	Freq float64
	Dur  time.Duration
}

func note(freq float64, ms int) Note {
	return Note{Freq: freq, Dur: time.Duration(ms) * time.Millisecond}
}

// Melody names one of the console tunes.
type Melody string

const (
	MelodyStartup  Melody = "startup"
	MelodyWin      Melody = "win"
	MelodyGameOver Melody = "gameover"
	MelodyFanfare  Melody = "fanfare"
	MelodyError    Melody = "error"
	MelodyBeep     Melody = "beep" // Countdown tick
	MelodyGo       Melody = "go"   // Countdown end
	MelodySelect   Melody = "select"
)

var melodies = map[Melody][]Note{
	MelodyStartup:  {note(440, 200), note(554, 200), note(659, 200), note(880, 400)},
	MelodyWin:      {note(523, 200), note(659, 200), note(784, 200), note(1047, 600)},
	MelodyGameOver: {note(330, 400), note(294, 400), note(262, 400), note(196, 800)},
	MelodyFanfare: {
		note(523, 150), note(523, 150), note(523, 150), note(523, 450),
		note(415, 450), note(466, 450), note(523, 150), note(466, 150), note(523, 600),
	},
	MelodyError:  {note(220, 200), note(0, 50), note(220, 400)},
	MelodyBeep:   {note(800, 150)},
	MelodyGo:     {note(1200, 400)},
	MelodySelect: {note(1000, 50)},
}

// effects are the short cues games trigger through registry.Sound.
var effects = map[registry.Sound][]Note{
	registry.SoundEat:      {note(880, 40), note(1320, 60)},
	registry.SoundHit:      {note(440, 60)},
	registry.SoundBounce:   {note(660, 30)},
	registry.SoundShoot:    {note(1500, 30), note(1200, 30)},
	registry.SoundExplode:  {note(200, 60), note(150, 60), note(100, 100)},
	registry.SoundPowerUp:  {note(523, 60), note(659, 60), note(784, 60), note(1047, 100)},
	registry.SoundMove:     {note(1000, 15)},
	registry.SoundMatch:    {note(784, 80), note(1047, 120)},
	registry.SoundMiss:     {note(250, 120)},
	registry.SoundLevelUp:  {note(659, 100), note(784, 100), note(988, 200)},
	registry.SoundLine:     {note(988, 60), note(1319, 100)},
	registry.SoundWin:      melodies[MelodyWin],
	registry.SoundLose:     {note(392, 150), note(330, 150), note(262, 300)},
	registry.SoundSignal:   {note(1200, 150)},
	registry.SoundGameOver: melodies[MelodyGameOver],
}

// Tune returns the notes of a melody.
func Tune(m Melody) ([]Note, bool) {
	notes, ok := melodies[m]
	return notes, ok
}

// Effect returns the notes of a game sound.
func Effect(s registry.Sound) ([]Note, bool) {
	notes, ok := effects[s]
	return notes, ok
}
