// Package reaction implements a reaction time test.
package reaction

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const (
	trials       = 5
	minWait      = 2 * time.Second
	maxWait      = 5 * time.Second
	resultTime   = 2 * time.Second // How long a result stays on screen
	timeout      = 2 * time.Second // A missed signal counts as this reaction time
	earlyPenalty = 50              // Points lost per early press
	scoreBase    = 1000            // Score is scoreBase minus the average in ms
	minScreenW   = 30
	minScreenH   = 12
)

// phase is the step of the current trial.
type phase int

const (
	phaseWaiting phase = iota // Waiting for the signal; pressing now is early
	phaseSignal               // Signal shown, timing the reaction
	phaseResult               // Showing the last reaction time
	phaseEarly                // Showing the early press warning
)

// Game implements the reaction test.
type Game struct {
	rng   *rand.Rand
	sound func(registry.Sound)

	phase    phase
	timer    time.Duration // Time spent in the current phase
	wait     time.Duration // Delay before the signal of this trial
	times    []time.Duration
	early    int
	gameOver bool
	paused   bool
	tooSmall bool

	screenW, screenH int
}

// New creates a new game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      9,
		ID:          "reaction",
		Name:        "Reaction Test",
		Description: "Press A as soon as the signal turns green. Five tries, do not jump the gun.",
		Controls: []string{
			"A: react",
			"Start: pause",
		},
		Difficulty: registry.DifficultyEasy,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "reaction" }

// Title returns the display name.
func (g *Game) Title() string { return "Reaction Test" }

// SetSound installs the buzzer callback.
func (g *Game) SetSound(play func(registry.Sound)) { g.sound = play }

func (g *Game) play(s registry.Sound) {
	if g.sound != nil {
		g.sound(s)
	}
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW, g.screenH = cfg.ScreenW, cfg.ScreenH
	g.tooSmall = cfg.ScreenW < minScreenW || cfg.ScreenH < minScreenH

	g.times = g.times[:0]
	g.early = 0
	g.gameOver = false
	g.paused = false
	g.startTrial()
}

func (g *Game) startTrial() {
	g.phase = phaseWaiting
	g.timer = 0
	g.wait = minWait + time.Duration(g.rng.Int63n(int64(maxWait-minWait)+1))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.timer += in.Delta
	pressed := in.Has(core.ActionFire)

	switch g.phase {
	case phaseWaiting:
		switch {
		case pressed:
			g.early++
			g.phase = phaseEarly
			g.timer = 0
			g.play(registry.SoundMiss)
		case g.timer >= g.wait:
			g.phase = phaseSignal
			g.timer = 0
			g.play(registry.SoundSignal)
		}

	case phaseSignal:
		switch {
		case pressed:
			g.record(g.timer)
			g.play(registry.SoundMatch)
		case g.timer >= timeout:
			g.record(timeout)
			g.play(registry.SoundMiss)
		}

	case phaseResult, phaseEarly:
		if g.timer >= resultTime {
			g.startTrial()
		}
	}

	return core.StepResult{State: g.State()}
}

// record stores a reaction time and ends the game after the last trial.
// The time is measured from the tick the signal appeared, so it is
// quantized to the polling period.
func (g *Game) record(t time.Duration) {
	g.times = append(g.times, t)
	g.phase = phaseResult
	g.timer = 0
	if len(g.times) >= trials {
		g.gameOver = true
		g.play(registry.SoundWin)
	}
}

// Average returns the mean recorded reaction time.
func (g *Game) Average() time.Duration {
	if len(g.times) == 0 {
		return 0
	}
	var sum time.Duration
	for _, t := range g.times {
		sum += t
	}
	return sum / time.Duration(len(g.times))
}

// Best returns the fastest recorded reaction time.
func (g *Game) Best() time.Duration {
	var best time.Duration
	for i, t := range g.times {
		if i == 0 || t < best {
			best = t
		}
	}
	return best
}

// score is scoreBase minus the average in milliseconds, less the early
// press penalty, never negative.
func (g *Game) score() int {
	if len(g.times) == 0 {
		return 0
	}
	return max(0, scoreBase-int(g.Average().Milliseconds())-earlyPenalty*g.early)
}

// Rating describes an average reaction time.
func Rating(avg time.Duration) string {
	switch {
	case avg < 200*time.Millisecond:
		return "Lightning fast!"
	case avg < 300*time.Millisecond:
		return "Very good"
	case avg < 400*time.Millisecond:
		return "Good"
	case avg < 500*time.Millisecond:
		return "Average"
	default:
		return "Keep practising"
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}

	dst.DrawText(1, 0, fmt.Sprintf("Trial %d/%d", min(len(g.times)+1, trials), trials))
	if g.early > 0 {
		e := fmt.Sprintf("Early: %d", g.early)
		dst.DrawTextColor(dst.Width()-len(e)-1, 0, e, core.ColorRed)
	}

	cy := g.screenH/2 - 2
	lamp := core.NewRect(g.screenW/2-5, cy-1, 10, 4)
	switch g.phase {
	case phaseWaiting:
		dst.DrawRect(lamp, '█', core.ColorRed)
		dst.DrawTextCentered(cy+4, "Wait for green...", core.ColorWhite)
	case phaseSignal:
		dst.DrawRect(lamp, '█', core.ColorGreen)
		dst.DrawTextCentered(cy+4, "PRESS A!", core.ColorGreen)
	case phaseResult:
		last := g.times[len(g.times)-1]
		if last >= timeout {
			dst.DrawTextCentered(cy+1, "Too slow!", core.ColorYellow)
		} else {
			dst.DrawTextCentered(cy+1, fmt.Sprintf("%d ms", last.Milliseconds()), core.ColorCyan)
		}
	case phaseEarly:
		dst.DrawTextCentered(cy+1, "Too early!", core.ColorRed)
	}

	for i, t := range g.times {
		dst.DrawText(1, g.screenH-trials-1+i, fmt.Sprintf("%d: %4d ms", i+1, t.Milliseconds()))
	}

	if g.gameOver {
		dst.DrawOverlay(core.ColorGreen,
			fmt.Sprintf("Average: %d ms", g.Average().Milliseconds()),
			fmt.Sprintf("Best: %d ms", g.Best().Milliseconds()),
			Rating(g.Average()),
			fmt.Sprintf("Score: %d", g.score()))
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score(),
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Cleanup releases the sound callback.
func (g *Game) Cleanup() {
	g.sound = nil
}
