// Package whackamole implements a timed whack-a-mole game on a 3x3 field.
package whackamole

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const (
	gridSize      = 3
	holeCount     = gridSize * gridSize
	roundTime     = 60 * time.Second
	spawnInterval = time.Second
	minShow       = 1.0 // Seconds a mole stays up, lower bound
	maxShow       = 2.5
	comboWindow   = time.Second
	hitPoints     = 10
	comboPoints   = 5 // Per combo step on a chained hit
	swingTime     = 200 * time.Millisecond

	holeW      = 9
	holeH      = 4
	minScreenW = gridSize*holeW + 4
	minScreenH = gridSize*holeH + 4
)

// Game implements whack-a-mole.
type Game struct {
	rng   *rand.Rand
	sound func(registry.Sound)

	moles  [holeCount]time.Duration // Remaining time up; zero means hidden
	hammer int
	swing  time.Duration

	clock      time.Duration
	spawnTimer time.Duration
	lastHit    time.Duration
	hitOnce    bool

	score  int
	hits   int
	misses int
	combo  int

	screenW, screenH int
	gameOver         bool
	paused           bool
	tooSmall         bool
}

// New creates a new game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      7,
		ID:          "whackamole",
		Name:        "Whack-a-Mole",
		Description: "Bonk as many moles as you can in 60 seconds. Quick hits chain combos.",
		Controls: []string{
			"D-pad: move hammer",
			"A: whack",
			"Start: pause",
		},
		Difficulty: registry.DifficultyEasy,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "whackamole" }

// Title returns the display name.
func (g *Game) Title() string { return "Whack-a-Mole" }

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

	g.moles = [holeCount]time.Duration{}
	g.hammer = holeCount / 2
	g.swing = 0
	g.clock = 0
	g.spawnTimer = 0
	g.lastHit = 0
	g.hitOnce = false
	g.score = 0
	g.hits = 0
	g.misses = 0
	g.combo = 0
	g.gameOver = false
	g.paused = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	dt := in.Delta
	g.clock += dt
	if g.clock >= roundTime {
		g.clock = roundTime
		g.gameOver = true
		g.play(registry.SoundGameOver)
		return core.StepResult{State: g.State()}
	}

	g.spawnTimer += dt
	if g.spawnTimer >= spawnInterval {
		g.spawnTimer -= spawnInterval
		g.spawn()
	}
	g.updateMoles(dt)
	g.swing = max(0, g.swing-dt)

	g.moveHammer(in)
	if in.Has(core.ActionFire) && g.swing == 0 {
		g.swing = swingTime
		g.whack(g.hammer)
	}

	return core.StepResult{State: g.State()}
}

// spawn raises a mole in a random empty hole.
func (g *Game) spawn() {
	var empty []int
	for i, t := range g.moles {
		if t == 0 {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return
	}
	hole := empty[g.rng.Intn(len(empty))]
	show := minShow + g.rng.Float64()*(maxShow-minShow)
	g.moles[hole] = time.Duration(show * float64(time.Second))
}

func (g *Game) updateMoles(dt time.Duration) {
	for i, t := range g.moles {
		if t == 0 {
			continue
		}
		if t <= dt {
			g.moles[i] = 0
			g.misses++
			g.play(registry.SoundMiss)
			continue
		}
		g.moles[i] = t - dt
	}
}

func (g *Game) moveHammer(in core.InputFrame) {
	x, y := g.hammer%gridSize, g.hammer/gridSize
	switch {
	case in.Has(core.ActionUp):
		y--
	case in.Has(core.ActionDown):
		y++
	case in.Has(core.ActionLeft):
		x--
	case in.Has(core.ActionRight):
		x++
	default:
		return
	}
	g.hammer = core.Clamp(y, 0, gridSize-1)*gridSize + core.Clamp(x, 0, gridSize-1)
}

// whack hits the hole. Hits within comboWindow of the previous one chain a
// combo worth comboPoints per step on top of the base points.
func (g *Game) whack(hole int) {
	if g.moles[hole] == 0 {
		return
	}
	g.moles[hole] = 0
	g.hits++
	g.score += hitPoints

	if g.hitOnce && g.clock-g.lastHit < comboWindow {
		g.combo++
		g.score += g.combo * comboPoints
	} else {
		g.combo = 1
	}
	g.hitOnce = true
	g.lastHit = g.clock

	if g.combo > 3 {
		g.play(registry.SoundPowerUp)
	} else {
		g.play(registry.SoundHit)
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}

	left := roundTime - g.clock
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score))
	timeColor := core.ColorWhite
	if left <= 10*time.Second {
		timeColor = core.ColorRed
	}
	dst.DrawTextCentered(0, fmt.Sprintf("Time: %2d", int(left.Seconds()+0.999)), timeColor)
	if g.combo > 1 {
		c := fmt.Sprintf("Combo x%d", g.combo)
		dst.DrawTextColor(dst.Width()-len(c)-1, 0, c, core.ColorGold)
	}

	fieldW := gridSize * holeW
	fieldH := gridSize * holeH
	ox := (g.screenW - fieldW) / 2
	oy := 2 + max((g.screenH-2-fieldH)/2, 0)

	for i := range holeCount {
		x := ox + (i%gridSize)*holeW
		y := oy + (i/gridSize)*holeH

		if g.moles[i] > 0 {
			dst.DrawTextColor(x+2, y, " ,-, ", core.ColorOrange)
			dst.DrawTextColor(x+2, y+1, "(o.o)", core.ColorOrange)
		}
		dst.DrawTextColor(x+1, y+2, "(_____)", core.ColorGray)

		if i == g.hammer {
			hc := core.ColorYellow
			if g.swing > 0 {
				hc = core.ColorRed
			}
			dst.SetColor(x, y+1, '[', hc)
			dst.SetColor(x+holeW-1, y+1, ']', hc)
		}
	}

	if g.gameOver {
		dst.DrawOverlay(core.ColorYellow, "TIME UP", fmt.Sprintf("Score: %d  Hits: %d  Missed: %d", g.score, g.hits, g.misses))
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Cleanup releases the sound callback.
func (g *Game) Cleanup() {
	g.sound = nil
}
