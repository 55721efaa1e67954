// Package memory implements a card matching game on a 4x4 grid.
package memory

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// BoardSize is the number of rows and columns of cards.
const BoardSize = 4

const (
	pairCount   = BoardSize * BoardSize / 2
	flipDelay   = time.Second // Time both cards stay face up before resolving
	matchPoints = 100
	bonusPoints = 25 // Per move saved below the bonus threshold
)

var symbols = [pairCount]struct {
	glyph rune
	color core.Color
}{
	{'A', core.ColorRed},
	{'B', core.ColorGreen},
	{'C', core.ColorBlue},
	{'D', core.ColorYellow},
	{'E', core.ColorMagenta},
	{'F', core.ColorCyan},
	{'G', core.ColorOrange},
	{'H', core.ColorPink},
}

// Card is one cell of the grid.
type Card struct {
	Symbol  int // Index into symbols; both cards of a pair share it
	Matched bool
}

// Game implements the memory match game.
type Game struct {
	rng   *rand.Rand
	sound func(registry.Sound)

	cards   [BoardSize][BoardSize]Card
	cursorX int
	cursorY int
	flipped []core.Point // Face-up cards awaiting resolution, at most two

	checking   bool
	checkTimer time.Duration

	score   int
	moves   int
	matches int

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
		Number:      5,
		ID:          "memory",
		Name:        "Memory Match",
		Description: "Flip cards two at a time and find all eight pairs.",
		Controls: []string{
			"D-pad: move cursor",
			"A: flip card",
			"Start: pause",
		},
		Difficulty: registry.DifficultyEasy,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "memory" }

// Title returns the display name.
func (g *Game) Title() string { return "Memory Match" }

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
	g.tooSmall = cfg.ScreenW < boardW+2 || cfg.ScreenH < boardH+hudHeight+1

	g.deal()
	g.cursorX, g.cursorY = 0, 0
	g.flipped = g.flipped[:0]
	g.checking = false
	g.checkTimer = 0
	g.score = 0
	g.moves = 0
	g.matches = 0
	g.gameOver = false
	g.paused = false
}

// deal shuffles two copies of every symbol onto the grid.
func (g *Game) deal() {
	deck := make([]int, 0, BoardSize*BoardSize)
	for s := range pairCount {
		deck = append(deck, s, s)
	}
	g.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	for i, s := range deck {
		g.cards[i/BoardSize][i%BoardSize] = Card{Symbol: s}
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if g.checking {
		g.checkTimer += in.Delta
		if g.checkTimer >= flipDelay {
			g.resolve()
		}
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionUp):
		g.cursorY = max(0, g.cursorY-1)
	case in.Has(core.ActionDown):
		g.cursorY = min(BoardSize-1, g.cursorY+1)
	case in.Has(core.ActionLeft):
		g.cursorX = max(0, g.cursorX-1)
	case in.Has(core.ActionRight):
		g.cursorX = min(BoardSize-1, g.cursorX+1)
	}

	if in.Has(core.ActionFire) {
		g.flip(core.Point{X: g.cursorX, Y: g.cursorY})
	}

	return core.StepResult{State: g.State()}
}

// flip turns the card at p face up. Turning a second card starts the
// match check.
func (g *Game) flip(p core.Point) {
	if g.cards[p.Y][p.X].Matched || g.isFlipped(p) {
		g.play(registry.SoundMiss)
		return
	}

	g.flipped = append(g.flipped, p)
	g.play(registry.SoundMove)

	if len(g.flipped) == 2 {
		g.moves++
		g.checking = true
		g.checkTimer = 0
	}
}

func (g *Game) isFlipped(p core.Point) bool {
	for _, f := range g.flipped {
		if f == p {
			return true
		}
	}
	return false
}

// resolve keeps a matching pair face up and hides a mismatch.
func (g *Game) resolve() {
	a, b := g.flipped[0], g.flipped[1]
	ca, cb := &g.cards[a.Y][a.X], &g.cards[b.Y][b.X]

	if ca.Symbol == cb.Symbol {
		ca.Matched, cb.Matched = true, true
		g.matches++
		g.score += matchPoints
		g.play(registry.SoundMatch)
	} else {
		g.play(registry.SoundMiss)
	}
	g.flipped = g.flipped[:0]
	g.checking = false

	if g.matches == pairCount {
		g.score += max(0, 3*pairCount-g.moves) * bonusPoints
		g.gameOver = true
		g.play(registry.SoundWin)
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
