// Package tetris implements a falling blocks puzzle.
package tetris

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const (
	softDropPoints = 1 // Per row moved by soft drop
	hardDropPoints = 2 // Per row moved by hard drop
)

// Kick offsets tried in order when a rotation collides.
var kicks = []int{0, -1, 1, -2, 2}

// Game implements the falling blocks game.
type Game struct {
	cfg   config.TetrisConfig
	rng   *rand.Rand
	sound func(registry.Sound)

	board  [][]int // 0 empty, otherwise Kind+1
	width  int
	height int
	piece  Piece
	next   Kind

	score int
	lines int
	level int

	dropTimer   time.Duration
	moveTimer   time.Duration
	rotateTimer time.Duration

	screenW, screenH int
	gameOver         bool
	paused           bool
	tooSmall         bool
}

// New creates a game using the resolved configuration files.
func New() *Game {
	cfg, err := config.LoadTetris("")
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a game with explicit tuning.
func NewWithConfig(cfg config.TetrisConfig) *Game {
	return &Game{cfg: cfg}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      8,
		ID:          "tetris",
		Name:        "Tetris",
		Description: "Stack falling blocks and clear full lines. Speeds up every 10 lines.",
		Controls: []string{
			"Left/Right: move",
			"Up or Y: rotate",
			"Down: soft drop",
			"A: hard drop",
			"Start: pause",
		},
		Difficulty: registry.DifficultyHard,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "tetris" }

// Title returns the display name.
func (g *Game) Title() string { return "Tetris" }

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

	g.width = max(g.cfg.Board.Width, 4)
	g.height = max(g.cfg.Board.Height, 4)
	w, h := g.minScreen()
	g.tooSmall = cfg.ScreenW < w || cfg.ScreenH < h

	g.board = make([][]int, g.height)
	for y := range g.board {
		g.board[y] = make([]int, g.width)
	}
	g.score = 0
	g.lines = 0
	g.level = 1
	g.dropTimer = 0
	g.moveTimer = 0
	g.rotateTimer = 0
	g.gameOver = false
	g.paused = false

	g.next = g.randomKind()
	g.spawn()
}

func (g *Game) randomKind() Kind {
	return Kind(g.rng.Intn(int(kindCount)))
}

// spawn puts the next piece at the top centre. A piece that collides on
// spawn ends the game.
func (g *Game) spawn() {
	k := g.next
	g.next = g.randomKind()
	g.piece = Piece{Kind: k, Shape: spawnShapes[k], X: g.width/2 - 2, Y: 0}
	g.dropTimer = 0

	if g.collides(g.piece) {
		g.gameOver = true
		g.play(registry.SoundGameOver)
	}
}

// collides reports whether p overlaps the walls, floor or locked blocks.
func (g *Game) collides(p Piece) bool {
	for _, c := range p.Shape.Cells() {
		x, y := p.X+c.X, p.Y+c.Y
		if x < 0 || x >= g.width || y < 0 || y >= g.height {
			return true
		}
		if g.board[y][x] != 0 {
			return true
		}
	}
	return false
}

// dropInterval is the gravity period at the current level.
func (g *Game) dropInterval() time.Duration {
	t := g.cfg.Timing
	return seconds(max(t.MinDropInterval, t.DropInterval-t.LevelStep*float64(g.level-1)))
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
	g.moveTimer += dt
	g.rotateTimer += dt

	g.handleMove(in)
	g.handleRotate(in)

	if in.Has(core.ActionFire) {
		g.hardDrop()
		return core.StepResult{State: g.State()}
	}

	interval := g.dropInterval()
	soft := in.IsHeld(core.ActionDown)
	if soft && g.cfg.Timing.SoftDropFactor > 1 {
		interval = time.Duration(float64(interval) / g.cfg.Timing.SoftDropFactor)
	}

	g.dropTimer += dt
	for g.dropTimer >= interval && !g.gameOver {
		g.dropTimer -= interval
		if !g.tryMove(0, 1) {
			g.lock()
			break
		}
		if soft {
			g.score += softDropPoints
		}
	}

	return core.StepResult{State: g.State()}
}

// handleMove shifts the piece on a press, and repeatedly while held.
func (g *Game) handleMove(in core.InputFrame) {
	repeat := seconds(g.cfg.Controls.MoveRepeat)
	for _, m := range []struct {
		action core.Action
		dx     int
	}{
		{core.ActionLeft, -1},
		{core.ActionRight, 1},
	} {
		if in.Has(m.action) || (in.IsHeld(m.action) && g.moveTimer >= repeat) {
			g.moveTimer = 0
			if g.tryMove(m.dx, 0) {
				g.play(registry.SoundMove)
			}
			return
		}
	}
}

func (g *Game) handleRotate(in core.InputFrame) {
	repeat := seconds(g.cfg.Controls.RotateRepeat)
	for _, a := range []core.Action{core.ActionUp, core.ActionRotate} {
		if in.Has(a) || (in.IsHeld(a) && g.rotateTimer >= repeat) {
			g.rotateTimer = 0
			if g.rotate() {
				g.play(registry.SoundMove)
			}
			return
		}
	}
}

func (g *Game) tryMove(dx, dy int) bool {
	p := g.piece
	p.X += dx
	p.Y += dy
	if g.collides(p) {
		return false
	}
	g.piece = p
	return true
}

// rotate turns the piece clockwise, shifting it sideways when the turned
// shape would overlap a wall or block.
func (g *Game) rotate() bool {
	p := g.piece
	p.Shape = p.Shape.Rotate(p.Kind)
	for _, dx := range kicks {
		k := p
		k.X += dx
		if !g.collides(k) {
			g.piece = k
			return true
		}
	}
	return false
}

// ghostY returns the row the piece would land on.
func (g *Game) ghostY() int {
	p := g.piece
	for {
		p.Y++
		if g.collides(p) {
			return p.Y - 1
		}
	}
}

func (g *Game) hardDrop() {
	landing := g.ghostY()
	g.score += (landing - g.piece.Y) * hardDropPoints
	g.piece.Y = landing
	g.play(registry.SoundHit)
	g.lock()
}

// lock writes the piece into the board, clears full lines and spawns the
// next piece.
func (g *Game) lock() {
	for _, c := range g.piece.Shape.Cells() {
		g.board[g.piece.Y+c.Y][g.piece.X+c.X] = int(g.piece.Kind) + 1
	}
	g.clearLines()
	g.spawn()
}

// clearLines removes full rows, scores them and levels up.
func (g *Game) clearLines() {
	kept := make([][]int, 0, g.height)
	cleared := 0
	for _, row := range g.board {
		full := true
		for _, v := range row {
			if v == 0 {
				full = false
				break
			}
		}
		if full {
			cleared++
			continue
		}
		kept = append(kept, row)
	}
	if cleared == 0 {
		return
	}

	fresh := make([][]int, cleared, g.height)
	for i := range fresh {
		fresh[i] = make([]int, g.width)
	}
	g.board = append(fresh, kept...)

	if pts := g.cfg.Scoring.LinePoints; len(pts) > 0 {
		g.score += pts[min(cleared, len(pts))-1] * g.level
	}
	g.lines += cleared

	if cleared >= 4 {
		g.play(registry.SoundWin)
	} else {
		g.play(registry.SoundLine)
	}

	if per := g.cfg.Scoring.LinesPerLevel; per > 0 {
		if lvl := 1 + g.lines/per; lvl > g.level {
			g.level = lvl
			g.play(registry.SoundLevelUp)
		}
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

// Cleanup drops the board.
func (g *Game) Cleanup() {
	g.board = nil
	g.sound = nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
