// Package maze implements a maze runner whose mazes grow with every level.
package maze

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const (
	minSize     = 15
	maxSize     = 21
	levelCount  = 5
	moveRepeat  = 150 * time.Millisecond // Step rate while a direction is held
	levelPoints = 100
	pathBonus   = 50 // Reduced by every move beyond the shortest path
	hudHeight   = 1
	minScreenW  = 2*minSize + 2
	minScreenH  = minSize + hudHeight + 1
)

// Game implements the maze game.
type Game struct {
	rng   *rand.Rand
	sound func(registry.Sound)

	maze     *Maze
	shortest int
	player   core.Point
	level    int
	moves    int // Moves in the current level
	total    int // Moves over all levels
	score    int

	clock     time.Duration
	moveTimer time.Duration

	screenW, screenH int
	gameOver         bool
	won              bool
	paused           bool
	tooSmall         bool
}

// New creates a new game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      6,
		ID:          "maze",
		Name:        "Maze Runner",
		Description: "Find the exit of five growing mazes in as few moves as possible.",
		Controls: []string{
			"D-pad: move (hold to run)",
			"Start: pause",
		},
		Difficulty: registry.DifficultyMedium,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "maze" }

// Title returns the display name.
func (g *Game) Title() string { return "Maze Runner" }

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

	g.level = 1
	g.score = 0
	g.total = 0
	g.clock = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.startLevel()
}

// sizeFor returns the odd maze size of a level, capped by the screen.
func (g *Game) sizeFor(level int) int {
	size := min(minSize+2*(level-1), maxSize)
	fit := min((g.screenW-2)/2, g.screenH-hudHeight-1)
	if fit%2 == 0 {
		fit--
	}
	return max(min(size, fit), minSize)
}

func (g *Game) startLevel() {
	g.maze = Generate(g.sizeFor(g.level), g.rng)
	g.shortest = g.maze.ShortestPath()
	g.player = g.maze.Entrance
	g.moves = 0
	g.moveTimer = 0
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.clock += in.Delta
	g.moveTimer += in.Delta

	dir := pressedDir(in)
	if dir == core.DirNone {
		if held := core.DirFromInput(in); held != core.DirNone && g.moveTimer >= moveRepeat {
			dir = held
		}
	}
	if dir != core.DirNone {
		g.moveTimer = 0
		g.move(dir)
	}

	return core.StepResult{State: g.State()}
}

// pressedDir returns a direction that went down this tick.
func pressedDir(in core.InputFrame) core.Dir {
	switch {
	case in.Has(core.ActionUp):
		return core.DirUp
	case in.Has(core.ActionDown):
		return core.DirDown
	case in.Has(core.ActionLeft):
		return core.DirLeft
	case in.Has(core.ActionRight):
		return core.DirRight
	}
	return core.DirNone
}

func (g *Game) move(d core.Dir) {
	next := g.player.Add(d)
	if !g.maze.IsOpen(next) {
		g.play(registry.SoundHit)
		return
	}
	g.player = next
	g.moves++
	g.total++
	g.play(registry.SoundMove)

	if g.player == g.maze.Exit {
		g.completeLevel()
	}
}

// completeLevel scores the level and moves to the next maze, or ends the
// game after the last one.
func (g *Game) completeLevel() {
	extra := g.moves - g.shortest
	g.score += levelPoints*g.level + max(0, pathBonus-extra)

	if g.level >= levelCount {
		g.won = true
		g.gameOver = true
		g.play(registry.SoundWin)
		return
	}
	g.level++
	g.play(registry.SoundLevelUp)
	g.startLevel()
}

// Render draws the game to the screen. Each maze cell is two columns wide.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}

	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score))
	dst.DrawTextCentered(0, fmt.Sprintf("Level %d/%d", g.level, levelCount), core.ColorCyan)
	mv := fmt.Sprintf("Moves: %d", g.moves)
	dst.DrawText(dst.Width()-len(mv)-1, 0, mv)

	size := g.maze.Size
	left := (g.screenW - 2*size) / 2
	top := hudHeight + max((g.screenH-hudHeight-size)/2, 0)

	for y := range size {
		for x := range size {
			if !g.maze.Open[y][x] {
				dst.SetColor(left+2*x, top+y, '█', core.ColorGray)
				dst.SetColor(left+2*x+1, top+y, '█', core.ColorGray)
			}
		}
	}

	ex := g.maze.Exit
	dst.SetColor(left+2*ex.X, top+ex.Y, '▼', core.ColorGold)
	dst.SetColor(left+2*g.player.X, top+g.player.Y, '@', core.ColorGreen)

	if g.gameOver {
		dst.DrawOverlay(core.ColorGreen, "ALL MAZES CLEARED",
			fmt.Sprintf("Score: %d  Moves: %d", g.score, g.total),
			fmt.Sprintf("Time: %s", g.clock.Truncate(time.Second)))
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

// Cleanup drops the maze.
func (g *Game) Cleanup() {
	g.maze = nil
	g.sound = nil
}
