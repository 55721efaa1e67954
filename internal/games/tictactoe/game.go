// Package tictactoe implements noughts and crosses against the computer or a
// second player sharing the controller.
package tictactoe

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const (
	computerDelay = time.Second
	roundPause    = 1500 * time.Millisecond
	cellW         = 7
	cellH         = 3
	minScreenW    = 30
	minScreenH    = 16
)

// Game implements tic-tac-toe. The player is always X; a round won by X
// scores a point, a draw starts another round and a round won by O ends the
// game.
type Game struct {
	rng   *rand.Rand
	sound func(registry.Sound)

	board      Board
	cursor     int
	turn       Mark
	vsComputer bool
	thinking   time.Duration

	wins, draws int
	roundOver   bool
	roundTimer  time.Duration
	winner      Mark
	winLine     [3]int

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
		Number:      4,
		ID:          "tictactoe",
		Name:        "Tic-Tac-Toe",
		Description: "Line up three X before the computer lines up three O.",
		Controls: []string{
			"D-pad: move cursor",
			"A: place mark",
			"X: toggle computer / two players",
			"Start: pause",
		},
		Difficulty: registry.DifficultyEasy,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "tictactoe" }

// Title returns the display name.
func (g *Game) Title() string { return "Tic-Tac-Toe" }

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

	g.vsComputer = true
	g.wins, g.draws = 0, 0
	g.gameOver = false
	g.paused = false
	g.newRound()
}

func (g *Game) newRound() {
	g.board = Board{}
	g.cursor = 4
	g.turn = X
	g.thinking = 0
	g.roundOver = false
	g.roundTimer = 0
	g.winner = Empty
	g.winLine = [3]int{-1, -1, -1}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if g.roundOver {
		g.roundTimer += in.Delta
		if g.roundTimer >= roundPause {
			g.newRound()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionExtra) {
		g.vsComputer = !g.vsComputer
		g.thinking = 0
		g.play(registry.SoundSignal)
	}

	g.moveCursor(in)

	humanTurn := !g.vsComputer || g.turn == X
	if humanTurn && in.Has(core.ActionFire) {
		if !g.place(g.cursor) {
			g.play(registry.SoundMiss)
		}
	}

	if g.vsComputer && g.turn == O && !g.roundOver {
		g.thinking += in.Delta
		if g.thinking >= computerDelay {
			g.thinking = 0
			if i := ChooseMove(g.board, O, g.rng); i >= 0 {
				g.place(i)
			}
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) moveCursor(in core.InputFrame) {
	x, y := g.cursor%3, g.cursor/3
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
	g.cursor = core.Clamp(y, 0, 2)*3 + core.Clamp(x, 0, 2)
}

// place puts the current mark on square i and resolves the round.
// Returns false if the square is taken.
func (g *Game) place(i int) bool {
	if g.board[i] != Empty {
		return false
	}
	g.board[i] = g.turn
	g.play(registry.SoundMove)

	if w, line := g.board.Winner(); w != Empty {
		g.winner, g.winLine = w, line
		g.roundOver = true
		if w == X {
			g.wins++
			g.play(registry.SoundWin)
		} else {
			g.gameOver = true
			g.play(registry.SoundLose)
		}
		return true
	}
	if g.board.Full() {
		g.draws++
		g.roundOver = true
		g.play(registry.SoundSignal)
		return true
	}

	g.turn = g.turn.Other()
	return true
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}

	mode := "vs CPU"
	if !g.vsComputer {
		mode = "2 players"
	}
	dst.DrawText(1, 0, fmt.Sprintf("Wins: %d  Draws: %d", g.wins, g.draws))
	dst.DrawTextColor(dst.Width()-len(mode)-1, 0, mode, core.ColorCyan)

	boardW := 3*cellW + 4
	boardH := 3*cellH + 4
	boardX := (g.screenW - boardW) / 2
	boardY := max((g.screenH-boardH)/2, 2)
	g.renderGrid(dst, boardX, boardY)

	for i, m := range g.board {
		cx := boardX + (i%3)*(cellW+1) + 1 + cellW/2
		cy := boardY + (i/3)*(cellH+1) + 1 + cellH/2
		color := core.ColorRed
		if m == O {
			color = core.ColorBlue
		}
		if g.onWinLine(i) {
			color = core.ColorGold
		}
		if m != Empty {
			dst.SetColor(cx, cy, rune(m.String()[0]), color)
		}
		if i == g.cursor && !g.roundOver && (!g.vsComputer || g.turn == X) {
			dst.SetColor(cx-2, cy, '[', core.ColorYellow)
			dst.SetColor(cx+2, cy, ']', core.ColorYellow)
		}
	}

	status := fmt.Sprintf("Turn: %s", g.turn)
	if g.vsComputer && g.turn == O {
		status = "Computer is thinking..."
	}
	if g.roundOver {
		switch g.winner {
		case X:
			status = "X wins the round!"
		case O:
			status = "O wins!"
		default:
			status = "Draw"
		}
	}
	dst.DrawTextCentered(boardY+boardH, status, core.ColorWhite)

	if g.gameOver {
		dst.DrawOverlay(core.ColorRed, "GAME OVER", fmt.Sprintf("Rounds won: %d", g.wins))
	}
}

func (g *Game) onWinLine(i int) bool {
	for _, w := range g.winLine {
		if w == i {
			return true
		}
	}
	return false
}

// renderGrid draws the 3x3 frame with box-drawing characters.
func (g *Game) renderGrid(dst *core.Screen, left, top int) {
	for row := range 4 {
		for col := range 4 {
			px := left + col*(cellW+1)
			py := top + row*(cellH+1)

			var corner rune
			switch {
			case row == 0 && col == 0:
				corner = '┌'
			case row == 0 && col == 3:
				corner = '┐'
			case row == 3 && col == 0:
				corner = '└'
			case row == 3 && col == 3:
				corner = '┘'
			case row == 0:
				corner = '┬'
			case row == 3:
				corner = '┴'
			case col == 0:
				corner = '├'
			case col == 3:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColor(px, py, corner, core.ColorGray)

			if col < 3 {
				for i := 1; i <= cellW; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if row < 3 {
				for i := 1; i <= cellH; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.wins,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Cleanup releases the sound callback.
func (g *Game) Cleanup() {
	g.sound = nil
}
