package breakout

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// Visual characters for rendering
const (
	PaddleChar = '='
	BallChar   = '●'
	BrickChar  = '█'
)

// Game states
const (
	StateServe    = "serve"    // Ball on paddle, waiting for launch
	StatePlaying  = "playing"  // Ball in play
	StatePaused   = "paused"   // Game paused
	StateGameOver = "gameover" // No lives left
)

const (
	levelClearBonus = 50
	levelSpeedUp    = 0.15 // Ball speed added per cleared wall, relative to base
	wallTopGap      = 2    // Empty rows between the top wall and the bricks
	launchAngle     = math.Pi / 4
	maxSubstep      = Scale / 2 // Largest ball move per collision check
	minScreenW      = 30
	minScreenH      = 16
)

// Game implements the Breakout game logic.
type Game struct {
	paddle *Paddle
	ball   *Ball
	wall   *Wall
	field  Field

	state      string
	prevState  string // State to resume after pause
	score      int
	lives      int
	level      int
	clock      time.Duration
	rng        *rand.Rand
	sound      func(registry.Sound)
	bricksHit  int
	tooSmall   bool
	runtime    core.RuntimeConfig
	cfg        config.BreakoutConfig
	difficulty *config.DifficultyManager
}

// New creates a new Breakout game using the resolved configuration files.
func New() *Game {
	cfg, err := config.LoadBreakout("")
	if err != nil {
		cfg = config.DefaultBreakoutConfig()
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Breakout game with explicit tuning.
func NewWithConfig(cfg config.BreakoutConfig) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      2,
		ID:          "breakout",
		Name:        "Breakout",
		Description: "Bounce the ball off your paddle and clear the brick wall.",
		Controls: []string{
			"Left/Right: move paddle",
			"A: launch ball",
			"Start: pause",
		},
		Difficulty: registry.DifficultyMedium,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return "breakout" }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Breakout" }

// SetSound installs the buzzer callback.
func (g *Game) SetSound(play func(registry.Sound)) { g.sound = play }

func (g *Game) play(s registry.Sound) {
	if g.sound != nil {
		g.sound(s)
	}
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.tooSmall = runtime.ScreenW < minScreenW || runtime.ScreenH < minScreenH

	g.score = 0
	g.lives = g.cfg.Gameplay.Lives
	g.level = 1
	g.clock = 0
	g.bricksHit = 0
	g.state = StateServe

	// Row 0 is the HUD, row 1 the top wall
	g.field = Field{Left: 1, Right: runtime.ScreenW - 1, Top: 2, Bottom: runtime.ScreenH}
	g.paddle = &Paddle{
		X:     ToFixed((runtime.ScreenW - g.cfg.Gameplay.PaddleWidth) / 2),
		Y:     runtime.ScreenH - 2,
		Width: g.cfg.Gameplay.PaddleWidth,
	}
	g.buildWall()
	g.placeBallOnPaddle()
}

func (g *Game) buildWall() {
	g.wall = NewWall(g.cfg.Bricks.Rows, g.cfg.Bricks.Cols,
		g.field.Left, g.field.Top+wallTopGap, g.field.Right-g.field.Left, g.cfg.Bricks.Points)
}

// placeBallOnPaddle parks the ball on the paddle until launch.
func (g *Game) placeBallOnPaddle() {
	g.ball = &Ball{Stuck: true}
	g.followPaddle()
}

func (g *Game) followPaddle() {
	g.ball.X = g.paddle.CenterX()
	g.ball.Y = ToFixed(g.paddle.Y) - 1
}

// ballSpeed returns the current ball speed in fixed-point cells per second.
func (g *Game) ballSpeed() Fixed {
	base := g.cfg.Physics.BallSpeed * (1 + levelSpeedUp*float64(g.level-1))
	return FromFloat(g.difficulty.Speed(base, g.score, g.clock))
}

// launch sends the ball up at 45 degrees in a random horizontal direction.
func (g *Game) launch() {
	angle := launchAngle
	if g.rng.Intn(2) == 0 {
		angle = -angle
	}
	g.ball.Stuck = false
	g.ball.SetVelocity(g.ballSpeed(), angle)
	g.state = StatePlaying
	g.play(registry.SoundBounce)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall || g.state == StateGameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		if g.state == StatePaused {
			g.state = g.prevState
		} else {
			g.prevState = g.state
			g.state = StatePaused
		}
	}
	if g.state == StatePaused {
		return core.StepResult{State: g.State()}
	}

	g.clock += in.Delta
	g.updatePaddle(in)

	if g.state == StateServe {
		g.followPaddle()
		if in.Has(core.ActionFire) {
			g.launch()
		}
		return core.StepResult{State: g.State()}
	}

	g.updateBall(in.Delta)
	return core.StepResult{State: g.State()}
}

// updatePaddle moves the paddle while left/right is held.
func (g *Game) updatePaddle(in core.InputFrame) {
	move := FromFloat(g.cfg.Physics.PaddleSpeed).Scaled(in.Delta)
	if in.IsHeld(core.ActionLeft) {
		g.paddle.X -= move
	}
	if in.IsHeld(core.ActionRight) {
		g.paddle.X += move
	}
	g.paddle.X = ClampFixed(g.paddle.X, ToFixed(g.field.Left), ToFixed(g.field.Right-g.paddle.Width))
}

// updateBall moves the ball in substeps so it cannot tunnel through a brick.
func (g *Game) updateBall(dt time.Duration) {
	dx := g.ball.VX.Scaled(dt)
	dy := g.ball.VY.Scaled(dt)
	steps := int(max(dx.Abs(), dy.Abs())/maxSubstep) + 1

	for i := range steps {
		// Spread the remainder so the total distance is exact
		sx := dx*Fixed(i+1)/Fixed(steps) - dx*Fixed(i)/Fixed(steps)
		sy := dy*Fixed(i+1)/Fixed(steps) - dy*Fixed(i)/Fixed(steps)
		g.ball.X += sx
		g.ball.Y += sy

		if !g.collide() {
			return
		}
		// Velocity changed; the rest of this tick follows the new direction
		if g.ball.VX.Sign() != dx.Sign() {
			dx = -dx
		}
		if g.ball.VY.Sign() != dy.Sign() {
			dy = -dy
		}
	}
}

// collide resolves collisions at the ball's position. It returns false when
// the ball left play and the tick must stop.
func (g *Game) collide() bool {
	bounced, fellOff := CheckWallCollision(g.ball, g.field)
	if fellOff {
		g.handleMiss()
		return false
	}
	if bounced {
		g.play(registry.SoundBounce)
	}

	if CheckPaddleCollision(g.ball, g.paddle, g.ballSpeed(), g.cfg.Physics.MaxBounce*math.Pi/180) {
		g.play(registry.SoundBounce)
		return true
	}

	row, col, side := CheckBrickCollision(g.ball, g.wall)
	if side != CollisionNone {
		g.hitBrick(row, col)
		ApplyCollisionBounce(g.ball, side)
		if g.state != StatePlaying {
			return false
		}
	}
	return true
}

// hitBrick destroys a brick and checks for a cleared wall.
func (g *Game) hitBrick(row, col int) {
	brick := &g.wall.Bricks[row][col]
	brick.Alive = false
	g.score += brick.Points
	g.bricksHit++
	g.play(registry.SoundHit)

	if g.wall.CountAlive() == 0 {
		g.handleLevelClear()
	}
}

// handleMiss handles the ball falling past the paddle.
func (g *Game) handleMiss() {
	g.lives--
	if g.lives <= 0 {
		g.lives = 0
		g.state = StateGameOver
		g.play(registry.SoundLose)
		return
	}
	g.play(registry.SoundMiss)
	g.placeBallOnPaddle()
	g.state = StateServe
}

// handleLevelClear rebuilds the wall and speeds up the next serve.
func (g *Game) handleLevelClear() {
	g.level++
	g.score += levelClearBonus
	g.buildWall()
	g.placeBallOnPaddle()
	g.state = StateServe
	g.play(registry.SoundWin)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}

	g.renderHUD(dst)

	// Side and top walls; the bottom is open
	for x := g.field.Left - 1; x <= g.field.Right; x++ {
		dst.SetColor(x, g.field.Top-1, '─', core.ColorGray)
	}
	for y := g.field.Top; y < g.field.Bottom; y++ {
		dst.SetColor(g.field.Left-1, y, '│', core.ColorGray)
		dst.SetColor(g.field.Right, y, '│', core.ColorGray)
	}

	for row := range g.wall.Rows {
		for col := range g.wall.Cols {
			brick := g.wall.Bricks[row][col]
			if !brick.Alive {
				continue
			}
			x, y := g.wall.Origin(row, col)
			// Leave a one-cell gap between bricks
			for dx := range g.wall.BrickW - 1 {
				dst.SetColor(x+dx, y, BrickChar, brick.Color)
			}
		}
	}

	px := g.paddle.CellX()
	for i := range g.paddle.Width {
		dst.SetColor(px+i, g.paddle.Y, PaddleChar, core.ColorBlue)
	}
	dst.SetColor(g.ball.CellX(), g.ball.CellY(), BallChar, core.ColorWhite)

	switch g.state {
	case StateServe:
		dst.DrawTextCentered(dst.Height()-1, "Press A to launch", core.ColorYellow)
	case StateGameOver:
		dst.DrawOverlay(core.ColorRed, "GAME OVER", fmt.Sprintf("Score: %d", g.score))
	}
}

// renderHUD draws the score, lives, and level indicator.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score))
	dst.DrawTextCentered(0, fmt.Sprintf("Lives: %d", g.lives), core.ColorDefault)
	levelText := fmt.Sprintf("Level: %d", g.level)
	dst.DrawText(dst.Width()-len(levelText)-1, 0, levelText)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// Cleanup drops the board state.
func (g *Game) Cleanup() {
	g.wall = nil
	g.sound = nil
}
