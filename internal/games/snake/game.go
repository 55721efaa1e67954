package snake

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

// FoodKind identifies a food type.
type FoodKind int

const (
	FoodNormal FoodKind = iota
	FoodGolden          // 5 points, grows by two
	FoodSpeed           // Speed boost power-up
	FoodMulti           // Score multiplier power-up
	FoodBonus           // Invincibility power-up
	FoodPhase           // Wall phase power-up
)

// PowerUp identifies a timed effect.
type PowerUp int

const (
	PowerInvincible PowerUp = iota
	PowerSpeedBoost
	PowerMultiplier
	PowerWallPhase
	powerUpCount
)

type foodSpec struct {
	points  int
	growth  int
	powerUp PowerUp
	hasPow  bool
	weight  int
	glyph   rune
	color   core.Color
}

var foodSpecs = map[FoodKind]foodSpec{
	FoodNormal: {points: 1, growth: 1, glyph: '*', color: core.ColorRed},
	FoodGolden: {points: 5, growth: 2, weight: 3, glyph: '$', color: core.ColorGold},
	FoodSpeed:  {points: 3, growth: 1, powerUp: PowerSpeedBoost, hasPow: true, weight: 2, glyph: '>', color: core.ColorOrange},
	FoodMulti:  {points: 2, growth: 1, powerUp: PowerMultiplier, hasPow: true, weight: 2, glyph: 'x', color: core.ColorGreen},
	FoodBonus:  {points: 10, growth: 1, powerUp: PowerInvincible, hasPow: true, weight: 1, glyph: '+', color: core.ColorPink},
	FoodPhase:  {points: 4, growth: 1, powerUp: PowerWallPhase, hasPow: true, weight: 1, glyph: '%', color: core.ColorMagenta},
}

// specialKinds is the weighted draw order for special food.
var specialKinds = []FoodKind{FoodGolden, FoodSpeed, FoodMulti, FoodBonus, FoodPhase}

type food struct {
	pos       core.Point
	kind      FoodKind
	spawnedAt time.Duration
}

const (
	hudHeight       = 2
	minArenaW       = 12
	minArenaH       = 8
	multiplierValue = 3
	speedBoostRatio = 1.5
	blinkWindow     = 3 * time.Second
)

// Game implements the Snake game.
type Game struct {
	cfg        config.SnakeConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	sound      func(registry.Sound)

	tick  uint64
	clock time.Duration // Game time, advanced by frame deltas

	score      int
	level      int
	totalEaten int
	combo      int
	lastEat    time.Duration
	ateOnce    bool

	// Snake state
	snake     []core.Point // Head at index 0
	direction core.Dir
	nextDir   core.Dir // Buffered direction for next move
	boosting  bool
	moveTimer time.Duration

	foods           []food
	specialTimer    time.Duration
	specialInterval time.Duration
	powerUps        [powerUpCount]time.Duration // Remaining time per power-up

	// Arena in screen coordinates (inside the border)
	arena   core.Rect
	screenW int
	screenH int

	gameOver bool
	paused   bool
	tooSmall bool
}

// New creates a Snake game using the resolved configuration files.
func New() *Game {
	cfg, err := config.LoadSnake("")
	if err != nil {
		cfg = config.DefaultSnakeConfig()
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Snake game with explicit tuning.
func NewWithConfig(cfg config.SnakeConfig) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      1,
		ID:          "snake",
		Name:        "Snake",
		Description: "Eat food, grow longer, grab power-ups and avoid the walls.",
		Controls: []string{
			"D-pad: steer",
			"Hold A: boost",
			"Start: pause",
		},
		Difficulty: registry.DifficultyEasy,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "snake" }

// Title returns the display name.
func (g *Game) Title() string { return "Snake" }

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
	g.tick = 0
	g.clock = 0
	g.score = 0
	g.level = 1
	g.totalEaten = 0
	g.combo = 0
	g.lastEat = 0
	g.ateOnce = false
	g.gameOver = false
	g.paused = false
	g.boosting = false
	g.moveTimer = 0
	g.foods = nil
	g.specialTimer = 0
	g.specialInterval = seconds(g.cfg.Food.SpecialInterval)
	g.powerUps = [powerUpCount]time.Duration{}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	// Arena sits below the HUD, inside a one-cell border
	g.arena = core.NewRect(1, hudHeight+1, cfg.ScreenW-2, cfg.ScreenH-hudHeight-2)
	g.tooSmall = g.arena.W < minArenaW || g.arena.H < minArenaH
	if g.tooSmall {
		g.snake = nil
		return
	}

	g.initSnake()
	g.spawnFood(FoodNormal)
}

// initSnake places a three segment snake in the arena centre, heading right.
func (g *Game) initSnake() {
	cx, cy := g.arena.W/2, g.arena.H/2
	g.snake = []core.Point{
		{X: cx, Y: cy}, // Head
		{X: cx - 1, Y: cy},
		{X: cx - 2, Y: cy},
	}
	g.direction = core.DirRight
	g.nextDir = core.DirRight
}

// spawnFood places food of the given kind at a random empty cell.
func (g *Game) spawnFood(kind FoodKind) bool {
	var emptyCells []core.Point
	for y := 0; y < g.arena.H; y++ {
		for x := 0; x < g.arena.W; x++ {
			p := core.Point{X: x, Y: y}
			if !g.isSnakeAt(p) && g.foodAt(p) < 0 {
				emptyCells = append(emptyCells, p)
			}
		}
	}
	if len(emptyCells) == 0 {
		return false
	}
	g.foods = append(g.foods, food{
		pos:       emptyCells[g.rng.Intn(len(emptyCells))],
		kind:      kind,
		spawnedAt: g.clock,
	})
	return true
}

// pickSpecial draws a special food kind by weight.
func (g *Game) pickSpecial() FoodKind {
	total := 0
	for _, k := range specialKinds {
		total += foodSpecs[k].weight
	}
	n := g.rng.Intn(total)
	for _, k := range specialKinds {
		n -= foodSpecs[k].weight
		if n < 0 {
			return k
		}
	}
	return FoodGolden
}

// isSnakeAt checks if the snake occupies the given point.
func (g *Game) isSnakeAt(p core.Point) bool {
	for _, seg := range g.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// foodAt returns the index of the food at p, or -1.
func (g *Game) foodAt(p core.Point) int {
	for i, f := range g.foods {
		if f.pos == p {
			return i
		}
	}
	return -1
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.clock += input.Delta
	g.processInput(input)
	g.updateSpecialFoods(input.Delta)
	g.updatePowerUps(input.Delta)

	interval := g.moveInterval()
	g.moveTimer += input.Delta
	if g.moveTimer >= interval {
		// At most one move per tick; leftover time is kept but capped
		g.moveTimer = min(g.moveTimer-interval, interval)
		g.moveSnake()
	}

	return core.StepResult{State: g.State()}
}

// processInput buffers a direction change and samples the boost button.
func (g *Game) processInput(input core.InputFrame) {
	if d := core.DirFromInput(input); d != core.DirNone && d != g.direction.Opposite() {
		g.nextDir = d
	}
	g.boosting = input.IsHeld(core.ActionFire)
}

// moveInterval returns the time between moves for the current speed.
func (g *Game) moveInterval() time.Duration {
	rate := g.cfg.Speed.Base
	if g.powerUps[PowerSpeedBoost] > 0 {
		rate *= speedBoostRatio
	}
	if g.boosting {
		rate = max(rate, g.cfg.Speed.Boost)
	}
	return g.difficulty.Interval(rate, g.score, g.clock)
}

// updateSpecialFoods spawns special food on its timer and removes expired ones.
func (g *Game) updateSpecialFoods(dt time.Duration) {
	g.specialTimer += dt
	if g.specialTimer >= g.specialInterval {
		g.spawnFood(g.pickSpecial())
		g.specialTimer = 0
		next := g.cfg.Food.SpecialInterval - float64(g.level)*0.5
		g.specialInterval = seconds(max(g.cfg.Food.MinSpecialInterval, next))
	}

	lifetime := seconds(g.cfg.Food.SpecialLifetime)
	kept := g.foods[:0]
	for _, f := range g.foods {
		if f.kind == FoodNormal || g.clock-f.spawnedAt < lifetime {
			kept = append(kept, f)
		}
	}
	g.foods = kept
}

func (g *Game) updatePowerUps(dt time.Duration) {
	for i := range g.powerUps {
		if g.powerUps[i] > 0 {
			g.powerUps[i] = max(g.powerUps[i]-dt, 0)
		}
	}
}

func (g *Game) activatePowerUp(p PowerUp) {
	var d float64
	switch p {
	case PowerInvincible:
		d = g.cfg.PowerUps.Invincible
	case PowerSpeedBoost:
		d = g.cfg.PowerUps.SpeedBoost
	case PowerMultiplier:
		d = g.cfg.PowerUps.ScoreMultiplier
	case PowerWallPhase:
		d = g.cfg.PowerUps.WallPhase
	}
	g.powerUps[p] = seconds(d)
	g.play(registry.SoundPowerUp)
}

// PowerUpActive reports whether a power-up is currently running.
func (g *Game) PowerUpActive(p PowerUp) bool {
	return g.powerUps[p] > 0
}

// moveSnake moves the snake one cell in the current direction.
func (g *Game) moveSnake() {
	if len(g.snake) == 0 {
		return
	}

	// Apply buffered direction
	g.direction = g.nextDir
	newHead := g.snake[0].Add(g.direction)

	if g.powerUps[PowerWallPhase] > 0 {
		newHead.X = core.Wrap(newHead.X, g.arena.W)
		newHead.Y = core.Wrap(newHead.Y, g.arena.H)
	} else if newHead.X < 0 || newHead.X >= g.arena.W || newHead.Y < 0 || newHead.Y >= g.arena.H {
		g.die()
		return
	}

	// The tail moves away this step, so it does not count as a collision
	if g.powerUps[PowerInvincible] == 0 {
		for _, seg := range g.snake[:len(g.snake)-1] {
			if seg == newHead {
				g.die()
				return
			}
		}
	}

	g.snake = append([]core.Point{newHead}, g.snake...)

	idx := g.foodAt(newHead)
	if idx < 0 {
		g.snake = g.snake[:len(g.snake)-1]
	} else {
		eaten := g.foods[idx]
		g.foods = append(g.foods[:idx], g.foods[idx+1:]...)
		g.eat(eaten)
	}

	// There is always one normal food on the board
	hasNormal := false
	for _, f := range g.foods {
		if f.kind == FoodNormal {
			hasNormal = true
			break
		}
	}
	if !hasNormal {
		g.spawnFood(FoodNormal)
	}
}

// eat applies scoring, growth and power-ups for an eaten food.
func (g *Game) eat(f food) {
	spec := foodSpecs[f.kind]

	if g.ateOnce && g.clock-g.lastEat < seconds(g.cfg.Speed.ComboWindow) {
		g.combo++
	} else {
		g.combo = 1
	}
	g.ateOnce = true
	g.lastEat = g.clock

	mult := 1.0
	if g.powerUps[PowerMultiplier] > 0 {
		mult = multiplierValue
	}
	g.score += int(float64(spec.points) * (1 + float64(g.combo)*0.5) * mult)

	// The new head already grew the snake by one
	for range spec.growth - 1 {
		g.snake = append(g.snake, g.snake[len(g.snake)-1])
	}

	if spec.hasPow {
		g.activatePowerUp(spec.powerUp)
	} else {
		g.play(registry.SoundEat)
	}

	g.totalEaten++
	if every := g.cfg.Speed.LevelEvery; every > 0 && g.totalEaten%every == 0 {
		g.level++
		g.play(registry.SoundLevelUp)
	}
}

func (g *Game) die() {
	g.gameOver = true
	g.play(registry.SoundHit)
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", "for Snake")
		return
	}

	dst.DrawBox(core.NewRect(g.arena.X-1, g.arena.Y-1, g.arena.W+2, g.arena.H+2), core.ColorGray)
	if g.powerUps[PowerWallPhase] > 0 {
		dst.DrawBox(core.NewRect(g.arena.X-1, g.arena.Y-1, g.arena.W+2, g.arena.H+2), core.ColorMagenta)
	}

	lifetime := seconds(g.cfg.Food.SpecialLifetime)
	for _, f := range g.foods {
		spec := foodSpecs[f.kind]
		if f.kind != FoodNormal {
			remaining := lifetime - (g.clock - f.spawnedAt)
			// Blink at 4 Hz before expiring
			if remaining < blinkWindow && (g.clock/(250*time.Millisecond))%2 == 1 {
				continue
			}
		}
		dst.SetColor(g.arena.X+f.pos.X, g.arena.Y+f.pos.Y, spec.glyph, spec.color)
	}

	bodyColor := core.ColorGreen
	if g.powerUps[PowerInvincible] > 0 {
		bodyColor = core.ColorGold
	}
	for i := len(g.snake) - 1; i >= 0; i-- {
		seg := g.snake[i]
		ch := 'o'
		if i == 0 {
			ch = '@'
		}
		dst.SetColor(g.arena.X+seg.X, g.arena.Y+seg.Y, ch, bodyColor)
	}

	if g.gameOver {
		dst.DrawOverlay(core.ColorRed, "GAME OVER", fmt.Sprintf("Score: %d", g.score))
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" SNAKE  Score: %d  Level: %d  Length: %d", g.score, g.level, len(g.snake))
	if g.combo > 1 {
		hud += fmt.Sprintf("  Combo x%d", g.combo)
	}
	dst.DrawText(0, 0, hud)

	var active []string
	names := [powerUpCount]string{"INV", "SPD", "x3", "PHASE"}
	for i, left := range g.powerUps {
		if left > 0 {
			active = append(active, fmt.Sprintf("%s %.0fs", names[i], left.Seconds()))
		}
	}
	if len(active) > 0 {
		dst.DrawTextColor(1, 1, strings.Join(active, "  "), core.ColorCyan)
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

// Cleanup drops the board state.
func (g *Game) Cleanup() {
	g.snake = nil
	g.foods = nil
	g.sound = nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
