// Package invaders implements a space invaders shooter.
package invaders

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const (
	enemyW       = 3 // Glyph width of an invader
	enemySpacing = 5 // Columns between formation slots
	formationTop = 2
	playerW      = 3
	waveSpeedUp  = 0.25 // Formation rate added per wave
	minScreenW   = 44
	minScreenH   = 18
	maxSubstep   = 0.5 // Largest bullet move per collision check, in cells
)

var enemyGlyphs = []struct {
	text  string
	color core.Color
}{
	{"{@}", core.ColorMagenta},
	{"/M\\", core.ColorCyan},
	{"<W>", core.ColorGreen},
	{"<W>", core.ColorGreen},
}

// Enemy is one invader of the formation.
type Enemy struct {
	X, Y   int // Left cell and row
	Row    int // Formation row, 0 = top
	Health int
}

// Bullet is a projectile moving vertically.
type Bullet struct {
	X int
	Y float64
}

// Game implements the space invaders game.
type Game struct {
	cfg        config.InvadersConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	sound      func(registry.Sound)

	playerX float64 // Left cell of the ship
	playerY int
	lives   int
	score   int
	wave    int

	enemies      []*Enemy
	totalEnemies int
	direction    int // +1 right, -1 left
	bullets      []Bullet
	enemyBullets []Bullet

	clock     time.Duration
	lastShot  time.Duration
	shotOnce  bool
	stepTimer time.Duration
	fireTimer time.Duration

	screenW, screenH int
	gameOver         bool
	paused           bool
	tooSmall         bool
}

// New creates a game using the resolved configuration files.
func New() *Game {
	cfg, err := config.LoadInvaders("")
	if err != nil {
		cfg = config.DefaultInvadersConfig()
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a game with explicit tuning.
func NewWithConfig(cfg config.InvadersConfig) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
}

func init() {
	registry.Register(registry.GameDescriptor{
		Number:      3,
		ID:          "invaders",
		Name:        "Space Invaders",
		Description: "Shoot down the invading fleet before it lands.",
		Controls: []string{
			"Left/Right: move ship",
			"A: fire",
			"Start: pause",
		},
		Difficulty: registry.DifficultyMedium,
		Factory:    func() registry.Game { return New() },
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "invaders" }

// Title returns the display name.
func (g *Game) Title() string { return "Space Invaders" }

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

	g.playerX = float64(cfg.ScreenW-playerW) / 2
	g.playerY = cfg.ScreenH - 2
	g.lives = g.cfg.Player.Lives
	g.score = 0
	g.wave = 1
	g.bullets = nil
	g.enemyBullets = nil
	g.clock = 0
	g.lastShot = 0
	g.shotOnce = false
	g.stepTimer = 0
	g.fireTimer = 0
	g.gameOver = false
	g.paused = false

	g.spawnWave()
}

// spawnWave builds a fresh formation in the top-left corner.
func (g *Game) spawnWave() {
	g.enemies = g.enemies[:0]
	for row := range g.cfg.Enemies.Rows {
		health := 1
		if hs := g.cfg.Enemies.Health; len(hs) > 0 {
			health = hs[min(row, len(hs)-1)]
		}
		for col := range g.cfg.Enemies.Cols {
			g.enemies = append(g.enemies, &Enemy{
				X:      2 + col*enemySpacing,
				Y:      formationTop + row*2,
				Row:    row,
				Health: health,
			})
		}
	}
	g.totalEnemies = len(g.enemies)
	g.direction = 1
	g.enemyBullets = nil
	g.stepTimer = 0
	g.fireTimer = 0
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

	g.movePlayer(in, dt)
	if in.IsHeld(core.ActionFire) {
		g.shoot()
	}

	g.moveBullets(dt)
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	g.stepTimer += dt
	if interval := g.stepInterval(); g.stepTimer >= interval {
		g.stepTimer -= interval
		g.stepFormation()
	}

	g.fireTimer += dt
	if interval := g.fireInterval(); g.fireTimer >= interval {
		g.fireTimer -= interval
		g.enemyShoot()
	}

	if len(g.enemies) == 0 && !g.gameOver {
		g.wave++
		g.spawnWave()
		g.play(registry.SoundWin)
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) movePlayer(in core.InputFrame, dt time.Duration) {
	move := g.cfg.Player.Speed * dt.Seconds()
	if in.IsHeld(core.ActionLeft) {
		g.playerX -= move
	}
	if in.IsHeld(core.ActionRight) {
		g.playerX += move
	}
	g.playerX = core.ClampF(g.playerX, 1, float64(g.screenW-playerW-1))
}

// shoot fires a bullet if the cooldown allows.
func (g *Game) shoot() {
	if g.shotOnce && g.clock-g.lastShot < seconds(g.cfg.Player.ShotDelay) {
		return
	}
	g.shotOnce = true
	g.lastShot = g.clock
	g.bullets = append(g.bullets, Bullet{X: g.playerCell() + playerW/2, Y: float64(g.playerY - 1)})
	g.play(registry.SoundShoot)
}

func (g *Game) playerCell() int {
	return int(math.Floor(g.playerX))
}

// stepInterval shrinks as the formation thins out and waves advance.
func (g *Game) stepInterval() time.Duration {
	alive := float64(len(g.enemies)) / float64(max(g.totalEnemies, 1))
	rate := (1 + waveSpeedUp*float64(g.wave-1)) / (g.cfg.Enemies.StepInterval * (0.3 + 0.7*alive))
	return max(g.difficulty.Interval(rate, g.score, g.clock), seconds(g.cfg.Enemies.MinStepInterval))
}

func (g *Game) fireInterval() time.Duration {
	e := g.cfg.Enemies
	return seconds(max(e.MinFireInterval, e.FireInterval-e.FireIntervalStep*float64(g.wave-1)))
}

// stepFormation moves every invader one column, or one row down and
// reverses at the screen edge.
func (g *Game) stepFormation() {
	edge := false
	for _, e := range g.enemies {
		if (g.direction > 0 && e.X+enemyW >= g.screenW-1) || (g.direction < 0 && e.X <= 1) {
			edge = true
			break
		}
	}

	for _, e := range g.enemies {
		if edge {
			e.Y++
		} else {
			e.X += g.direction
		}
	}
	if edge {
		g.direction = -g.direction
	}
	g.play(registry.SoundMove)

	for _, e := range g.enemies {
		if e.Y >= g.playerY {
			g.endGame()
			return
		}
	}
}

// enemyShoot fires from a random invader that has no invader below it.
func (g *Game) enemyShoot() {
	if len(g.enemies) == 0 {
		return
	}
	var shooters []*Enemy
	for _, e := range g.enemies {
		blocked := false
		for _, o := range g.enemies {
			if o != e && o.X == e.X && o.Y > e.Y {
				blocked = true
				break
			}
		}
		if !blocked {
			shooters = append(shooters, e)
		}
	}
	s := shooters[g.rng.Intn(len(shooters))]
	g.enemyBullets = append(g.enemyBullets, Bullet{X: s.X + enemyW/2, Y: float64(s.Y + 1)})
}

// moveBullets advances all projectiles in substeps and resolves hits.
func (g *Game) moveBullets(dt time.Duration) {
	up := g.cfg.Player.BulletSpeed * dt.Seconds()
	down := g.cfg.Enemies.BulletSpeed * dt.Seconds()
	steps := int(math.Max(up, down)/maxSubstep) + 1

	for range steps {
		g.bullets = g.advancePlayerBullets(up / float64(steps))
		g.enemyBullets = g.advanceEnemyBullets(down / float64(steps))
		if g.gameOver {
			return
		}
	}
}

func (g *Game) advancePlayerBullets(dy float64) []Bullet {
	kept := g.bullets[:0]
	for _, b := range g.bullets {
		b.Y -= dy
		if b.Y < 1 {
			continue
		}
		if hit := g.enemyAt(b.X, int(math.Floor(b.Y))); hit >= 0 {
			g.hitEnemy(hit)
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func (g *Game) advanceEnemyBullets(dy float64) []Bullet {
	kept := g.enemyBullets[:0]
	for _, b := range g.enemyBullets {
		b.Y += dy
		y := int(math.Floor(b.Y))
		if y >= g.screenH {
			continue
		}
		px := g.playerCell()
		if y == g.playerY && b.X >= px && b.X < px+playerW {
			g.hitPlayer()
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func (g *Game) enemyAt(x, y int) int {
	for i, e := range g.enemies {
		if y == e.Y && x >= e.X && x < e.X+enemyW {
			return i
		}
	}
	return -1
}

func (g *Game) hitEnemy(i int) {
	e := g.enemies[i]
	e.Health--
	if e.Health > 0 {
		g.play(registry.SoundHit)
		return
	}
	pts := 10
	if ps := g.cfg.Enemies.Points; len(ps) > 0 {
		pts = ps[min(e.Row, len(ps)-1)]
	}
	g.score += pts
	g.enemies = append(g.enemies[:i], g.enemies[i+1:]...)
	g.play(registry.SoundExplode)
}

func (g *Game) hitPlayer() {
	g.lives--
	if g.lives <= 0 {
		g.lives = 0
		g.endGame()
		return
	}
	g.play(registry.SoundMiss)
}

func (g *Game) endGame() {
	g.gameOver = true
	g.play(registry.SoundLose)
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}

	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score))
	dst.DrawTextCentered(0, fmt.Sprintf("Wave %d", g.wave), core.ColorCyan)
	lives := fmt.Sprintf("Lives: %d", g.lives)
	dst.DrawText(dst.Width()-len(lives)-1, 0, lives)

	for _, e := range g.enemies {
		glyph := enemyGlyphs[min(e.Row, len(enemyGlyphs)-1)]
		dst.DrawTextColor(e.X, e.Y, glyph.text, glyph.color)
	}
	for _, b := range g.bullets {
		dst.SetColor(b.X, int(math.Floor(b.Y)), '|', core.ColorYellow)
	}
	for _, b := range g.enemyBullets {
		dst.SetColor(b.X, int(math.Floor(b.Y)), '!', core.ColorRed)
	}
	dst.DrawTextColor(g.playerCell(), g.playerY, "/^\\", core.ColorGreen)

	for x := range dst.Width() {
		dst.SetColor(x, g.playerY+1, '─', core.ColorGray)
	}

	if g.gameOver {
		dst.DrawOverlay(core.ColorRed, "GAME OVER", fmt.Sprintf("Score: %d  Wave: %d", g.score, g.wave))
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
	g.enemies = nil
	g.bullets = nil
	g.enemyBullets = nil
	g.sound = nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
