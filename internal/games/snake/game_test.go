package snake

import (
	"testing"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const step = 125 * time.Millisecond // One move at the base speed

func newTestGame(seed int64) *Game {
	g := NewWithConfig(config.DefaultSnakeConfig())
	g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 40, ScreenH: 24})
	return g
}

// placeFood replaces the board food with a single item in front of the head.
func placeFood(g *Game, kind FoodKind) {
	g.foods = []food{{pos: g.snake[0].Add(g.nextDir), kind: kind, spawnedAt: g.clock}}
}

func TestRightRightUp(t *testing.T) {
	g := newTestGame(7)
	start := g.Snapshot().Head

	for _, a := range []core.Action{core.ActionRight, core.ActionRight, core.ActionUp} {
		g.Step(core.FrameOf(step, a))
	}

	want := core.Point{X: start.X + 2, Y: start.Y - 1}
	if got := g.Snapshot().Head; got != want {
		t.Errorf("head = %+v, want %+v", got, want)
	}
	if start != (core.Point{X: 19, Y: 10}) {
		t.Errorf("start head = %+v, want arena centre (19,10)", start)
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(12345)
	g2 := newTestGame(12345)

	for i := range 400 {
		var in core.InputFrame
		switch i {
		case 20:
			in = core.FrameOf(16*time.Millisecond, core.ActionDown)
		case 40:
			in = core.FrameOf(16*time.Millisecond, core.ActionLeft)
		case 90:
			in = core.FrameOf(16*time.Millisecond, core.ActionUp)
		default:
			in = core.FrameOf(16 * time.Millisecond)
		}
		g1.Step(in)
		g2.Step(in.Clone())
	}

	if s1, s2 := g1.Snapshot(), g2.Snapshot(); s1 != s2 {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	g := newTestGame(99)
	initial := g.Snapshot()

	placeFood(g, FoodGolden)
	g.Step(core.FrameOf(step))
	g.Step(core.FrameOf(step, core.ActionDown))
	if g.Snapshot() == initial {
		t.Fatal("game did not change state")
	}

	g.Reset(core.RuntimeConfig{Seed: 99, ScreenW: 40, ScreenH: 24})
	if got := g.Snapshot(); got != initial {
		t.Errorf("after reset:\n%+v\nwant\n%+v", got, initial)
	}
}

func TestNoImmediateReversal(t *testing.T) {
	g := newTestGame(42)

	if g.direction != core.DirRight {
		t.Fatalf("Expected initial direction right, got %v", g.direction)
	}

	g.Step(core.FrameOf(time.Millisecond, core.ActionLeft))
	if g.nextDir == core.DirLeft {
		t.Error("Should not allow immediate reversal from right to left")
	}

	g.Step(core.FrameOf(time.Millisecond, core.ActionDown))
	if g.nextDir != core.DirDown {
		t.Errorf("Expected nextDir to be down, got %v", g.nextDir)
	}
}

func TestWallCollisionEndsGame(t *testing.T) {
	g := newTestGame(1)
	var hits []registry.Sound
	g.SetSound(func(s registry.Sound) { hits = append(hits, s) })

	for range g.arena.W {
		g.foods = nil // keep the path clear
		if g.Step(core.FrameOf(step)).State.GameOver {
			break
		}
	}
	if !g.State().GameOver {
		t.Fatal("snake should hit the right wall")
	}
	if len(hits) == 0 || hits[len(hits)-1] != registry.SoundHit {
		t.Errorf("sounds = %v, want trailing hit", hits)
	}
}

func TestWallPhaseWraps(t *testing.T) {
	g := newTestGame(1)
	g.powerUps[PowerWallPhase] = time.Minute
	y := g.snake[0].Y
	g.snake = []core.Point{{X: g.arena.W - 1, Y: y}, {X: g.arena.W - 2, Y: y}, {X: g.arena.W - 3, Y: y}}
	g.foods = nil

	g.Step(core.FrameOf(step))
	if g.State().GameOver {
		t.Fatal("wall phase should wrap instead of ending the game")
	}
	if head := g.snake[0]; head.X != 0 || head.Y != y {
		t.Errorf("head = %+v, want wrapped to (0,%d)", head, y)
	}
}

func TestSelfCollision(t *testing.T) {
	g := newTestGame(1)
	// A hook shape: moving up runs into the body
	g.snake = []core.Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 4}, {X: 5, Y: 4}, {X: 4, Y: 4}}
	g.direction = core.DirLeft
	g.nextDir = core.DirLeft
	g.foods = nil

	g.Step(core.FrameOf(step, core.ActionUp))
	if !g.State().GameOver {
		t.Fatal("expected self collision")
	}

	g = newTestGame(1)
	g.snake = []core.Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 4}, {X: 5, Y: 4}, {X: 4, Y: 4}}
	g.direction = core.DirLeft
	g.nextDir = core.DirLeft
	g.foods = nil
	g.powerUps[PowerInvincible] = time.Minute

	g.Step(core.FrameOf(step, core.ActionUp))
	if g.State().GameOver {
		t.Error("invincible snake should pass through itself")
	}
}

func TestEatScoresWithCombo(t *testing.T) {
	g := newTestGame(3)

	placeFood(g, FoodNormal)
	g.Step(core.FrameOf(step))
	if g.score != 1 || g.combo != 1 {
		t.Fatalf("after first food score=%d combo=%d, want 1/1", g.score, g.combo)
	}
	if len(g.snake) != 4 {
		t.Errorf("length = %d, want 4", len(g.snake))
	}

	// Second food inside the combo window: 1 * (1 + 2*0.5) = 2
	placeFood(g, FoodNormal)
	g.Step(core.FrameOf(step))
	if g.score != 3 || g.combo != 2 {
		t.Errorf("after combo score=%d combo=%d, want 3/2", g.score, g.combo)
	}
}

func TestComboResetsAfterWindow(t *testing.T) {
	g := newTestGame(3)
	placeFood(g, FoodNormal)
	g.Step(core.FrameOf(step))

	g.clock += 5 * time.Second
	placeFood(g, FoodNormal)
	g.Step(core.FrameOf(step))
	if g.combo != 1 {
		t.Errorf("combo = %d, want 1 after the window", g.combo)
	}
}

func TestGoldenFoodGrowsTwo(t *testing.T) {
	g := newTestGame(5)
	placeFood(g, FoodGolden)
	g.Step(core.FrameOf(step))

	if len(g.snake) != 5 {
		t.Errorf("length = %d, want 5", len(g.snake))
	}
	// 5 * 1.5
	if g.score != 7 {
		t.Errorf("score = %d, want 7", g.score)
	}
}

func TestPowerUpFoods(t *testing.T) {
	tests := []struct {
		kind FoodKind
		want PowerUp
	}{
		{FoodSpeed, PowerSpeedBoost},
		{FoodMulti, PowerMultiplier},
		{FoodBonus, PowerInvincible},
		{FoodPhase, PowerWallPhase},
	}

	for _, tt := range tests {
		g := newTestGame(11)
		var sounds []registry.Sound
		g.SetSound(func(s registry.Sound) { sounds = append(sounds, s) })

		placeFood(g, tt.kind)
		g.Step(core.FrameOf(step))

		if !g.PowerUpActive(tt.want) {
			t.Errorf("food %d did not activate power-up %d", tt.kind, tt.want)
		}
		if len(sounds) == 0 || sounds[0] != registry.SoundPowerUp {
			t.Errorf("food %d sounds = %v, want powerup", tt.kind, sounds)
		}
	}
}

func TestMultiplierTriplesPoints(t *testing.T) {
	g := newTestGame(2)
	g.powerUps[PowerMultiplier] = time.Minute
	placeFood(g, FoodNormal)
	g.Step(core.FrameOf(step))

	// int(1 * 1.5 * 3)
	if g.score != 4 {
		t.Errorf("score = %d, want 4", g.score)
	}
}

func TestPowerUpsExpire(t *testing.T) {
	g := newTestGame(2)
	g.powerUps[PowerSpeedBoost] = 100 * time.Millisecond
	g.Step(core.FrameOf(50 * time.Millisecond))
	if !g.PowerUpActive(PowerSpeedBoost) {
		t.Fatal("power-up expired too early")
	}
	g.Step(core.FrameOf(60 * time.Millisecond))
	if g.PowerUpActive(PowerSpeedBoost) {
		t.Error("power-up should have expired")
	}
}

func TestMoveIntervalShrinksWithScore(t *testing.T) {
	g := newTestGame(1)
	slow := g.moveInterval()
	g.score = 150
	fast := g.moveInterval()
	if fast >= slow {
		t.Errorf("interval at score 150 (%v) should be shorter than at 0 (%v)", fast, slow)
	}
}

func TestBoostWhileHeld(t *testing.T) {
	g := newTestGame(1)
	normal := g.moveInterval()

	in := core.NewInputFrame()
	in.Delta = time.Millisecond
	in.Hold(core.ActionFire)
	g.Step(in)

	if boosted := g.moveInterval(); boosted >= normal {
		t.Errorf("boost interval %v should be shorter than %v", boosted, normal)
	}
}

func TestSpecialFoodSpawnsAndExpires(t *testing.T) {
	g := newTestGame(8)
	g.snake = []core.Point{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	g.direction = core.DirDown
	g.nextDir = core.DirDown

	// Advance just past the spawn interval without moving into anything
	g.specialTimer = g.specialInterval - time.Millisecond
	g.Step(core.FrameOf(2 * time.Millisecond))

	specials := 0
	for _, f := range g.foods {
		if f.kind != FoodNormal {
			specials++
		}
	}
	if specials != 1 {
		t.Fatalf("special foods = %d, want 1", specials)
	}

	g.clock += 20 * time.Second
	g.Step(core.FrameOf(time.Millisecond))
	for _, f := range g.foods {
		if f.kind != FoodNormal {
			t.Errorf("special food %d should have expired", f.kind)
		}
	}
}

func TestFoodSpawnValidity(t *testing.T) {
	g := newTestGame(999)

	for range 100 {
		g.foods = nil
		if !g.spawnFood(FoodNormal) {
			t.Fatal("spawnFood found no free cell")
		}
		f := g.foods[0]
		if g.isSnakeAt(f.pos) {
			t.Errorf("Food spawned on snake at %+v", f.pos)
		}
		if f.pos.X < 0 || f.pos.X >= g.arena.W || f.pos.Y < 0 || f.pos.Y >= g.arena.H {
			t.Errorf("Food spawned out of bounds at %+v", f.pos)
		}
	}
}

func TestLevelUp(t *testing.T) {
	g := newTestGame(4)
	for range g.cfg.Speed.LevelEvery {
		g.direction = core.DirRight
		g.nextDir = core.DirRight
		g.snake = []core.Point{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
		placeFood(g, FoodNormal)
		g.Step(core.FrameOf(step))
	}
	if g.level != 2 {
		t.Errorf("level = %d, want 2", g.level)
	}
}

func TestPauseFreezes(t *testing.T) {
	g := newTestGame(6)
	g.Step(core.FrameOf(time.Millisecond, core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}

	before := g.Snapshot().Head
	for range 10 {
		g.Step(core.FrameOf(step))
	}
	if after := g.Snapshot().Head; after != before {
		t.Errorf("snake moved while paused: %+v -> %+v", before, after)
	}

	g.Step(core.FrameOf(time.Millisecond, core.ActionPause))
	if g.State().Paused {
		t.Error("expected resumed")
	}
}

func TestTooSmallScreen(t *testing.T) {
	g := NewWithConfig(config.DefaultSnakeConfig())
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 10, ScreenH: 6})

	if g.Snapshot().State != StatePausedSmall {
		t.Fatalf("state = %v, want %v", g.Snapshot().State, StatePausedSmall)
	}
	g.Step(core.FrameOf(step))

	screen := core.NewScreen(10, 6)
	g.Render(screen)
}

func TestRenderShowsSnakeAndHUD(t *testing.T) {
	g := newTestGame(1)
	screen := core.NewScreen(40, 24)
	g.Render(screen)

	if !screen.Contains("SNAKE") {
		t.Error("HUD missing")
	}
	head := g.snake[0]
	if got := screen.Get(g.arena.X+head.X, g.arena.Y+head.Y); got != '@' {
		t.Errorf("head glyph = %q, want '@'", got)
	}
}

func TestRegistered(t *testing.T) {
	d, err := registry.ByNumber(1)
	if err != nil {
		t.Fatalf("ByNumber(1): %v", err)
	}
	if d.ID != "snake" {
		t.Errorf("game 1 = %q, want snake", d.ID)
	}
}
