package whackamole

import (
	"testing"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const tick = 16 * time.Millisecond

func newTestGame(seed int64) *Game {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 20, Seed: seed})
	return g
}

func upCount(g *Game) int {
	n := 0
	for _, t := range g.moles {
		if t > 0 {
			n++
		}
	}
	return n
}

func TestSpawnEverySecond(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(spawnInterval - tick))
	if upCount(g) != 0 {
		t.Fatal("mole spawned early")
	}
	g.Step(core.FrameOf(tick))
	if upCount(g) != 1 {
		t.Fatalf("moles up = %d, want 1", upCount(g))
	}
	for _, d := range g.moles {
		if d > 0 && (d < time.Second-tick || d > 2500*time.Millisecond) {
			t.Errorf("lifetime %v outside [1s, 2.5s] after one tick", d)
		}
	}
}

func TestHitScores(t *testing.T) {
	g := newTestGame(1)
	g.moles[g.hammer] = time.Second

	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.score != hitPoints || g.hits != 1 || g.combo != 1 {
		t.Errorf("score = %d hits = %d combo = %d", g.score, g.hits, g.combo)
	}
	if g.moles[g.hammer] != 0 {
		t.Error("mole should go down when hit")
	}
}

func TestComboChain(t *testing.T) {
	g := newTestGame(1)
	for range 3 {
		g.moles[g.hammer] = time.Second
		g.Step(core.FrameOf(swingTime, core.ActionFire))
	}
	// 10, 10+2*5, 10+3*5
	if want := 3*hitPoints + 2*comboPoints + 3*comboPoints; g.score != want {
		t.Errorf("score = %d, want %d", g.score, want)
	}
	if g.combo != 3 {
		t.Errorf("combo = %d, want 3", g.combo)
	}
}

func TestComboBreaksAfterWindow(t *testing.T) {
	g := newTestGame(1)
	g.moles[g.hammer] = 5 * time.Second
	g.Step(core.FrameOf(tick, core.ActionFire))

	g.moles = [holeCount]time.Duration{}
	g.spawnTimer = -10 * time.Second
	g.Step(core.FrameOf(comboWindow))
	g.moles[g.hammer] = time.Second
	g.Step(core.FrameOf(tick, core.ActionFire))

	if g.combo != 1 || g.score != 2*hitPoints {
		t.Errorf("combo = %d score = %d", g.combo, g.score)
	}
}

func TestWhiffScoresNothing(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.score != 0 || g.hits != 0 {
		t.Errorf("score = %d hits = %d", g.score, g.hits)
	}
}

func TestSwingCooldown(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(tick, core.ActionFire))
	g.moles[g.hammer] = time.Second
	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.hits != 0 {
		t.Error("second swing should wait for the first to finish")
	}
}

func TestEscapedMoleCountsMiss(t *testing.T) {
	g := newTestGame(1)
	var misses int
	g.SetSound(func(s registry.Sound) {
		if s == registry.SoundMiss {
			misses++
		}
	})
	g.moles[0] = 100 * time.Millisecond
	g.spawnTimer = -10 * time.Second
	g.Step(core.FrameOf(100 * time.Millisecond))

	if g.moles[0] != 0 || g.misses != 1 || misses != 1 {
		t.Errorf("mole = %v misses = %d sounds = %d", g.moles[0], g.misses, misses)
	}
}

func TestHammerClamped(t *testing.T) {
	g := newTestGame(1)
	for range 4 {
		g.Step(core.FrameOf(tick, core.ActionUp))
		g.Step(core.FrameOf(tick, core.ActionRight))
	}
	if g.hammer != 2 {
		t.Errorf("hammer = %d, want 2", g.hammer)
	}
}

func TestTimeUp(t *testing.T) {
	g := newTestGame(1)
	for range 59 {
		g.Step(core.FrameOf(time.Second))
	}
	if g.State().GameOver {
		t.Fatal("game ended early")
	}
	g.Step(core.FrameOf(time.Second))
	if !g.State().GameOver {
		t.Error("expected game over after 60 s")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() [holeCount]time.Duration {
		g := newTestGame(21)
		for i := range 600 {
			in := core.FrameOf(tick)
			if i%7 == 0 {
				in.Set(core.ActionFire)
			}
			if i%50 == 0 {
				in.Set(core.ActionLeft)
			}
			g.Step(in)
		}
		return g.moles
	}
	if a, b := run(), run(); a != b {
		t.Errorf("runs differ: %v vs %v", a, b)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	g := newTestGame(1)
	for range 200 {
		g.Step(core.FrameOf(tick, core.ActionFire))
	}
	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 20, Seed: 1})
	if upCount(g) != 0 || g.score != 0 || g.clock != 0 || g.hammer != 4 {
		t.Error("reset did not restore the initial state")
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(tick, core.ActionPause))
	g.Step(core.FrameOf(10 * time.Second))
	if g.clock != 0 {
		t.Error("timer ran while paused")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(1)
	g.moles[0] = time.Second
	screen := core.NewScreen(40, 20)
	g.Render(screen)
	for _, want := range []string{"Score: 0", "Time: 60", "(o.o)", "(_____)"} {
		if !screen.Contains(want) {
			t.Errorf("render missing %q", want)
		}
	}
}
