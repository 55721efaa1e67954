package reaction

import (
	"testing"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const tick = 10 * time.Millisecond

func newTestGame(seed int64) *Game {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 20, Seed: seed})
	return g
}

// toSignal idles until the signal shows.
func toSignal(t *testing.T, g *Game) {
	t.Helper()
	for range int(maxWait/tick) + 2 {
		if g.phase == phaseSignal {
			return
		}
		g.Step(core.FrameOf(tick))
	}
	t.Fatal("signal never appeared")
}

// react waits for the signal and presses after d.
func react(t *testing.T, g *Game, d time.Duration) {
	t.Helper()
	toSignal(t, g)
	g.Step(core.FrameOf(d, core.ActionFire))
	g.Step(core.FrameOf(resultTime))
}

func TestWaitWithinBounds(t *testing.T) {
	for seed := range int64(50) {
		g := newTestGame(seed)
		if g.wait < minWait || g.wait > maxWait {
			t.Fatalf("seed %d: wait = %v", seed, g.wait)
		}
	}
}

func TestSignalAfterWait(t *testing.T) {
	g := newTestGame(1)
	var sounds []registry.Sound
	g.SetSound(func(s registry.Sound) { sounds = append(sounds, s) })

	g.Step(core.FrameOf(g.wait - tick))
	if g.phase != phaseWaiting {
		t.Fatal("signal shown early")
	}
	g.Step(core.FrameOf(tick))
	if g.phase != phaseSignal {
		t.Fatal("signal not shown")
	}
	if len(sounds) != 1 || sounds[0] != registry.SoundSignal {
		t.Errorf("sounds = %v", sounds)
	}
}

func TestReactionRecorded(t *testing.T) {
	g := newTestGame(1)
	toSignal(t, g)
	g.Step(core.FrameOf(250*time.Millisecond, core.ActionFire))

	if len(g.times) != 1 || g.times[0] != 250*time.Millisecond {
		t.Fatalf("times = %v", g.times)
	}
	if g.phase != phaseResult {
		t.Error("expected result phase")
	}
	if g.State().Score != scoreBase-250 {
		t.Errorf("score = %d", g.State().Score)
	}

	g.Step(core.FrameOf(resultTime))
	if g.phase != phaseWaiting {
		t.Error("next trial did not start")
	}
}

func TestEarlyPress(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.phase != phaseEarly || g.early != 1 {
		t.Fatalf("phase = %v early = %d", g.phase, g.early)
	}
	if len(g.times) != 0 {
		t.Error("early press must not use up a trial")
	}

	g.Step(core.FrameOf(resultTime))
	react(t, g, 300*time.Millisecond)
	if want := scoreBase - 300 - earlyPenalty; g.State().Score != want {
		t.Errorf("score = %d, want %d", g.State().Score, want)
	}
}

func TestTimeoutCountsAsSlow(t *testing.T) {
	g := newTestGame(1)
	toSignal(t, g)
	g.Step(core.FrameOf(timeout))
	if len(g.times) != 1 || g.times[0] != timeout {
		t.Errorf("times = %v", g.times)
	}
}

func TestFiveTrialsEndGame(t *testing.T) {
	g := newTestGame(3)
	reactions := []time.Duration{200, 300, 250, 350, 400}
	for _, ms := range reactions {
		react(t, g, ms*time.Millisecond)
	}

	if !g.State().GameOver {
		t.Fatal("expected game over after five trials")
	}
	if g.Average() != 300*time.Millisecond {
		t.Errorf("average = %v", g.Average())
	}
	if g.Best() != 200*time.Millisecond {
		t.Errorf("best = %v", g.Best())
	}
	if g.State().Score != 700 {
		t.Errorf("score = %d, want 700", g.State().Score)
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		avg  time.Duration
		want string
	}{
		{150 * time.Millisecond, "Lightning fast!"},
		{250 * time.Millisecond, "Very good"},
		{350 * time.Millisecond, "Good"},
		{450 * time.Millisecond, "Average"},
		{time.Second, "Keep practising"},
	}
	for _, tt := range tests {
		if got := Rating(tt.avg); got != tt.want {
			t.Errorf("Rating(%v) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}

func TestScoreNeverNegative(t *testing.T) {
	g := newTestGame(1)
	g.times = []time.Duration{timeout}
	g.early = 10
	if g.State().Score != 0 {
		t.Errorf("score = %d", g.State().Score)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	g := newTestGame(9)
	wait := g.wait
	react(t, g, 200*time.Millisecond)
	g.Step(core.FrameOf(tick, core.ActionFire))

	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 20, Seed: 9})
	if len(g.times) != 0 || g.early != 0 || g.phase != phaseWaiting || g.wait != wait {
		t.Error("reset did not restore the initial state")
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(tick, core.ActionPause))
	g.Step(core.FrameOf(maxWait))
	if g.phase != phaseWaiting || g.timer != 0 {
		t.Error("timer ran while paused")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(1)
	screen := core.NewScreen(40, 20)
	g.Render(screen)
	if !screen.Contains("Wait for green") || !screen.Contains("Trial 1/5") {
		t.Error("waiting screen not drawn")
	}

	toSignal(t, g)
	g.Render(screen)
	if !screen.Contains("PRESS A!") {
		t.Error("signal screen not drawn")
	}
}
