package tetris

import (
	"fmt"
	"testing"
	"time"

	"github.com/vovakirdan/pi-arcade/internal/config"
	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
)

const tick = 16 * time.Millisecond

func newTestGame(seed int64) *Game {
	g := NewWithConfig(config.DefaultTetrisConfig())
	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 24, Seed: seed})
	return g
}

// fillRow fills board row y except the listed columns.
func fillRow(g *Game, y int, holes ...int) {
	for x := range g.width {
		g.board[y][x] = 1
	}
	for _, x := range holes {
		g.board[y][x] = 0
	}
}

func setPiece(g *Game, k Kind, x, y int, rotations int) {
	s := spawnShapes[k]
	for range rotations {
		s = s.Rotate(k)
	}
	g.piece = Piece{Kind: k, Shape: s, X: x, Y: y}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for k := range kindCount {
		s := spawnShapes[k]
		r := s
		for range 4 {
			r = r.Rotate(k)
		}
		if r != s {
			t.Errorf("%v: four rotations changed the shape", k)
		}
		if len(s.Rotate(k).Cells()) != 4 {
			t.Errorf("%v: rotation lost cells", k)
		}
	}
}

func TestDropInterval(t *testing.T) {
	tests := []struct {
		level int
		want  time.Duration
	}{
		{1, time.Second},
		{2, 950 * time.Millisecond},
		{10, 550 * time.Millisecond},
		{30, 100 * time.Millisecond},
	}
	g := newTestGame(1)
	for _, tt := range tests {
		g.level = tt.level
		got := g.dropInterval()
		if d := got - tt.want; d < -time.Millisecond || d > time.Millisecond {
			t.Errorf("level %d: interval = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSpawnPosition(t *testing.T) {
	g := newTestGame(1)
	if g.piece.X != g.width/2-2 || g.piece.Y != 0 {
		t.Errorf("piece at (%d,%d)", g.piece.X, g.piece.Y)
	}
}

func TestGravity(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(time.Second - tick))
	if g.piece.Y != 0 {
		t.Fatal("piece fell early")
	}
	g.Step(core.FrameOf(tick))
	if g.piece.Y != 1 {
		t.Errorf("piece y = %d, want 1", g.piece.Y)
	}
}

func TestMoveAndRepeat(t *testing.T) {
	g := newTestGame(1)
	setPiece(g, KindO, 4, 0, 0)

	g.Step(core.FrameOf(tick, core.ActionLeft))
	if g.piece.X != 3 {
		t.Fatalf("x = %d after press, want 3", g.piece.X)
	}

	held := core.NewInputFrame()
	held.Hold(core.ActionLeft)
	held.Delta = tick
	g.Step(held)
	if g.piece.X != 3 {
		t.Error("held move repeated before the delay")
	}
	held.Delta = seconds(g.cfg.Controls.MoveRepeat)
	g.Step(held)
	if g.piece.X != 2 {
		t.Errorf("x = %d after repeat, want 2", g.piece.X)
	}
}

func TestWallStopsMove(t *testing.T) {
	g := newTestGame(1)
	setPiece(g, KindO, -1, 0, 0) // O occupies box columns 1-2
	g.Step(core.FrameOf(tick, core.ActionLeft))
	if g.piece.X != -1 {
		t.Errorf("x = %d, piece went through the wall", g.piece.X)
	}
}

func TestWallKick(t *testing.T) {
	g := newTestGame(1)
	setPiece(g, KindI, -2, 5, 1) // vertical I in column 0
	if g.collides(g.piece) {
		t.Fatal("setup collides")
	}

	g.Step(core.FrameOf(tick, core.ActionRotate))
	if g.piece.X != 0 {
		t.Errorf("x = %d after kick, want 0", g.piece.X)
	}
	if want := spawnShapes[KindI].Rotate(KindI).Rotate(KindI); g.piece.Shape != want {
		t.Error("piece did not rotate")
	}
}

func TestSoftDrop(t *testing.T) {
	g := newTestGame(1)
	held := core.NewInputFrame()
	held.Hold(core.ActionDown)
	held.Delta = 100 * time.Millisecond
	g.Step(held)

	if g.piece.Y != 1 || g.score != softDropPoints {
		t.Errorf("y = %d score = %d", g.piece.Y, g.score)
	}
}

func TestHardDropLocks(t *testing.T) {
	g := newTestGame(1)
	setPiece(g, KindO, 3, 0, 0)

	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.board[g.height-1][4] == 0 || g.board[g.height-2][5] == 0 {
		t.Error("piece not locked on the floor")
	}
	if want := (g.height - 2) * hardDropPoints; g.score != want {
		t.Errorf("score = %d, want %d", g.score, want)
	}
	if g.piece.Y != 0 {
		t.Error("next piece not spawned")
	}
}

func TestSingleLineClear(t *testing.T) {
	g := newTestGame(1)
	fillRow(g, g.height-1, 3, 4, 5, 6)
	setPiece(g, KindI, 3, 0, 0)

	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.lines != 1 {
		t.Fatalf("lines = %d, want 1", g.lines)
	}
	if want := (g.height-2)*hardDropPoints + 100; g.score != want {
		t.Errorf("score = %d, want %d", g.score, want)
	}
	for x := range g.width {
		if g.board[g.height-1][x] != 0 {
			t.Fatalf("bottom row not cleared: %v", g.board[g.height-1])
		}
	}
}

func TestFourLineClear(t *testing.T) {
	g := newTestGame(1)
	for y := g.height - 4; y < g.height; y++ {
		fillRow(g, y, 0)
	}
	g.board[g.height-5][5] = 1
	setPiece(g, KindI, -2, 0, 1)

	var sounds []registry.Sound
	g.SetSound(func(s registry.Sound) { sounds = append(sounds, s) })
	g.Step(core.FrameOf(tick, core.ActionFire))

	if g.lines != 4 {
		t.Fatalf("lines = %d, want 4", g.lines)
	}
	if want := (g.height-4)*hardDropPoints + 800; g.score != want {
		t.Errorf("score = %d, want %d", g.score, want)
	}
	if g.board[g.height-1][5] != 1 {
		t.Error("rows above the cleared lines should fall")
	}
	found := false
	for _, s := range sounds {
		found = found || s == registry.SoundWin
	}
	if !found {
		t.Errorf("sounds = %v, want a win fanfare", sounds)
	}
}

func TestLevelMultiplierAndLevelUp(t *testing.T) {
	g := newTestGame(1)
	g.level = 3
	g.lines = 29
	fillRow(g, g.height-1, 3, 4, 5, 6)
	setPiece(g, KindI, 3, g.height-2, 0)

	g.Step(core.FrameOf(tick, core.ActionFire))
	if g.score != 300 {
		t.Errorf("score = %d, want 300", g.score)
	}
	if g.level != 4 {
		t.Errorf("level = %d, want 4", g.level)
	}
}

func TestBlockedSpawnEndsGame(t *testing.T) {
	g := newTestGame(1)
	fillRow(g, 1)
	g.spawn()
	if !g.State().GameOver {
		t.Error("expected game over")
	}
}

func snapshot(g *Game) string {
	return fmt.Sprintf("%v|%+v|%d|%d|%d", g.board, g.piece, g.next, g.score, g.lines)
}

func TestDeterminism(t *testing.T) {
	run := func() string {
		g := newTestGame(42)
		for i := range 2000 {
			in := core.FrameOf(tick)
			switch i % 40 {
			case 3:
				in.Set(core.ActionLeft)
			case 9:
				in.Set(core.ActionRotate)
			case 17:
				in.Set(core.ActionRight)
			case 31:
				in.Set(core.ActionFire)
			}
			g.Step(in)
		}
		return snapshot(g)
	}
	if a, b := run(), run(); a != b {
		t.Error("runs differ")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	g := newTestGame(5)
	initial := snapshot(g)
	for range 20 {
		g.Step(core.FrameOf(tick, core.ActionFire))
	}
	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 24, Seed: 5})
	if got := snapshot(g); got != initial {
		t.Error("reset did not restore the initial state")
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.FrameOf(tick, core.ActionPause))
	g.Step(core.FrameOf(5*time.Second, core.ActionFire))
	if g.piece.Y != 0 || g.score != 0 {
		t.Error("game advanced while paused")
	}
	if !g.State().Paused {
		t.Error("expected paused")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(1)
	screen := core.NewScreen(40, 24)
	g.Render(screen)
	for _, want := range []string{"SCORE", "LEVEL", "LINES", "NEXT", "██", "░░"} {
		if !screen.Contains(want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestTooSmall(t *testing.T) {
	g := NewWithConfig(config.DefaultTetrisConfig())
	g.Reset(core.RuntimeConfig{ScreenW: 30, ScreenH: 15, Seed: 1})
	screen := core.NewScreen(30, 15)
	g.Render(screen)
	if !screen.Contains("too small") {
		t.Error("expected too small message")
	}
}
