package snake

import "github.com/vovakirdan/pi-arcade/internal/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Level     int
	Score     int
	Combo     int
	SnakeLen  int
	Head      core.Point
	Dir       core.Dir
	Foods     int
	NormalAt  core.Point
	PowerUps  [powerUpCount]bool
	State     GameStateType
	TotalEats int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:      g.tick,
		Level:     g.level,
		Score:     g.score,
		Combo:     g.combo,
		SnakeLen:  len(g.snake),
		Dir:       g.direction,
		Foods:     len(g.foods),
		NormalAt:  core.Point{X: -1, Y: -1},
		State:     state,
		TotalEats: g.totalEaten,
	}
	if len(g.snake) > 0 {
		snap.Head = g.snake[0]
	}
	for _, f := range g.foods {
		if f.kind == FoodNormal {
			snap.NormalAt = f.pos
			break
		}
	}
	for i, left := range g.powerUps {
		snap.PowerUps[i] = left > 0
	}
	return snap
}
