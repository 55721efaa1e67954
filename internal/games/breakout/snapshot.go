package breakout

// Snapshot contains the complete game state for determinism checks.
// Uses primitive types only for stable comparison.
type Snapshot struct {
	PaddleX         int
	PaddleWidth     int
	Score           int
	Lives           int
	Level           int
	BricksRemaining int
	State           string
	BallX, BallY    int
	BallVX, BallVY  int
	BallStuck       bool

	// Brick states (flattened: row*cols + col = index), 1 = alive
	BrickData []int
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	brickData := make([]int, 0, g.wall.Rows*g.wall.Cols)
	for _, row := range g.wall.Bricks {
		for _, b := range row {
			if b.Alive {
				brickData = append(brickData, 1)
			} else {
				brickData = append(brickData, 0)
			}
		}
	}

	return Snapshot{
		PaddleX:         int(g.paddle.X),
		PaddleWidth:     g.paddle.Width,
		Score:           g.score,
		Lives:           g.lives,
		Level:           g.level,
		BricksRemaining: g.wall.CountAlive(),
		State:           g.state,
		BallX:           int(g.ball.X),
		BallY:           int(g.ball.Y),
		BallVX:          int(g.ball.VX),
		BallVY:          int(g.ball.VY),
		BallStuck:       g.ball.Stuck,
		BrickData:       brickData,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(17)
	for _, v := range []int{
		snap.PaddleX, snap.PaddleWidth, snap.Score, snap.Lives, snap.Level,
		snap.BricksRemaining, snap.BallX, snap.BallY, snap.BallVX, snap.BallVY,
	} {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	for _, c := range snap.State {
		h = h*31 + uint64(c)
	}
	if snap.BallStuck {
		h = h*31 + 1
	}
	for _, v := range snap.BrickData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	return h
}
