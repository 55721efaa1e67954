package breakout

import (
	"math"
	"time"
)

// Fixed-point scale factor: 1 cell = 1000 units.
// This allows for sub-cell precision while maintaining determinism.
const Scale = 1000

// Fixed represents a fixed-point integer (scaled by Scale).
type Fixed int

// ToFixed converts a cell coordinate to fixed-point.
func ToFixed(cell int) Fixed {
	return Fixed(cell * Scale)
}

// FromFloat converts a float cell value to fixed-point.
func FromFloat(v float64) Fixed {
	return Fixed(math.Round(v * Scale))
}

// ToCell converts fixed-point to cell coordinate (floored).
func (f Fixed) ToCell() int {
	if f < 0 {
		return (int(f) - Scale + 1) / Scale
	}
	return int(f) / Scale
}

// Abs returns absolute value.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Sign returns -1, 0, or 1.
func (f Fixed) Sign() int {
	if f < 0 {
		return -1
	}
	if f > 0 {
		return 1
	}
	return 0
}

// Scaled returns the distance covered in dt at a rate of f per second.
func (f Fixed) Scaled(dt time.Duration) Fixed {
	return Fixed(int64(f) * int64(dt) / int64(time.Second))
}

// Ball represents the ball state with fixed-point coordinates.
type Ball struct {
	X, Y   Fixed // Position
	VX, VY Fixed // Velocity per second
	Stuck  bool  // Waiting on the paddle for launch
}

// CellX returns the ball's X position in cell coordinates.
func (b *Ball) CellX() int {
	return b.X.ToCell()
}

// CellY returns the ball's Y position in cell coordinates.
func (b *Ball) CellY() int {
	return b.Y.ToCell()
}

// SetVelocity sets a velocity of the given speed at angle radians from
// straight up; positive angles point right.
func (b *Ball) SetVelocity(speed Fixed, angle float64) {
	b.VX = Fixed(math.Round(float64(speed) * math.Sin(angle)))
	b.VY = -Fixed(math.Round(float64(speed) * math.Cos(angle)))
}

// Paddle represents the player's paddle.
type Paddle struct {
	X     Fixed // Left edge position (fixed-point)
	Y     int   // Cell Y position (fixed row at bottom)
	Width int   // Width in cells
}

// CellX returns paddle's left edge in cell coordinates.
func (p *Paddle) CellX() int {
	return p.X.ToCell()
}

// CenterX returns paddle's center in fixed-point.
func (p *Paddle) CenterX() Fixed {
	return p.X + ToFixed(p.Width)/2
}

// Right returns right edge in fixed-point.
func (p *Paddle) Right() Fixed {
	return p.X + ToFixed(p.Width)
}

// CollisionSide indicates which side of an object was hit.
type CollisionSide int

const (
	CollisionNone CollisionSide = iota
	CollisionTop
	CollisionBottom
	CollisionLeft
	CollisionRight
)

// Field is the playable area in cells: [Left, Right) x [Top, Bottom).
type Field struct {
	Left, Right, Top, Bottom int
}

// CheckWallCollision bounces the ball off the field walls.
// Returns whether the ball fell below the bottom edge.
func CheckWallCollision(ball *Ball, f Field) (bounced, fellOff bool) {
	if ball.X < ToFixed(f.Left) {
		ball.X = ToFixed(f.Left)
		ball.VX = ball.VX.Abs()
		bounced = true
	}
	if ball.X >= ToFixed(f.Right) {
		ball.X = ToFixed(f.Right) - 1
		ball.VX = -ball.VX.Abs()
		bounced = true
	}
	if ball.Y < ToFixed(f.Top) {
		ball.Y = ToFixed(f.Top)
		ball.VY = ball.VY.Abs()
		bounced = true
	}
	if ball.Y >= ToFixed(f.Bottom) {
		return bounced, true
	}
	return bounced, false
}

// CheckPaddleCollision checks if the ball hits the paddle and, if so, sends
// it back up at an angle given by the hit position: the centre returns the
// ball straight up, the edges at maxAngle.
func CheckPaddleCollision(ball *Ball, paddle *Paddle, speed Fixed, maxAngle float64) bool {
	// Ball must be moving downward and at paddle's Y level
	if ball.VY <= 0 || ball.CellY() != paddle.Y {
		return false
	}
	if ball.X < paddle.X || ball.X > paddle.Right() {
		return false
	}

	half := float64(ToFixed(paddle.Width)) / 2
	hit := 0.0
	if half > 0 {
		hit = float64(ball.X-paddle.CenterX()) / half
	}
	hit = math.Max(-1, math.Min(1, hit))

	ball.SetVelocity(speed, hit*maxAngle)
	// Never leave the paddle perfectly horizontal
	if ball.VY > -speed/4 {
		ball.VY = -speed / 4
	}
	ball.Y = ToFixed(paddle.Y) - 1
	return true
}

// CheckBrickCollision checks if ball is inside a live brick.
// Returns the brick coordinates (row, col) and collision side, or
// (-1, -1, CollisionNone) if no hit.
func CheckBrickCollision(ball *Ball, wall *Wall) (row, col int, side CollisionSide) {
	row, col = wall.BrickAt(ball.CellX(), ball.CellY())
	if row < 0 {
		return -1, -1, CollisionNone
	}

	left, top := wall.Origin(row, col)
	right := left + wall.BrickW
	bottom := top + 1

	distLeft := (ball.X - ToFixed(left)).Abs()
	distRight := (ball.X - ToFixed(right)).Abs()
	distTop := (ball.Y - ToFixed(top)).Abs()
	distBottom := (ball.Y - ToFixed(bottom)).Abs()

	minHoriz, horizSide := distLeft, CollisionLeft
	if distRight < minHoriz {
		minHoriz, horizSide = distRight, CollisionRight
	}
	minVert, vertSide := distTop, CollisionTop
	if distBottom < minVert {
		minVert, vertSide = distBottom, CollisionBottom
	}

	// Prefer vertical bounce if ball is moving mostly vertically
	if ball.VY.Abs() > ball.VX.Abs() || minVert <= minHoriz {
		return row, col, vertSide
	}
	return row, col, horizSide
}

// ApplyCollisionBounce applies the appropriate bounce based on collision side.
func ApplyCollisionBounce(ball *Ball, side CollisionSide) {
	switch side {
	case CollisionTop:
		ball.VY = -ball.VY.Abs()
	case CollisionBottom:
		ball.VY = ball.VY.Abs()
	case CollisionLeft:
		ball.VX = -ball.VX.Abs()
	case CollisionRight:
		ball.VX = ball.VX.Abs()
	}
}

// ClampFixed restricts a value to [minVal, maxVal].
func ClampFixed(val, minVal, maxVal Fixed) Fixed {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
