// Package core provides fundamental types and utilities for the console.
// It has no peripheral or terminal dependencies so game logic stays pure and
// testable.
package core

// Rect represents an axis-aligned bounding box used for layout and collisions.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another (AABB).
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Add returns the point moved by d.
func (p Point) Add(d Dir) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Dir is a unit step on the grid.
type Dir struct {
	DX, DY int
}

// Grid directions.
var (
	DirNone  = Dir{}
	DirUp    = Dir{DX: 0, DY: -1}
	DirDown  = Dir{DX: 0, DY: 1}
	DirLeft  = Dir{DX: -1, DY: 0}
	DirRight = Dir{DX: 1, DY: 0}
)

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	return Dir{DX: -d.DX, DY: -d.DY}
}

// String returns a short name for the direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DirFromInput returns the first direction held in the frame, checked in
// up/down/left/right order, or DirNone.
func DirFromInput(in InputFrame) Dir {
	switch {
	case in.IsHeld(ActionUp):
		return DirUp
	case in.IsHeld(ActionDown):
		return DirDown
	case in.IsHeld(ActionLeft):
		return DirLeft
	case in.IsHeld(ActionRight):
		return DirRight
	}
	return DirNone
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Wrap maps i into [0, n) modulo n, for both negative and positive i.
// Returns 0 when n is not positive.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
