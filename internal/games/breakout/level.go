// Package breakout implements a brick breaker game.
package breakout

import "github.com/vovakirdan/pi-arcade/internal/core"

// rowColors cycles over the brick rows, top first.
var rowColors = []core.Color{core.ColorRed, core.ColorOrange, core.ColorYellow, core.ColorGreen, core.ColorBlue}

// Brick represents a single brick in the wall.
type Brick struct {
	Points int  // Points awarded when destroyed
	Alive  bool // Whether brick is still present
	Color  core.Color
}

// Wall is the brick grid with its placement on screen.
type Wall struct {
	Rows, Cols int
	Left, Top  int // Screen cell of the top-left brick
	BrickW     int // Width of each brick in cells; bricks are one row high
	Bricks     [][]Brick
}

// NewWall lays out rows x cols bricks across fieldWidth cells starting at
// (left, top). Points are assigned per row, top first; rows past the end of
// points reuse the last value.
func NewWall(rows, cols, left, top, fieldWidth int, points []int) *Wall {
	brickW := max(fieldWidth/max(cols, 1), 2)
	w := &Wall{
		Rows:   rows,
		Cols:   cols,
		Left:   left + (fieldWidth-brickW*cols)/2,
		Top:    top,
		BrickW: brickW,
		Bricks: make([][]Brick, rows),
	}
	for r := range rows {
		pts := 10
		if len(points) > 0 {
			pts = points[min(r, len(points)-1)]
		}
		w.Bricks[r] = make([]Brick, cols)
		for c := range cols {
			w.Bricks[r][c] = Brick{Points: pts, Alive: true, Color: rowColors[r%len(rowColors)]}
		}
	}
	return w
}

// Origin returns the screen cell of a brick's top-left corner.
func (w *Wall) Origin(row, col int) (x, y int) {
	return w.Left + col*w.BrickW, w.Top + row
}

// BrickAt returns the live brick covering screen cell (x, y), or (-1, -1).
func (w *Wall) BrickAt(x, y int) (row, col int) {
	row = y - w.Top
	if x < w.Left || row < 0 || row >= w.Rows {
		return -1, -1
	}
	col = (x - w.Left) / w.BrickW
	if col >= w.Cols || !w.Bricks[row][col].Alive {
		return -1, -1
	}
	return row, col
}

// CountAlive returns the number of remaining bricks.
func (w *Wall) CountAlive() int {
	count := 0
	for _, row := range w.Bricks {
		for _, b := range row {
			if b.Alive {
				count++
			}
		}
	}
	return count
}
