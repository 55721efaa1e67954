package tetris

import "github.com/vovakirdan/pi-arcade/internal/core"

// Shape is a piece in a 4x4 box, row-major.
type Shape [4][4]bool

// Kind identifies one of the seven tetrominoes.
type Kind int

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
	kindCount
)

var kindNames = [kindCount]string{"I", "J", "L", "O", "S", "T", "Z"}

// String returns the letter of the piece.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "?"
	}
	return kindNames[k]
}

var kindColors = [kindCount]core.Color{
	core.ColorCyan,
	core.ColorBlue,
	core.ColorOrange,
	core.ColorYellow,
	core.ColorGreen,
	core.ColorMagenta,
	core.ColorRed,
}

var spawnShapes = [kindCount]Shape{
	parseShape("....", "####", "....", "...."),
	parseShape("#...", "###.", "....", "...."),
	parseShape("..#.", "###.", "....", "...."),
	parseShape(".##.", ".##.", "....", "...."),
	parseShape(".##.", "##..", "....", "...."),
	parseShape(".#..", "###.", "....", "...."),
	parseShape("##..", ".##.", "....", "...."),
}

func parseShape(rows ...string) Shape {
	var s Shape
	for y, row := range rows {
		for x, c := range row {
			s[y][x] = c == '#'
		}
	}
	return s
}

// Rotate returns the shape turned 90 degrees clockwise inside its box.
// The O piece is returned unchanged so it does not wobble.
func (s Shape) Rotate(k Kind) Shape {
	if k == KindO {
		return s
	}
	n := 3
	if k == KindI {
		n = 4
	}
	var r Shape
	for y := range n {
		for x := range n {
			r[x][n-1-y] = s[y][x]
		}
	}
	return r
}

// Cells returns the occupied offsets of the shape.
func (s Shape) Cells() []core.Point {
	cells := make([]core.Point, 0, 4)
	for y := range 4 {
		for x := range 4 {
			if s[y][x] {
				cells = append(cells, core.Point{X: x, Y: y})
			}
		}
	}
	return cells
}

// Piece is the falling tetromino.
type Piece struct {
	Kind  Kind
	Shape Shape
	X, Y  int // Board position of the box's top-left corner
}
