package tictactoe

import "math/rand"

// Mark is the content of a board square.
type Mark int

const (
	Empty Mark = iota
	X
	O
)

// String returns the glyph of the mark.
func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Other returns the opposing mark.
func (m Mark) Other() Mark {
	if m == X {
		return O
	}
	return X
}

// Board holds the nine squares in row-major order.
type Board [9]Mark

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

var corners = [4]int{0, 2, 6, 8}

// Winner returns the mark owning a complete line and that line.
func (b Board) Winner() (Mark, [3]int) {
	for _, l := range winLines {
		if m := b[l[0]]; m != Empty && b[l[1]] == m && b[l[2]] == m {
			return m, l
		}
	}
	return Empty, [3]int{-1, -1, -1}
}

// Full reports whether no square is empty.
func (b Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// empties lists the free squares in ascending order.
func (b Board) empties() []int {
	var out []int
	for i, m := range b {
		if m == Empty {
			out = append(out, i)
		}
	}
	return out
}

// winningMove returns a square that completes a line for m, or -1.
func (b Board) winningMove(m Mark) int {
	for _, i := range b.empties() {
		b[i] = m
		if w, _ := b.Winner(); w == m {
			return i
		}
		b[i] = Empty
	}
	return -1
}

// ChooseMove picks the computer's square: win, block, centre, a free
// corner, then any free square. Returns -1 on a full board.
func ChooseMove(b Board, me Mark, rng *rand.Rand) int {
	if i := b.winningMove(me); i >= 0 {
		return i
	}
	if i := b.winningMove(me.Other()); i >= 0 {
		return i
	}
	if b[4] == Empty {
		return 4
	}

	var free []int
	for _, c := range corners {
		if b[c] == Empty {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		free = b.empties()
	}
	if len(free) == 0 {
		return -1
	}
	return free[rng.Intn(len(free))]
}
