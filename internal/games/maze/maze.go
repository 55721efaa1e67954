package maze

import (
	"math/rand"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

// Maze is a square grid of open (true) and wall (false) cells with an
// entrance in the top wall and an exit in the bottom wall.
type Maze struct {
	Size     int
	Open     [][]bool
	Entrance core.Point
	Exit     core.Point
}

var carveDirs = [4]core.Point{{X: 0, Y: -2}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: -2, Y: 0}}

// Generate carves a perfect maze of the given odd size with a randomized
// depth-first search starting at (1,1).
func Generate(size int, rng *rand.Rand) *Maze {
	if size%2 == 0 {
		size++
	}
	m := &Maze{
		Size:     size,
		Open:     make([][]bool, size),
		Entrance: core.Point{X: 1, Y: 0},
		Exit:     core.Point{X: size - 2, Y: size - 1},
	}
	for y := range m.Open {
		m.Open[y] = make([]bool, size)
	}

	stack := []core.Point{{X: 1, Y: 1}}
	m.Open[1][1] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		dirs := carveDirs
		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

		carved := false
		for _, d := range dirs {
			next := core.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if next.X <= 0 || next.Y <= 0 || next.X >= size-1 || next.Y >= size-1 || m.Open[next.Y][next.X] {
				continue
			}
			m.Open[cur.Y+d.Y/2][cur.X+d.X/2] = true
			m.Open[next.Y][next.X] = true
			stack = append(stack, next)
			carved = true
			break
		}
		if !carved {
			stack = stack[:len(stack)-1]
		}
	}

	m.Open[m.Entrance.Y][m.Entrance.X] = true
	m.Open[m.Exit.Y][m.Exit.X] = true
	return m
}

// IsOpen reports whether p is inside the maze and not a wall.
func (m *Maze) IsOpen(p core.Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= m.Size || p.Y >= m.Size {
		return false
	}
	return m.Open[p.Y][p.X]
}

// ShortestPath returns the number of steps from the entrance to the exit,
// or -1 if the exit cannot be reached.
func (m *Maze) ShortestPath() int {
	dist := make(map[core.Point]int, m.Size*m.Size)
	dist[m.Entrance] = 0
	queue := []core.Point{m.Entrance}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == m.Exit {
			return dist[cur]
		}
		for _, d := range []core.Dir{core.DirUp, core.DirDown, core.DirLeft, core.DirRight} {
			next := cur.Add(d)
			if _, seen := dist[next]; seen || !m.IsOpen(next) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return -1
}
