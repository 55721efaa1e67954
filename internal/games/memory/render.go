package memory

import (
	"fmt"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

const (
	cellWidth  = 6 // Width of each cell (including left border)
	cellHeight = 3 // Height of each cell (including top border)
	hudHeight  = 2

	boardW = BoardSize*cellWidth + 1
	boardH = BoardSize*cellHeight + 1
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", boardW+2, boardH+hudHeight+1))
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)

	if g.gameOver {
		dst.DrawOverlay(core.ColorGreen, "ALL PAIRS FOUND", fmt.Sprintf("Score: %d  Moves: %d", g.score, g.moves))
	}
}

// renderHUD draws the score and move counters.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	dst.DrawText(boardX, 0, fmt.Sprintf("Score: %d", g.score))
	info := fmt.Sprintf("Pairs %d/%d  Moves %d", g.matches, pairCount, g.moves)
	dst.DrawText(max(boardX, boardX+boardW-len(info)), 1, info)
}

// renderBoard draws the grid and every card: face down, face up or matched.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == BoardSize:
				corner = '┐'
			case y == BoardSize && x == 0:
				corner = '└'
			case y == BoardSize && x == BoardSize:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == BoardSize:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == BoardSize:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < BoardSize {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < BoardSize {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	for y := range BoardSize {
		for x := range BoardSize {
			card := g.cards[y][x]
			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1
			mid := cellX + (cellWidth-1)/2

			switch {
			case card.Matched:
				sym := symbols[card.Symbol]
				dst.SetColor(mid, cellY, sym.glyph, core.ColorGray)
			case g.isFlipped(core.Point{X: x, Y: y}):
				sym := symbols[card.Symbol]
				dst.SetColor(mid, cellY, sym.glyph, sym.color)
			default:
				for i := range cellWidth - 1 {
					dst.SetColor(cellX+i, cellY, '░', core.ColorBlue)
					dst.SetColor(cellX+i, cellY+1, '░', core.ColorBlue)
				}
			}

			if x == g.cursorX && y == g.cursorY && !g.gameOver {
				dst.SetColor(cellX, cellY+1, '[', core.ColorYellow)
				dst.SetColor(cellX+cellWidth-2, cellY+1, ']', core.ColorYellow)
			}
		}
	}
}
