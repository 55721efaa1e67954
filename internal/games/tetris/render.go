package tetris

import (
	"fmt"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

const (
	blockW     = 2 // Columns per board cell
	sidebarW   = 14
	sidebarGap = 2
)

func (g *Game) minScreen() (int, int) {
	return g.width*blockW + 2 + sidebarGap + sidebarW, g.height + 2
}

// Render draws the board, the falling piece with its landing shadow, and
// the sidebar.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		w, h := g.minScreen()
		dst.DrawOverlay(core.ColorYellow, "Screen too small", fmt.Sprintf("Need %dx%d", w, h))
		return
	}

	totalW, totalH := g.minScreen()
	left := (g.screenW - totalW) / 2
	top := (g.screenH - totalH) / 2

	dst.DrawBox(core.NewRect(left, top, g.width*blockW+2, g.height+2), core.ColorGray)
	ox, oy := left+1, top+1

	for y, row := range g.board {
		for x, v := range row {
			if v != 0 {
				drawBlock(dst, ox+x*blockW, oy+y, '█', kindColors[v-1])
			}
		}
	}

	if !g.gameOver {
		gy := g.ghostY()
		for _, c := range g.piece.Shape.Cells() {
			drawBlock(dst, ox+(g.piece.X+c.X)*blockW, oy+gy+c.Y, '░', core.ColorGray)
		}
		color := kindColors[g.piece.Kind]
		for _, c := range g.piece.Shape.Cells() {
			drawBlock(dst, ox+(g.piece.X+c.X)*blockW, oy+g.piece.Y+c.Y, '█', color)
		}
	}

	sx := left + g.width*blockW + 2 + sidebarGap
	dst.DrawTextColor(sx, top+1, "SCORE", core.ColorGray)
	dst.DrawText(sx, top+2, fmt.Sprintf("%d", g.score))
	dst.DrawTextColor(sx, top+4, "LEVEL", core.ColorGray)
	dst.DrawText(sx, top+5, fmt.Sprintf("%d", g.level))
	dst.DrawTextColor(sx, top+7, "LINES", core.ColorGray)
	dst.DrawText(sx, top+8, fmt.Sprintf("%d", g.lines))
	dst.DrawTextColor(sx, top+10, "NEXT", core.ColorGray)
	for _, c := range spawnShapes[g.next].Cells() {
		drawBlock(dst, sx+c.X*blockW, top+11+c.Y, '█', kindColors[g.next])
	}

	if g.gameOver {
		dst.DrawOverlay(core.ColorRed, "GAME OVER", fmt.Sprintf("Score: %d  Lines: %d", g.score, g.lines))
	}
}

func drawBlock(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := range blockW {
		dst.SetColor(x+i, y, r, c)
	}
}
