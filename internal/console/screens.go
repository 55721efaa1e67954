package console

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/pi-arcade/internal/core"
)

const consoleTitle = "PI ARCADE"

// draw renders the current state into the HDMI screen.
func (c *Controller) draw() {
	s := c.screen
	s.Clear()

	switch c.state {
	case StateStartup:
		c.drawStartup(s)
	case StateMenu:
		c.drawMenu(s)
	case StateInstruction:
		c.drawInstructions(s)
	case StateGameStarting:
		if !c.renderGame(s) {
			return
		}
		s.DrawOverlay(core.ColorYellow, c.desc.Name, "", fmt.Sprintf("Starting in %d", max(c.countdownLeft(c.lastTick), 1)))
	case StateGame, StateGamePaused:
		c.renderGame(s)
	case StateGameOver:
		c.drawGameOver(s)
	case StateError:
		c.drawError(s)
	}

	if c.cfg.ShowFPS {
		fps := fmt.Sprintf("%3.0f fps", c.fps)
		s.DrawTextColor(s.Width()-len(fps), 0, fps, core.ColorGray)
	}
}

// renderGame draws the active game into its own canvas and centres that on
// the screen. A panicking Render moves the console to ERROR and redraws; the
// result reports whether the game was drawn.
func (c *Controller) renderGame(s *core.Screen) bool {
	if c.game == nil {
		return false
	}
	f := c.field
	f.Clear()
	if err := c.guard("render", func() { c.game.Render(f) }); err != nil {
		c.fail(c.lastTick, err)
		c.draw()
		return false
	}
	s.Blit(f, (s.Width()-f.Width())/2, (s.Height()-f.Height())/2)
	return true
}

func (c *Controller) drawStartup(s *core.Screen) {
	mid := s.Height() / 2
	s.DrawTextCentered(mid-2, consoleTitle, core.ColorGold)
	s.DrawTextCentered(mid, fmt.Sprintf("%d games", len(c.games)), core.ColorGray)

	total := seconds(c.cfg.Timing.StartupSeconds)
	if total <= 0 {
		return
	}
	width := min(40, s.Width()-4)
	done := int(float64(width) * min(1, float64(c.lastTick.Sub(c.entered))/float64(total)))
	bar := strings.Repeat("█", done) + strings.Repeat("░", width-done)
	s.DrawTextCentered(mid+2, bar, core.ColorGreen)
}

func (c *Controller) drawMenu(s *core.Screen) {
	s.DrawTextCentered(1, consoleTitle, core.ColorGold)
	if len(c.games) == 0 {
		s.DrawTextCentered(s.Height()/2, "No games installed", core.ColorRed)
		return
	}

	top := 4
	visible := max(s.Height()-top-3, 1)
	first := 0
	if c.selected >= visible {
		first = c.selected - visible + 1
	}
	x := max((s.Width()-40)/2, 0)
	for row := 0; row < visible && first+row < len(c.games); row++ {
		i := first + row
		d := c.games[i]
		line := fmt.Sprintf("%d. %-16s %-6s", d.Number, d.Name, d.Difficulty)
		if high := c.highs[d.ID]; high > 0 {
			line += fmt.Sprintf("  best %d", high)
		}
		if i == c.selected {
			s.DrawTextColor(x, top+row, "> "+line, core.ColorYellow)
		} else {
			s.DrawTextColor(x, top+row, "  "+line, core.ColorGray)
		}
	}

	s.DrawTextCentered(s.Height()-2, "1-9 pick  Up/Down move  A/Enter choose  Q quit", core.ColorGray)
}

func (c *Controller) drawInstructions(s *core.Screen) {
	d := c.games[c.selected]
	s.DrawTextCentered(1, d.Name, core.ColorCyan)
	s.DrawTextCentered(2, strings.ToUpper(string(d.Difficulty)), core.ColorGray)

	width := max(min(s.Width()-8, 60), 10)
	x := (s.Width() - width) / 2
	y := 4
	for _, line := range wrapText(d.Description, width) {
		s.DrawText(x, y, line)
		y++
	}

	if len(d.Controls) > 0 {
		y++
		s.DrawTextColor(x, y, "Controls", core.ColorYellow)
		y++
		for _, ctl := range d.Controls {
			s.DrawText(x+2, y, ctl)
			y++
		}
	}
	if high := c.highs[d.ID]; high > 0 {
		y++
		s.DrawTextColor(x, y, fmt.Sprintf("Best score: %d", high), core.ColorGold)
	}

	s.DrawTextCentered(s.Height()-2, "A/Enter start   B/Esc back", core.ColorGray)
}

func (c *Controller) drawGameOver(s *core.Screen) {
	r := c.result
	lines := []string{
		"GAME OVER",
		"",
		c.desc.Name,
		fmt.Sprintf("Score: %d", r.Score),
		fmt.Sprintf("Best:  %d", r.High),
	}
	if r.Rank > 0 {
		lines = append(lines, fmt.Sprintf("Rank:  #%d", r.Rank))
	}
	colour := core.ColorRed
	if r.NewHigh {
		lines = append(lines, "", "NEW HIGH SCORE!")
		colour = core.ColorGold
	}
	lines = append(lines, "", "A menu   R/Start play again")
	s.DrawOverlay(colour, lines...)
}

func (c *Controller) drawError(s *core.Screen) {
	msg := "unknown error"
	if c.err != nil {
		msg = c.err.Error()
	}
	lines := []string{"ERROR", ""}
	lines = append(lines, wrapText(msg, max(min(s.Width()-8, 60), 10))...)
	lines = append(lines, "", "Returning to the menu")
	s.DrawOverlay(core.ColorRed, lines...)
}

// wrapText splits s into lines of at most width runes, breaking on spaces.
// Words longer than width are cut.
func wrapText(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		for utf8.RuneCountInString(word) > width {
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}
		n := utf8.RuneCountInString(cur.String())
		if n > 0 && n+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
