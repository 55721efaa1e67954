package hw

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Panel colours.
var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Blue   = color.RGBA{0, 0, 255, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
	Cyan   = color.RGBA{0, 255, 255, 255}
	Gray   = color.RGBA{128, 128, 128, 255}
)

const (
	lineH      = 16 // Row pitch of basicfont text
	margin     = 10
	headerLine = 45 // y of the rule under titles
)

// FrameSink receives finished frames.
type FrameSink interface {
	Flush(img *image.RGBA) error
	Close() error
}

// Dimmer is implemented by sinks with a controllable backlight.
type Dimmer interface {
	SetBrightness(percent int) error
}

// Panel draws the console screens of the small display: menu, instructions,
// countdown, game over and messages. Each screen is a full-frame redraw;
// a frame identical to the previous one is not sent again.
type Panel struct {
	mu     sync.Mutex
	img    *image.RGBA
	last   []byte
	sink   FrameSink
	logger *log.Logger
	face   font.Face
	sent   int
}

// NewPanel creates a panel of the given pixel size.
func NewPanel(w, h int, sink FrameSink, logger *log.Logger) *Panel {
	return &Panel{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		sink:   sink,
		logger: logger,
		face:   basicfont.Face7x13,
	}
}

// Size returns the panel size in pixels.
func (p *Panel) Size() (int, int) {
	b := p.img.Bounds()
	return b.Dx(), b.Dy()
}

// Sent returns how many frames reached the sink.
func (p *Panel) Sent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

// Frame returns a copy of the current frame.
func (p *Panel) Frame() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := image.NewRGBA(p.img.Bounds())
	copy(cp.Pix, p.img.Pix)
	return cp
}

// MenuEntry is one line of the menu screen.
type MenuEntry struct {
	Number int
	Name   string
}

// ShowMenu lists the games with the selected one highlighted. The list
// scrolls to keep the selection visible.
func (p *Panel) ShowMenu(entries []MenuEntry, selected int) error {
	return p.frame(func() {
		w, h := p.Size()
		p.centered("GAME MENU", 30, White)
		p.rule(headerLine)

		top := headerLine + 10
		visible := max(1, (h-top-lineH*2)/(lineH+4))
		start := 0
		if selected >= visible {
			start = selected - visible + 1
		}
		for i := start; i < len(entries) && i < start+visible; i++ {
			y := top + (i-start)*(lineH+4)
			fg := White
			if i == selected {
				p.fill(image.Rect(margin-4, y, w-margin, y+lineH+2), Blue)
				fg = Yellow
			}
			p.text(fmt.Sprintf("%d. %s", entries[i].Number, entries[i].Name), margin, y+lineH-3, fg)
		}

		if len(entries) > visible {
			track := image.Rect(w-6, top, w-2, top+visible*(lineH+4))
			p.fill(track, Gray)
			barH := max(4, track.Dy()*visible/len(entries))
			barY := track.Min.Y + (track.Dy()-barH)*start/max(1, len(entries)-visible)
			p.fill(image.Rect(track.Min.X, barY, track.Max.X, barY+barH), Yellow)
		}

		p.centered("1-9 select  A start", h-8, Green)
	})
}

// ShowInstructions shows a game's description and controls.
func (p *Panel) ShowInstructions(title, description string, controls []string) error {
	return p.frame(func() {
		w, h := p.Size()
		p.centered(title, 30, Yellow)
		p.rule(headerLine)

		y := headerLine + 20
		p.text("How to play:", margin, y, Cyan)
		y += lineH
		for _, line := range p.wrap(description, w-2*margin) {
			p.text(line, margin, y, White)
			y += lineH
		}

		y += lineH / 2
		p.text("Controls:", margin, y, Cyan)
		y += lineH
		for _, c := range controls {
			if y > h-lineH*2 {
				break
			}
			p.text(c, margin, y, Green)
			y += lineH
		}

		p.centered("A: start   D: back", h-8, Yellow)
	})
}

// ShowCountdown shows a big countdown digit, or GO! at zero.
func (p *Panel) ShowCountdown(n int) error {
	return p.frame(func() {
		w, h := p.Size()
		label, c := fmt.Sprint(n), Yellow
		if n <= 0 {
			label, c = "GO!", Green
		}
		// basicfont has one size; scale by drawing into a small image.
		small := image.NewRGBA(image.Rect(0, 0, 7*len(label), 13))
		d := font.Drawer{Dst: small, Src: image.NewUniform(c), Face: p.face, Dot: fixed.P(0, 11)}
		d.DrawString(label)
		scale := 6
		ox := (w - small.Bounds().Dx()*scale) / 2
		oy := (h - small.Bounds().Dy()*scale) / 2
		for y := range small.Bounds().Dy() {
			for x := range small.Bounds().Dx() {
				if _, _, _, a := small.At(x, y).RGBA(); a == 0 {
					continue
				}
				r := image.Rect(ox+x*scale, oy+y*scale, ox+(x+1)*scale, oy+(y+1)*scale)
				p.fill(r, c)
			}
		}
	})
}

// ShowGameOver shows the final score and the best score of the game.
func (p *Panel) ShowGameOver(title string, score, high int, newHigh bool) error {
	return p.frame(func() {
		_, h := p.Size()
		p.centered("GAME OVER", 40, Red)
		p.rule(headerLine + 10)
		p.centered(title, 80, White)
		p.centered(fmt.Sprintf("Score: %d", score), 115, Yellow)
		if newHigh {
			p.centered("NEW HIGH SCORE!", 145, Green)
		} else {
			p.centered(fmt.Sprintf("Best: %d", high), 145, Cyan)
		}
		p.centered("A: menu", h-20, White)
	})
}

// ShowMessage shows a titled message.
func (p *Panel) ShowMessage(title, message string, titleColor color.RGBA) error {
	return p.frame(func() {
		w, _ := p.Size()
		p.centered(title, 70, titleColor)
		p.rule(90)
		y := 120
		for _, line := range p.wrap(message, w-4*margin) {
			p.centered(line, y, White)
			y += lineH
		}
	})
}

// ShowLoading shows a message and a progress bar; percent < 0 hides the bar.
func (p *Panel) ShowLoading(message string, percent int) error {
	return p.frame(func() {
		w, h := p.Size()
		p.centered(message, h/2-20, White)
		if percent < 0 {
			return
		}
		percent = min(percent, 100)
		bar := image.Rect(20, h/2, w-20, h/2+20)
		p.fill(bar, White)
		p.fill(bar.Inset(2), Black)
		fillW := (bar.Dx() - 4) * percent / 100
		p.fill(image.Rect(bar.Min.X+2, bar.Min.Y+2, bar.Min.X+2+fillW, bar.Max.Y-2), Green)
		p.centered(fmt.Sprintf("%d%%", percent), h/2+40, White)
	})
}

// Clear blanks the panel.
func (p *Panel) Clear() error {
	return p.frame(func() {})
}

// SetBrightness forwards to the sink when it has a backlight.
func (p *Panel) SetBrightness(percent int) error {
	if d, ok := p.sink.(Dimmer); ok {
		return d.SetBrightness(max(0, min(100, percent)))
	}
	return nil
}

// Close blanks the panel and closes the sink.
func (p *Panel) Close() error {
	p.Clear()
	return p.sink.Close()
}

// frame clears the canvas, runs draw and flushes the result if it changed.
func (p *Panel) frame(drawFn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
	drawFn()

	if p.last != nil && bytes.Equal(p.last, p.img.Pix) {
		return nil
	}
	if err := p.sink.Flush(p.img); err != nil {
		return fmt.Errorf("hw: display: %w", err)
	}
	p.last = append(p.last[:0], p.img.Pix...)
	p.sent++
	return nil
}

func (p *Panel) text(s string, x, baseline int, c color.Color) {
	d := font.Drawer{Dst: p.img, Src: image.NewUniform(c), Face: p.face, Dot: fixed.P(x, baseline)}
	d.DrawString(s)
}

func (p *Panel) centered(s string, baseline int, c color.Color) {
	w, _ := p.Size()
	tw := font.MeasureString(p.face, s).Ceil()
	p.text(s, max(0, (w-tw)/2), baseline, c)
}

func (p *Panel) rule(y int) {
	w, _ := p.Size()
	p.fill(image.Rect(margin, y, w-margin, y+2), White)
}

func (p *Panel) fill(r image.Rectangle, c color.Color) {
	draw.Draw(p.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// wrap breaks s into lines no wider than maxW pixels.
func (p *Panel) wrap(s string, maxW int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if cur != "" && font.MeasureString(p.face, next).Ceil() > maxW {
			lines = append(lines, cur)
			next = word
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// MemorySink keeps the last frame in memory. It backs simulation and tests.
type MemorySink struct {
	mu     sync.Mutex
	last   *image.RGBA
	frames int
}

func (m *MemorySink) Flush(img *image.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil || m.last.Bounds() != img.Bounds() {
		m.last = image.NewRGBA(img.Bounds())
	}
	copy(m.last.Pix, img.Pix)
	m.frames++
	return nil
}

func (m *MemorySink) Close() error { return nil }

// Frames returns how many frames were flushed.
func (m *MemorySink) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Last returns the most recent frame, or nil.
func (m *MemorySink) Last() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
