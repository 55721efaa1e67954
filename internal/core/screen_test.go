package core

import (
	"strings"
	"testing"
)

func rows(s *Screen) []string {
	out := make([]string, s.Height())
	for y := range out {
		out[y] = s.Row(y)
	}
	return out
}

func wantRows(t *testing.T, s *Screen, want ...string) {
	t.Helper()
	got := rows(s)
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for y := range want {
		if got[y] != want[y] {
			t.Errorf("row %d = %q, want %q", y, got[y], want[y])
		}
	}
}

func TestNewScreenIsBlank(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{80, 24, 80, 24},
		{1, 1, 1, 1},
		{0, 5, 0, 5},
		{-3, -1, 0, 0},
	}
	for _, tt := range tests {
		s := NewScreen(tt.w, tt.h)
		if s.Width() != tt.wantW || s.Height() != tt.wantH {
			t.Errorf("NewScreen(%d, %d) size = %dx%d, want %dx%d",
				tt.w, tt.h, s.Width(), s.Height(), tt.wantW, tt.wantH)
		}
		if strings.TrimSpace(s.String()) != "" {
			t.Errorf("NewScreen(%d, %d) is not blank", tt.w, tt.h)
		}
	}
}

func TestScreenClipsOutOfBounds(t *testing.T) {
	s := NewScreen(4, 3)

	tests := []struct {
		x, y int
		in   bool
	}{
		{0, 0, true},
		{3, 2, true},
		{-1, 0, false},
		{4, 0, false},
		{0, -1, false},
		{0, 3, false},
	}
	for _, tt := range tests {
		if got := s.InBounds(tt.x, tt.y); got != tt.in {
			t.Errorf("InBounds(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.in)
		}
		s.SetColor(tt.x, tt.y, 'X', ColorRed)
		want := ' '
		if tt.in {
			want = 'X'
		}
		if got := s.Get(tt.x, tt.y); got != want {
			t.Errorf("Get(%d, %d) = %q, want %q", tt.x, tt.y, got, want)
		}
	}
	if c := s.GetCell(3, 2); c.Color != ColorRed {
		t.Errorf("cell colour = %v, want red", c.Color)
	}
}

func TestScreenText(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawText(1, 0, "abc")
	s.DrawText(7, 1, "clipped")
	s.DrawTextCentered(2, "★ok", ColorGold)

	wantRows(t, s,
		" abc      ",
		"       cli",
		"   ★ok    ",
	)
	if c := s.GetCell(4, 2); c.Rune != 'o' || c.Color != ColorGold {
		t.Errorf("centered cell = %+v, want gold 'o'", c)
	}
}

func TestScreenRectAndBox(t *testing.T) {
	s := NewScreen(7, 5)
	s.DrawRect(NewRect(1, 1, 5, 3), '.', ColorGray)
	s.DrawBox(NewRect(0, 0, 7, 5), ColorBlue)

	wantRows(t, s,
		"┌─────┐",
		"│.....│",
		"│.....│",
		"│.....│",
		"└─────┘",
	)
	if c := s.GetCell(0, 0); c.Color != ColorBlue {
		t.Errorf("corner colour = %v, want blue", c.Color)
	}
}

func TestScreenOverlay(t *testing.T) {
	s := NewScreen(12, 5)
	s.Fill('#')
	s.DrawOverlay(ColorRed, "GAME", "OVER")

	wantRows(t, s,
		"##┌──────┐##",
		"##│ GAME │##",
		"##│ OVER │##",
		"##└──────┘##",
		"############",
	)
	if !s.Contains("GAME") || s.Contains("WIN") {
		t.Error("Contains does not match the overlay text")
	}
}

func TestScreenBlit(t *testing.T) {
	src := NewScreen(3, 2)
	src.Fill('o')
	src.SetColor(0, 0, '@', ColorGreen)

	tests := []struct {
		name string
		x, y int
		want []string
	}{
		{"inside", 1, 1, []string{"     ", " @oo ", " ooo ", "     "}},
		{"clipped right", 3, 0, []string{"   @o", "   oo", "     ", "     "}},
		{"clipped top left", -1, -1, []string{"oo   ", "     ", "     ", "     "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := NewScreen(5, 4)
			dst.Blit(src, tt.x, tt.y)
			wantRows(t, dst, tt.want...)
		})
	}

	dst := NewScreen(5, 4)
	dst.Blit(src, 1, 1)
	if c := dst.GetCell(1, 1); c.Color != ColorGreen {
		t.Errorf("blitted colour = %v, want green", c.Color)
	}
}

func TestScreenResizeDiscardsContent(t *testing.T) {
	s := NewScreen(5, 2)
	s.Fill('x')

	s.Resize(5, 2)
	if s.Get(0, 0) != 'x' {
		t.Error("resizing to the same size should keep the frame")
	}

	s.Resize(3, 4)
	if s.Width() != 3 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, want 3x4", s.Width(), s.Height())
	}
	wantRows(t, s, "   ", "   ", "   ", "   ")
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "ab")
	s.DrawText(0, 1, "cde")

	if got := s.String(); got != "ab \ncde" {
		t.Errorf("String() = %q", got)
	}
	if got := s.Row(7); got != "   " {
		t.Errorf("Row out of range = %q, want blanks", got)
	}
}
