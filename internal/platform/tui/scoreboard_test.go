package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pi-arcade/internal/registry"
	"github.com/vovakirdan/pi-arcade/internal/storage"
)

func init() {
	for i, id := range []string{"alpha", "beta", "gamma"} {
		registry.Register(registry.GameDescriptor{
			Number:  i + 1,
			ID:      id,
			Name:    strings.ToUpper(id[:1]) + id[1:],
			Factory: func() registry.Game { return &stubGame{} },
		})
	}
}

func openBoardStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func boardStep(t *testing.T, m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func current(t *testing.T, m ScoreboardModel) string {
	t.Helper()
	g, ok := m.Current()
	if !ok {
		t.Fatal("no current game")
	}
	return g.ID
}

func TestScoreboardOpensOnGame(t *testing.T) {
	store := openBoardStore(t)
	for _, s := range []int{30, 120, 75} {
		if _, err := store.SaveScore("beta", s, 90*time.Second); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, "beta")
	if got := current(t, m); got != "beta" {
		t.Fatalf("current = %q, want beta", got)
	}
	if len(m.scores) != 3 || m.scores[0].Score != 120 {
		t.Fatalf("scores = %+v, want 3 with 120 first", m.scores)
	}

	view := m.View()
	for _, want := range []string{"HIGH SCORES - BETA", "120", "1:30", "3 games"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardUnknownGameFallsBack(t *testing.T) {
	m := NewScoreboardModel(openBoardStore(t), "nope")
	if got := current(t, m); got != "alpha" {
		t.Errorf("current = %q, want alpha", got)
	}
	if !strings.Contains(m.View(), "No scores yet.") {
		t.Error("empty game should say so")
	}
}

func TestScoreboardNavigation(t *testing.T) {
	m := NewScoreboardModel(openBoardStore(t), "alpha")

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"left wraps", tea.KeyMsg{Type: tea.KeyLeft}, "gamma"},
		{"right wraps", tea.KeyMsg{Type: tea.KeyRight}, "alpha"},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, "beta"},
		{"keypad digit", runeKey('3'), "gamma"},
		{"unused digit", runeKey('9'), "gamma"},
		{"d", runeKey('d'), "alpha"},
	}
	for _, tt := range tests {
		m = boardStep(t, m, tt.msg)
		if got := current(t, m); got != tt.want {
			t.Errorf("%s: current = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestScoreboardClose(t *testing.T) {
	m := NewScoreboardModel(nil, "")
	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
	if next.View() != "" {
		t.Error("closed scoreboard should render nothing")
	}
}

type failingSource struct{}

func (failingSource) TopScores(string, int) ([]storage.ScoreEntry, error) {
	return nil, errors.New("disk gone")
}

func (failingSource) GameStats(string) (*storage.GameStats, error) { return nil, nil }

func TestScoreboardShowsReadError(t *testing.T) {
	m := NewScoreboardModel(failingSource{}, "alpha")
	if !strings.Contains(m.View(), "disk gone") {
		t.Error("view should show the read error")
	}
}

func TestFormatPlayed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{90*time.Second + 400*time.Millisecond, "1:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatPlayed(tt.d); got != tt.want {
			t.Errorf("FormatPlayed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
