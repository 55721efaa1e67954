package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pi-arcade/internal/core"
	"github.com/vovakirdan/pi-arcade/internal/registry"
	"github.com/vovakirdan/pi-arcade/internal/storage"
)

const boardRows = 50

// ScoreSource is the part of the score store the scoreboard reads.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	GameStats(gameID string) (*storage.GameStats, error)
}

var (
	boardTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	boardTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boardActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	boardFrame  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type boardKeys struct {
	Prev, Next key.Binding
	Up, Down   key.Binding
	Back       key.Binding
}

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Back}
}

func (k boardKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultBoardKeys() boardKeys {
	return boardKeys{
		Prev: key.NewBinding(key.WithKeys("left", "a", "shift+tab"), key.WithHelp("←", "prev game")),
		Next: key.NewBinding(key.WithKeys("right", "d", "tab"), key.WithHelp("→", "next game")),
		Up:   key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑", "scroll")),
		Down: key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓", "scroll")),
		Back: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc/q", "close")),
	}
}

// ScoreboardModel browses the stored scores of every game. Games are picked
// like on the console menu: left/right, or the keypad digit of the game.
type ScoreboardModel struct {
	src    ScoreSource
	games  []registry.GameDescriptor
	cur    int
	scores []storage.ScoreEntry
	stats  *storage.GameStats
	err    error

	table  table.Model
	help   help.Model
	keys   boardKeys
	width  int
	height int
	done   bool
}

// NewScoreboardModel opens the scoreboard on gameID, or on the first game
// when gameID is empty or unknown.
func NewScoreboardModel(src ScoreSource, gameID string) ScoreboardModel {
	m := ScoreboardModel{
		src:    src,
		games:  registry.List(),
		help:   help.New(),
		keys:   defaultBoardKeys(),
		width:  core.DefaultConfig().ScreenW,
		height: core.DefaultConfig().ScreenH,
	}
	for i, g := range m.games {
		if g.ID == gameID {
			m.cur = i
		}
	}
	m.table = m.newTable()
	m.load()
	return m
}

// Current returns the game on display.
func (m ScoreboardModel) Current() (registry.GameDescriptor, bool) {
	if len(m.games) == 0 {
		return registry.GameDescriptor{}, false
	}
	return m.games[m.cur], true
}

func (m ScoreboardModel) newTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 10},
			{Title: "Time", Width: 8},
			{Title: "Date", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("11")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the current game's scores. Read errors are shown in place of
// the table.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.err = nil, nil, nil
	g, ok := m.Current()
	if !ok || m.src == nil {
		m.table.SetRows(nil)
		return
	}
	if m.scores, m.err = m.src.TopScores(g.ID, boardRows); m.err == nil {
		m.stats, m.err = m.src.GameStats(g.ID)
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score),
			FormatPlayed(s.Duration),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) show(i int) {
	if len(m.games) == 0 {
		return
	}
	m.cur = core.Wrap(i, len(m.games))
	m.load()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if r, ok := KeypadKey(msg); ok && r >= '1' && r <= '9' {
			for i, g := range m.games {
				if g.Number == int(r-'0') {
					m.show(i)
				}
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.show(m.cur + 1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.show(m.cur - 1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(m.height-9, 3))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	title := "HIGH SCORES"
	if g, ok := m.Current(); ok {
		title += " - " + strings.ToUpper(g.Name)
	}
	b.WriteString(centerText(boardTitle.Render(title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	var body string
	switch {
	case m.err != nil:
		body = boardDim.Render("Scores unavailable: " + m.err.Error())
	case len(m.scores) == 0:
		body = boardDim.Italic(true).Padding(1, 4).Render("No scores yet.")
	default:
		body = m.table.View() + "\n" + m.summary()
	}
	b.WriteString(centerText(boardFrame.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders the numbered game strip. When it does not fit, only the
// current game is shown between arrows.
func (m ScoreboardModel) tabs() string {
	parts := make([]string, len(m.games))
	for i, g := range m.games {
		label := fmt.Sprintf(" %d %s ", g.Number, g.Name)
		if i == m.cur {
			parts[i] = boardActive.Render(label)
		} else {
			parts[i] = boardTab.Render(label)
		}
	}
	line := strings.Join(parts, "")
	if lipgloss.Width(line) <= m.width || len(m.games) == 0 {
		return line
	}
	g := m.games[m.cur]
	return fmt.Sprintf("< %s >", boardActive.Render(fmt.Sprintf(" %d %s ", g.Number, g.Name)))
}

func (m ScoreboardModel) summary() string {
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return ""
	}
	return boardDim.Render(fmt.Sprintf("%d games  best %d  avg %.0f  played %s  last %s",
		st.GamesCount, st.HighScore, st.AvgScore, FormatPlayed(st.TotalPlay), st.LastPlayed.Local().Format("Jan 02")))
}

// FormatPlayed renders a play time as m:ss, or h:mm:ss past an hour.
func FormatPlayed(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunScoreboard shows the scoreboard on the current terminal until closed.
func RunScoreboard(src ScoreSource, gameID string) error {
	_, err := tea.NewProgram(NewScoreboardModel(src, gameID), tea.WithAltScreen()).Run()
	return err
}
