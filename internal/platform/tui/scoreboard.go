package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dobi-games/flappy-dobi/internal/storage"
)

const maxScoreboardRows = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel displays the local leaderboard in a scrollable table.
type ScoreboardModel struct {
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	err    error
	height int
}

// NewScoreboard loads scores from the store and builds the table.
func NewScoreboard(store *storage.Store) ScoreboardModel {
	keys := DefaultScoreboardKeyMap()

	entries, err := store.TopScores(maxScoreboardRows)

	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 20},
		{Title: "Score", Width: 7},
		{Title: "Mode", Width: 9},
		{Title: "Result", Width: 7},
		{Title: "Date", Width: 17},
	}

	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		result := "lost"
		if e.Won {
			result = "won"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			e.Player,
			fmt.Sprintf("%d", e.Score),
			e.Mode,
			result,
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("11"))
	t.SetStyles(styles)

	return ScoreboardModel{
		table: t,
		help:  help.New(),
		keys:  keys,
		err:   err,
	}
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles input and scrolling.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table.SetHeight(max(5, msg.Height-5))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("cannot load scores: %v\n", m.err)
	}
	title := lipgloss.NewStyle().Bold(true).Render(" Flappy DOBI - High Scores ")
	return title + "\n\n" + m.table.View() + "\n" + m.help.View(m.keys)
}
