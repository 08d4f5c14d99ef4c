package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/leaderboard"
)

type LeaderboardModel struct {
	CommonModel
	session Session
	service *leaderboard.Service

	table   table.Model
	board   leaderboard.Board
	loading bool
	err     error
}

func NewLeaderboardModel(session Session, svc *leaderboard.Service) LeaderboardModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 24},
		{Title: "Saved", Width: 12},
		{Title: "Success", Width: 9},
		{Title: "Streak", Width: 7},
		{Title: "Budget", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return LeaderboardModel{
		session: session,
		service: svc,
		table:   t,
		loading: true,
	}
}

func (m LeaderboardModel) Title() string { return "Leaderboard" }

func (m LeaderboardModel) ShortHelp() string {
	return "Esc: back | r: refresh"
}

func (m LeaderboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBoardMsg:
		m.loading = false
		m.err = msg.err
		m.board = msg.board
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LeaderboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Ranking you and your friends...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := activeStyle(leaderboard.RankMessage(m.board.CallerRank))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(m.ShortHelp()),
	))
}

func (m *LeaderboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.board.Entries))

	for _, e := range m.board.Entries {
		name := e.DisplayName
		if e.Email == m.session.Email {
			name += " (you)"
		}

		hasBudget := "-"
		if e.HasBudget {
			hasBudget = "yes"
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", e.Rank),
			name,
			FormatAmount(e.TotalSaved),
			fmt.Sprintf("%.0f%%", e.SuccessRate),
			fmt.Sprintf("%d", e.Streak),
			hasBudget,
		})
	}

	m.table.SetRows(rows)
}

type loadBoardMsg struct {
	board leaderboard.Board
	err   error
}

func (m LeaderboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		board, err := m.service.Leaderboard(ctx, m.session.Email, m.session.Now())

		return loadBoardMsg{board: board, err: err}
	}
}
