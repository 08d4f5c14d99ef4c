package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type CommonModel struct {
	Width  int
	Height int
}

// Session identifies who is using the terminal and what time it is for them.
type Session struct {
	Email string
	Now   func() time.Time
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
