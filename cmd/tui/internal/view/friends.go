package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/friend"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type friendsTab int

const (
	friendsTabFriends friendsTab = iota
	friendsTabRequests
	friendsTabSuggestions
)

func (t friendsTab) String() string {
	switch t {
	case friendsTabRequests:
		return "Requests"
	case friendsTabSuggestions:
		return "Suggestions"
	default:
		return "Friends"
	}
}

// personItem is either a user (friends, suggestions) or an incoming request.
type personItem struct {
	user    *user.User
	request *friend.Friend
}

func (i personItem) FilterValue() string {
	if i.request != nil {
		return i.request.RequesterEmail
	}

	return i.user.Email
}

type personDelegate struct{}

func (d personDelegate) Height() int                             { return 1 }
func (d personDelegate) Spacing() int                            { return 0 }
func (d personDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d personDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(personItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	if item.request != nil {
		fmt.Fprintf(w, "%s%s wants to be friends (since %s)", cursor, item.request.RequesterEmail, FormatDate(item.request.CreatedAt))
		return
	}

	fmt.Fprintf(w, "%s%-28s saved %s, streak %d", cursor, item.user.Name(), FormatAmount(item.user.Saved()), item.user.Streak())
}

// FriendsModel shows accepted friends, incoming requests and people the user
// may know.
type FriendsModel struct {
	CommonModel
	session Session
	service *friend.Service

	tab     friendsTab
	list    list.Model
	loading bool
	status  string
}

func NewFriendsModel(session Session, svc *friend.Service) FriendsModel {
	l := list.New([]list.Item{}, personDelegate{}, 70, 15)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)

	return FriendsModel{
		session: session,
		service: svc,
		list:    l,
		loading: true,
	}
}

func (m FriendsModel) Title() string { return "Friends" }

func (m FriendsModel) ShortHelp() string {
	switch m.tab {
	case friendsTabRequests:
		return "Tab: switch | y: accept | n: reject | Esc: back"
	case friendsTabSuggestions:
		return "Tab: switch | Enter: send request | Esc: back"
	}

	return "Tab: switch | Esc: back"
}

func (m FriendsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m FriendsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPeopleMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.list.SetItems(msg.items)

		return m, nil

	case friendActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.loading = true

		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "tab":
			m.tab = (m.tab + 1) % 3
			m.loading = true
			m.status = ""

			return m, m.loadCmd()
		case "y", "n":
			if m.tab == friendsTabRequests {
				return m, m.respondCmd(msg.String() == "y")
			}
		case "enter":
			if m.tab == friendsTabSuggestions {
				return m, m.requestCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m FriendsModel) View() string {
	tabs := make([]string, 3)
	for i := range tabs {
		t := friendsTab(i)
		if t == m.tab {
			tabs[i] = activeStyle("[" + t.String() + "]")
			continue
		}

		tabs[i] = " " + t.String() + " "
	}

	body := m.list.View()

	switch {
	case m.loading:
		body = "Loading..."
	case len(m.list.Items()) == 0:
		body = faintStyle.Render("Nobody here yet.")
	}

	content := strings.Join(tabs, " ") + "\n\n" + body

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

type loadPeopleMsg struct {
	items []list.Item
	err   error
}

func (m FriendsModel) loadCmd() tea.Cmd {
	tab := m.tab

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if tab == friendsTabRequests {
			requests, err := m.service.Incoming(ctx, m.session.Email)
			if err != nil {
				return loadPeopleMsg{err: err}
			}

			items := make([]list.Item, len(requests))
			for i, r := range requests {
				items[i] = personItem{request: r}
			}

			return loadPeopleMsg{items: items}
		}

		var (
			users []*user.User
			err   error
		)

		if tab == friendsTabSuggestions {
			users, err = m.service.Suggestions(ctx, m.session.Email)
		} else {
			users, err = m.service.Friends(ctx, m.session.Email)
		}

		if err != nil {
			return loadPeopleMsg{err: err}
		}

		items := make([]list.Item, len(users))
		for i, u := range users {
			items[i] = personItem{user: u}
		}

		return loadPeopleMsg{items: items}
	}
}

type friendActionMsg struct {
	status string
	err    error
}

func (m FriendsModel) respondCmd(accept bool) tea.Cmd {
	item, ok := m.list.SelectedItem().(personItem)
	if !ok || item.request == nil {
		return nil
	}

	status := friend.StatusRejected
	if accept {
		status = friend.StatusAccepted
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.service.Respond(ctx, item.request.ID, m.session.Email, status); err != nil {
			return friendActionMsg{err: err}
		}

		return friendActionMsg{status: fmt.Sprintf("Request from %s %s", item.request.RequesterEmail, status)}
	}
}

func (m FriendsModel) requestCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(personItem)
	if !ok || item.user == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.service.Request(ctx, m.session.Email, item.user.Email); err != nil {
			return friendActionMsg{err: err}
		}

		return friendActionMsg{status: "Friend request sent to " + item.user.Name()}
	}
}
