package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through uncategorised transactions one at a time. Each
// answer recategorises the transaction and teaches a rule so future imports
// get it right.
type ReviewModel struct {
	CommonModel
	session         Session
	txService       *transaction.Service
	matchingService *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue      []*transaction.Transaction
	currentTx  *transaction.Transaction
	totalCount int

	categoryIdx  int
	patternInput textinput.Model

	status  string
	loading bool
}

// reviewCategories are the choices offered; Other is what is being cleared.
var reviewCategories = transaction.Categories[:len(transaction.Categories)-1]

func NewReviewModel(session Session, txSvc *transaction.Service, matchSvc *matching.Service) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Pattern to remember (empty: don't remember)"
	ti.Width = 50
	ti.Prompt = "Rule: "

	return ReviewModel{
		session:         session,
		txService:       txSvc,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek, session.Now),
		patternInput:    ti,
	}
}

func (m ReviewModel) Title() string { return "Categorise Transactions" }

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadUncategorisedCmd(msg)

	case loadUncategorisedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)

		if len(m.queue) == 0 {
			m.status = "Nothing to categorise."
			return m, nil
		}

		m.nextTx()

		return m, textinput.Blink

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.nextTx()

		return m, textinput.Blink
	}

	if m.state == reviewStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.loading {
			return m, nil
		}

		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyLeft:
			m.categoryIdx = (m.categoryIdx + len(reviewCategories) - 1) % len(reviewCategories)
			return m, nil
		case tea.KeyRight, tea.KeyTab:
			m.categoryIdx = (m.categoryIdx + 1) % len(reviewCategories)
			return m, nil
		case tea.KeyCtrlN:
			m.nextTx()
			return m, nil
		case tea.KeyEnter:
			if m.currentTx != nil {
				return m, m.saveAndNextCmd()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.patternInput, cmd = m.patternInput.Update(msg)

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.currentTx == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	choices := make([]string, len(reviewCategories))
	for i, c := range reviewCategories {
		if i == m.categoryIdx {
			choices[i] = activeStyle("[" + string(c) + "]")
			continue
		}

		choices[i] = " " + string(c) + " "
	}

	info := fmt.Sprintf("Date:        %s\nAmount:      %s\nDescription: %s",
		FormatDate(m.currentTx.Date), FormatAmount(m.currentTx.Amount), m.currentTx.Description)

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\n%s\n\nCategory: %s\n\n%s\n\n%s",
		m.status,
		info,
		strings.Join(choices, " "),
		m.patternInput.View(),
		faintStyle.Render("←/→: category | Enter: save & next | Ctrl+N: skip | Esc: back"),
	))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ReviewModel) nextTx() {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done! Nothing left to categorise."
		m.patternInput.Blur()

		return
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.categoryIdx = 0

	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
	m.patternInput.SetValue(m.currentTx.Description)
	m.patternInput.Focus()
}

type loadUncategorisedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReviewModel) loadUncategorisedCmd(tf TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		filter := transaction.ListFilter{
			UserEmail: m.session.Email,
			Category:  new(transaction.CategoryOther),
			Sort:      "transaction_date",
		}

		tf.Apply(&filter)

		txs, err := m.txService.List(ctx, filter)

		return loadUncategorisedMsg{txs: txs, err: err}
	}
}

type reviewSavedMsg struct {
	err error
}

func (m ReviewModel) saveAndNextCmd() tea.Cmd {
	tx := m.currentTx
	category := reviewCategories[m.categoryIdx]
	pattern := strings.TrimSpace(m.patternInput.Value())

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.SetCategory(ctx, tx.ID, category); err != nil {
			return reviewSavedMsg{err: err}
		}

		if pattern != "" {
			if err := m.matchingService.Learn(ctx, m.session.Email, pattern, category); err != nil {
				return reviewSavedMsg{err: err}
			}
		}

		tx.Category = category

		return reviewSavedMsg{}
	}
}
