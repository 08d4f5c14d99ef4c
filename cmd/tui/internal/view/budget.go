package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/overview"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type budgetState int

const (
	budgetStateView budgetState = iota
	budgetStateEdit
)

// BudgetModel is the home screen: the active budget, where the money went and
// what it could have bought instead.
type BudgetModel struct {
	CommonModel
	session       Session
	overview      *overview.Service
	budgetService *budget.Service
	userService   *user.Service

	state   budgetState
	view    *overview.View
	form    *huh.Form
	loading bool
	status  string
	err     error

	// Form field bindings live on the heap so huh keeps writing to them
	// after the model is copied.
	fields *budgetFields
}

type budgetFields struct {
	amount string
	period budget.Period
}

func NewBudgetModel(session Session, ov *overview.Service, budgets *budget.Service, users *user.Service) BudgetModel {
	return BudgetModel{
		session:       session,
		overview:      ov,
		budgetService: budgets,
		userService:   users,
		loading:       true,
		fields:        &budgetFields{period: budget.PeriodMonthly},
	}
}

func (m BudgetModel) Title() string { return "Budget" }

func (m BudgetModel) ShortHelp() string {
	if m.state == budgetStateEdit {
		return "Esc: cancel | Enter: next"
	}

	return "Esc: back | b: set budget | a: toggle accountability | r: refresh"
}

func (m BudgetModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOverviewMsg:
		m.loading = false
		m.err = msg.err
		m.view = msg.view

		return m, nil

	case budgetSavedMsg:
		m.state = budgetStateView
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		m.loading = true

		return m, m.loadCmd()
	}

	if m.state == budgetStateEdit {
		return m.updateEdit(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "b":
			return m.startEdit()
		case "a":
			if m.view == nil {
				return m, nil
			}

			return m, m.toggleAccountabilityCmd(!m.view.User.AccountabilityMode)
		}
	}

	return m, nil
}

func (m BudgetModel) startEdit() (tea.Model, tea.Cmd) {
	m.fields = &budgetFields{period: m.fields.period}
	if m.view != nil && m.view.Budget != nil {
		m.fields.amount = m.view.Budget.Amount.StringFixed(2)
		m.fields.period = m.view.Budget.Period
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Budget amount").
				Placeholder("500.00").
				Value(&m.fields.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return budget.ErrInvalidAmount
					}

					return nil
				}),

			huh.NewSelect[budget.Period]().
				Key("period").
				Title("Period").
				Options(
					huh.NewOption("Monthly", budget.PeriodMonthly),
					huh.NewOption("Weekly", budget.PeriodWeekly),
				).
				Value(&m.fields.period),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetStateEdit

	return m, m.form.Init()
}

func (m BudgetModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetStateView
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveBudgetCmd()
}

func (m BudgetModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budget...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == budgetStateEdit && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render("Set Budget\n\n" + m.form.View())
	}

	var b strings.Builder

	v := m.view

	fmt.Fprintf(&b, "Hi %s\n\n", v.User.Name())

	if v.Budget == nil {
		b.WriteString(faintStyle.Render("No active budget. Press b to set one.") + "\n\n")
		fmt.Fprintf(&b, "Spent overall: %s across %d transactions\n", FormatAmount(v.Summary.Spent), v.Summary.Count)
	} else {
		style := levelStyle(v.Level)

		fmt.Fprintf(&b, "Your %s budget: %s, %s to %s\n",
			v.Budget.Period, FormatAmount(v.Budget.Amount), FormatDate(v.Budget.StartDate), FormatDate(v.Budget.EndDate))
		fmt.Fprintf(&b, "Spent %s (%s)\n", FormatAmount(v.Summary.Spent), style.Render(fmt.Sprintf("%.1f%%", v.Summary.Percentage)))

		if v.Remaining != nil {
			fmt.Fprintf(&b, "Remaining %s\n", FormatAmount(*v.Remaining))
		}

		if !v.Banner.IsZero() {
			b.WriteString("\n" + style.Bold(true).Render(v.Banner.Title) + "\n" + v.Banner.Message + "\n")
		}
	}

	if len(v.Summary.Breakdown) > 0 {
		b.WriteString("\nTop categories\n")

		for _, c := range v.Summary.Breakdown {
			fmt.Fprintf(&b, "  %-14s %10s  %5.1f%%\n", c.Category, FormatAmount(c.Amount), c.Share)
		}
	}

	fmt.Fprintf(&b, "\nThis week %s | This month %s | Daily average %s\n",
		FormatAmount(v.Stats.ThisWeek), FormatAmount(v.Stats.ThisMonth), FormatAmount(v.Stats.DailyAverage))

	if len(v.Insights) > 0 {
		b.WriteString("\nRecent trade-offs\n")

		for _, in := range v.Insights {
			line := "  " + in.Message
			if in.OverBudget {
				line = errorStyle.Render(line)
			}

			b.WriteString(line + "\n")
		}
	}

	if v.Tip != "" {
		b.WriteString("\n" + successStyle.Render(v.Tip) + "\n")
	}

	mode := "off"
	if v.User.AccountabilityMode {
		mode = "on"
	}

	fmt.Fprintf(&b, "\nAccountability mode: %s", mode)

	if v.Notified {
		b.WriteString(faintStyle.Render(" (your friends were told about this overspend)"))
	}

	content := b.String()
	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

// Messages

type loadOverviewMsg struct {
	view *overview.View
	err  error
}

func (m BudgetModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		v, err := m.overview.Build(ctx, m.session.Email, m.session.Now())

		return loadOverviewMsg{view: v, err: err}
	}
}

type budgetSavedMsg struct {
	status string
	err    error
}

// saveBudgetCmd updates the active budget in place, or starts a new one for
// the current period.
func (m BudgetModel) saveBudgetCmd() tea.Cmd {
	amount, _ := decimal.NewFromString(strings.TrimSpace(m.fields.amount))
	period := m.fields.period

	var active *budget.Budget
	if m.view != nil {
		active = m.view.Budget
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if active != nil && active.Period == period {
			if _, err := m.budgetService.Update(ctx, active.ID, budget.UpdateParams{Amount: &amount}); err != nil {
				return budgetSavedMsg{err: err}
			}

			return budgetSavedMsg{status: "Budget updated to " + FormatAmount(amount)}
		}

		interval := budget.CurrentInterval(period, m.session.Now())

		_, err := m.budgetService.Create(ctx, budget.CreateParams{
			UserEmail: m.session.Email,
			Amount:    amount,
			Period:    period,
			StartDate: interval.Start,
			EndDate:   interval.End,
		})
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		return budgetSavedMsg{status: "Budget set to " + FormatAmount(amount)}
	}
}

func (m BudgetModel) toggleAccountabilityCmd(enabled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.userService.SetAccountabilityMode(ctx, m.session.Email, enabled); err != nil {
			return budgetSavedMsg{err: err}
		}

		if enabled {
			return budgetSavedMsg{status: "Accountability mode on"}
		}

		return budgetSavedMsg{status: "Accountability mode off"}
	}
}
