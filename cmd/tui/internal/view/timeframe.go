package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Timeframe is a preset date range offered before listing transactions.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = [...]string{
	TimeframeThisWeek:  "This Week",
	TimeframeLastWeek:  "Last Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(timeframeLabels) {
		return "Unknown"
	}

	return timeframeLabels[t]
}

// resolve turns a preset into the days it covers as of now. Weeks start on
// Monday like weekly budgets. Current periods stop at today. All time and
// custom ranges resolve to nil.
func (t Timeframe) resolve(now time.Time) *budget.Interval {
	today := budget.DateOf(now)

	switch t {
	case TimeframeThisWeek:
		return &budget.Interval{Start: budget.CurrentInterval(budget.PeriodWeekly, today).Start, End: today}
	case TimeframeLastWeek:
		return new(budget.CurrentInterval(budget.PeriodWeekly, today.AddDate(0, 0, -7)))
	case TimeframeThisMonth:
		return &budget.Interval{Start: budget.CurrentInterval(budget.PeriodMonthly, today).Start, End: today}
	case TimeframeLastMonth:
		firstOfMonth := budget.CurrentInterval(budget.PeriodMonthly, today).Start
		return new(budget.CurrentInterval(budget.PeriodMonthly, firstOfMonth.AddDate(0, 0, -1)))
	}

	return nil
}

// TimeframeSelectedMsg is emitted once the user has picked a range. Interval
// is nil for all time.
type TimeframeSelectedMsg struct {
	Interval *budget.Interval
}

// Apply narrows filter to the selected days.
func (m TimeframeSelectedMsg) Apply(filter *transaction.ListFilter) {
	if m.Interval == nil {
		return
	}

	filter.StartDate = new(m.Interval.Start)
	filter.EndDate = new(m.Interval.End)
}

type rangeFields struct {
	start string
	end   string
}

// TimeframePicker lets the user choose a preset or type a custom range.
type TimeframePicker struct {
	selected Timeframe
	minFrame Timeframe
	now      func() time.Time

	// custom is non-nil while the custom range form is open.
	custom *huh.Form
	fields *rangeFields
}

func NewTimeframePicker(minFrame Timeframe, now func() time.Time) TimeframePicker {
	return TimeframePicker{
		selected: minFrame,
		minFrame: minFrame,
		now:      now,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > m.minFrame {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == TimeframeCustom {
			m.custom, m.fields = newRangeForm()
			return m, m.custom.Init()
		}

		selection := TimeframeSelectedMsg{Interval: m.selected.resolve(m.now())}

		return m, func() tea.Msg { return selection }
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	start, _ := parseDate(m.fields.start)
	end, _ := parseDate(m.fields.end)
	selection := TimeframeSelectedMsg{Interval: new(budget.NewInterval(start, end))}

	m.custom = nil

	return m, func() tea.Msg { return selection }
}

func newRangeForm() (*huh.Form, *rangeFields) {
	fields := &rangeFields{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&fields.start).
				Validate(func(s string) error {
					_, err := parseDate(s)
					return err
				}),

			huh.NewInput().
				Title("End date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&fields.end).
				Validate(func(s string) error {
					end, err := parseDate(s)
					if err != nil {
						return err
					}

					if start, err := parseDate(fields.start); err == nil && end.Before(start) {
						return budget.ErrInvalidInterval
					}

					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	return form, fields
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}

	return t, nil
}

func (m TimeframePicker) View() string {
	if m.custom != nil {
		return "Enter Custom Range:\n\n" + m.custom.View() + "\n(Esc to go back)"
	}

	var b strings.Builder

	b.WriteString("Select Timeframe:\n\n")

	for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
		cursor := " "
		if m.selected == tf {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, tf)
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String()
}

// IsSelecting reports whether the preset list is showing, so Esc belongs to
// the parent view.
func (m TimeframePicker) IsSelecting() bool {
	return m.custom == nil
}

func (m *TimeframePicker) Reset() {
	m.selected = m.minFrame
	m.custom = nil
	m.fields = nil
}
