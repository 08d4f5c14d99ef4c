// Package tradeoff phrases purchases as everyday equivalents so users see
// what else the money could have bought.
package tradeoff

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// DefaultLimit is how many insights the budget page shows.
const DefaultLimit = 3

type Tradeoff struct {
	Threshold   decimal.Decimal
	Equivalent  string
	Alternative string
}

// DefaultTable is ordered by threshold; Nearest relies on that order for ties.
var DefaultTable = []Tradeoff{
	{Threshold: decimal.NewFromInt(5), Equivalent: "a fancy coffee", Alternative: "5 homemade coffees"},
	{Threshold: decimal.NewFromInt(15), Equivalent: "a movie ticket", Alternative: "a month of Netflix"},
	{Threshold: decimal.NewFromInt(25), Equivalent: "takeout dinner", Alternative: "groceries for 3 days"},
	{Threshold: decimal.NewFromInt(50), Equivalent: "an Uber ride", Alternative: "a week of bus passes"},
	{Threshold: decimal.NewFromInt(100), Equivalent: "new shoes", Alternative: "a month of gym membership"},
}

type Advisor struct {
	table []Tradeoff
}

// NewAdvisor uses DefaultTable unless a table is given.
func NewAdvisor(table ...Tradeoff) *Advisor {
	if len(table) == 0 {
		table = DefaultTable
	}

	return &Advisor{table: table}
}

// Nearest returns the entry whose threshold is closest to amount. Ties go to
// the earlier entry.
func (a *Advisor) Nearest(amount decimal.Decimal) Tradeoff {
	best := a.table[0]
	bestDiff := best.Threshold.Sub(amount).Abs()

	for _, t := range a.table[1:] {
		if diff := t.Threshold.Sub(amount).Abs(); diff.LessThan(bestDiff) {
			best, bestDiff = t, diff
		}
	}

	return best
}

// Message describes one purchase given the budget balance left before it.
func (a *Advisor) Message(amount decimal.Decimal, description string, remainingBefore decimal.Decimal) string {
	after := remainingBefore.Sub(amount)
	if after.IsNegative() {
		return fmt.Sprintf("That %s on %s pushed you %s over budget!",
			money.Format(amount), description, money.Format(after.Abs()))
	}

	t := a.Nearest(amount)

	return fmt.Sprintf("That %s on %s is like spending on %s; you could've had %s instead.",
		money.Format(amount), description, t.Equivalent, t.Alternative)
}

// Tip suggests what the remaining balance could still buy. It is empty when
// nothing is left.
func (a *Advisor) Tip(remaining decimal.Decimal) string {
	if !remaining.IsPositive() {
		return ""
	}

	return fmt.Sprintf("You have %s left. That's enough for %s!",
		money.Format(remaining), a.Nearest(remaining).Alternative)
}

type Insight struct {
	TransactionID uuid.UUID
	Date          time.Time
	Message       string
	OverBudget    bool
}

// Insights replays the period's transactions oldest first against the budget
// amount and returns messages for the newest limit of them, newest first.
// A non-positive limit means DefaultLimit.
func (a *Advisor) Insights(txs []*transaction.Transaction, budgetAmount decimal.Decimal, limit int) []Insight {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ordered := make([]*transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx != nil {
			ordered = append(ordered, tx)
		}
	}

	slices.SortStableFunc(ordered, chronological)

	insights := make([]Insight, len(ordered))
	remaining := budgetAmount

	for i, tx := range ordered {
		insights[i] = Insight{
			TransactionID: tx.ID,
			Date:          tx.Date,
			Message:       a.Message(tx.Amount, tx.Description, remaining),
			OverBudget:    remaining.Sub(tx.Amount).IsNegative(),
		}
		remaining = remaining.Sub(tx.Amount)
	}

	slices.Reverse(insights)

	if len(insights) > limit {
		insights = insights[:limit]
	}

	return insights
}

func chronological(a, b *transaction.Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}

	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}

	return cmp.Compare(a.ID.String(), b.ID.String())
}
