// Package spending turns a user's transactions into the totals the budget
// page and leaderboard work from.
package spending

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/money"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// MaxCategories caps the breakdown length.
const MaxCategories = 5

// ErrInvalidAmount is transaction.ErrInvalidAmount so callers map stored and
// submitted amounts the same way.
var ErrInvalidAmount = transaction.ErrInvalidAmount

type CategoryTotal struct {
	Category transaction.Category
	Amount   decimal.Decimal
	// Share is the percentage of Spent this category accounts for.
	Share float64
}

type Summary struct {
	Spent      decimal.Decimal
	Percentage float64
	Breakdown  []CategoryTotal
	Count      int
}

// Aggregate sums the transactions dated inside interval, or every
// transaction when interval is nil. Percentage is relative to limit and is 0
// when limit is nil or zero. A negative amount rejects the whole input.
func Aggregate(txs []*transaction.Transaction, interval *budget.Interval, limit *decimal.Decimal) (Summary, error) {
	var sum Summary

	totals := make(map[transaction.Category]decimal.Decimal)

	for _, tx := range txs {
		if tx == nil {
			continue
		}

		if tx.Amount.IsNegative() {
			return Summary{}, fmt.Errorf("transaction %s: %w", tx.ID, ErrInvalidAmount)
		}

		if interval != nil && !interval.Contains(tx.Date) {
			continue
		}

		sum.Spent = sum.Spent.Add(tx.Amount)
		sum.Count++
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	if limit != nil {
		sum.Percentage = money.Percent(sum.Spent, *limit)
	}

	sum.Breakdown = breakdown(totals, sum.Spent)

	return sum, nil
}

func breakdown(totals map[transaction.Category]decimal.Decimal, spent decimal.Decimal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for c, amount := range totals {
		out = append(out, CategoryTotal{
			Category: c,
			Amount:   amount,
			Share:    money.Percent(amount, spent),
		})
	}

	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		if c := a.Category.Rank() - b.Category.Rank(); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	if len(out) > MaxCategories {
		out = out[:MaxCategories]
	}

	return out
}
