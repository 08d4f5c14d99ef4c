package spending

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Stats is the quick spending overview shown above the transaction list.
type Stats struct {
	ThisWeek     decimal.Decimal
	ThisMonth    decimal.Decimal
	DailyAverage decimal.Decimal
}

// ComputeStats totals the current week (starting Sunday) and month up to now,
// and averages all spending over the days elapsed since the oldest
// transaction, counting at least one day.
func ComputeStats(txs []*transaction.Transaction, now time.Time) Stats {
	today := budget.DateOf(now)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		stats  Stats
		total  decimal.Decimal
		oldest time.Time
	)

	for _, tx := range txs {
		if tx == nil {
			continue
		}

		d := budget.DateOf(tx.Date)
		total = total.Add(tx.Amount)

		if oldest.IsZero() || d.Before(oldest) {
			oldest = d
		}

		if d.After(today) {
			continue
		}

		if !d.Before(weekStart) {
			stats.ThisWeek = stats.ThisWeek.Add(tx.Amount)
		}

		if !d.Before(monthStart) {
			stats.ThisMonth = stats.ThisMonth.Add(tx.Amount)
		}
	}

	if oldest.IsZero() {
		return stats
	}

	days := math.Ceil(now.Sub(oldest).Hours() / 24)
	if days < 1 {
		days = 1
	}

	stats.DailyAverage = total.Div(decimal.NewFromFloat(days)).Round(2)

	return stats
}
