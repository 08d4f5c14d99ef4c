package spending_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/spending"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestComputeStats(t *testing.T) {
	// Saturday 17 October 2026; the week started on Sunday the 11th.
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	txs := []*transaction.Transaction{
		tx("10", transaction.CategoryFood, date(2026, 10, 11)),
		tx("5", transaction.CategoryFood, date(2026, 10, 17)),
		tx("20", transaction.CategoryTravel, date(2026, 10, 10)),
		tx("30", transaction.CategoryOther, date(2026, 9, 28)),
	}

	got := spending.ComputeStats(txs, now)

	assert.Equal(t, "15", got.ThisWeek.String())
	assert.Equal(t, "35", got.ThisMonth.String())
	// 65 spent over ceil(19.5) = 20 days since 28 September.
	assert.Equal(t, "3.25", got.DailyAverage.String())
}

func TestComputeStats_SameDayCountsOneDay(t *testing.T) {
	now := date(2026, 10, 17)

	got := spending.ComputeStats([]*transaction.Transaction{
		tx("12.40", transaction.CategoryFood, now),
	}, now)

	assert.True(t, got.DailyAverage.Equal(decimal.RequireFromString("12.40")))
}

func TestComputeStats_Empty(t *testing.T) {
	got := spending.ComputeStats(nil, time.Now())

	assert.True(t, got.ThisWeek.IsZero())
	assert.True(t, got.ThisMonth.IsZero())
	assert.True(t, got.DailyAverage.IsZero())
}
