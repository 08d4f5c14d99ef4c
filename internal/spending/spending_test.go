package spending_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/spending"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func tx(amount string, category transaction.Category, on time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:       uuid.New(),
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     on,
	}
}

func TestAggregate_MonthScenario(t *testing.T) {
	interval := budget.NewInterval(date(2026, 10, 1), date(2026, 10, 31))
	limit := decimal.NewFromInt(500)

	txs := []*transaction.Transaction{
		tx("120", transaction.CategoryFood, date(2026, 10, 3)),
		tx("450", transaction.CategoryShopping, date(2026, 10, 12)),
		tx("80", transaction.CategoryTravel, date(2026, 9, 30)),
	}

	got, err := spending.Aggregate(txs, &interval, &limit)
	require.NoError(t, err)

	assert.True(t, got.Spent.Equal(decimal.NewFromInt(570)), "spent %s", got.Spent)
	assert.InDelta(t, 114.0, got.Percentage, 1e-9)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Breakdown, 2)
	assert.Equal(t, transaction.CategoryShopping, got.Breakdown[0].Category)
	assert.Equal(t, transaction.CategoryFood, got.Breakdown[1].Category)
}

func TestAggregate_IntervalBoundaries(t *testing.T) {
	interval := budget.NewInterval(date(2026, 10, 1), date(2026, 10, 31))

	txs := []*transaction.Transaction{
		tx("1.10", transaction.CategoryFood, date(2026, 10, 1)),
		tx("2.20", transaction.CategoryFood, time.Date(2026, 10, 31, 22, 0, 0, 0, time.UTC)),
		tx("100", transaction.CategoryFood, date(2026, 9, 30)),
		tx("100", transaction.CategoryFood, date(2026, 11, 1)),
	}

	got, err := spending.Aggregate(txs, &interval, nil)
	require.NoError(t, err)

	assert.True(t, got.Spent.Equal(decimal.RequireFromString("3.30")), "spent %s", got.Spent)
	assert.Equal(t, 2, got.Count)
	assert.Zero(t, got.Percentage)
}

func TestAggregate_NoIntervalSumsEverything(t *testing.T) {
	limit := decimal.Zero

	txs := []*transaction.Transaction{
		tx("10", transaction.CategoryFood, date(2020, 1, 1)),
		tx("0.1", transaction.CategoryOther, date(2026, 10, 1)),
		tx("0.2", transaction.CategoryOther, date(2030, 5, 5)),
	}

	got, err := spending.Aggregate(txs, nil, &limit)
	require.NoError(t, err)

	assert.Equal(t, "10.3", got.Spent.String())
	assert.Equal(t, 3, got.Count)
	assert.Zero(t, got.Percentage)
}

func TestAggregate_Empty(t *testing.T) {
	limit := decimal.NewFromInt(100)

	got, err := spending.Aggregate(nil, nil, &limit)
	require.NoError(t, err)

	assert.True(t, got.Spent.IsZero())
	assert.Zero(t, got.Percentage)
	assert.Empty(t, got.Breakdown)
	assert.Zero(t, got.Count)
}

func TestAggregate_RejectsNegativeAmount(t *testing.T) {
	txs := []*transaction.Transaction{
		tx("10", transaction.CategoryFood, date(2026, 10, 1)),
		tx("-3", transaction.CategoryFood, date(2026, 10, 2)),
	}

	_, err := spending.Aggregate(txs, nil, nil)
	require.ErrorIs(t, err, spending.ErrInvalidAmount)
	assert.ErrorIs(t, err, transaction.ErrInvalidAmount)
}

func TestAggregate_BreakdownOrdering(t *testing.T) {
	txs := []*transaction.Transaction{
		tx("10", transaction.CategoryOther, date(2026, 10, 1)),
		tx("10", transaction.CategoryTravel, date(2026, 10, 1)),
		tx("30", transaction.CategorySubscriptions, date(2026, 10, 1)),
		tx("10", transaction.CategoryFood, date(2026, 10, 1)),
		tx("5", transaction.CategoryShopping, date(2026, 10, 1)),
		tx("5", transaction.CategoryShopping, date(2026, 10, 2)),
	}

	got, err := spending.Aggregate(txs, nil, nil)
	require.NoError(t, err)

	var order []transaction.Category
	for _, c := range got.Breakdown {
		order = append(order, c.Category)
	}

	assert.Equal(t, []transaction.Category{
		transaction.CategorySubscriptions,
		transaction.CategoryFood,
		transaction.CategoryTravel,
		transaction.CategoryShopping,
		transaction.CategoryOther,
	}, order)
	assert.InDelta(t, 42.857, got.Breakdown[0].Share, 0.001)
	assert.LessOrEqual(t, len(got.Breakdown), spending.MaxCategories)
}

func TestAggregate_Idempotent(t *testing.T) {
	interval := budget.NewInterval(date(2026, 10, 1), date(2026, 10, 31))
	limit := decimal.NewFromInt(250)

	txs := []*transaction.Transaction{
		tx("19.99", transaction.CategorySubscriptions, date(2026, 10, 2)),
		tx("42.10", transaction.CategoryFood, date(2026, 10, 9)),
		tx("7.35", transaction.CategoryTravel, date(2026, 10, 9)),
	}

	first, err := spending.Aggregate(txs, &interval, &limit)
	require.NoError(t, err)

	second, err := spending.Aggregate(txs, &interval, &limit)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
