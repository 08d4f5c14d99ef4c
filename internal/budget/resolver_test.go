package budget_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/budget"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newBudget(start, end time.Time, created time.Time) *budget.Budget {
	return &budget.Budget{
		ID:        uuid.New(),
		UserEmail: "ana@example.com",
		Amount:    decimal.NewFromInt(500),
		Period:    budget.PeriodMonthly,
		StartDate: start,
		EndDate:   end,
		CreatedAt: created,
	}
}

func TestActive(t *testing.T) {
	march := newBudget(date(2026, 3, 1), date(2026, 3, 31), date(2026, 3, 1))
	april := newBudget(date(2026, 4, 1), date(2026, 4, 30), date(2026, 4, 1))

	type testCase struct {
		name    string
		budgets []*budget.Budget
		now     time.Time
		want    *budget.Budget
	}

	tests := []testCase{
		{
			name:    "InsideInterval",
			budgets: []*budget.Budget{april, march},
			now:     time.Date(2026, 3, 15, 13, 30, 0, 0, time.UTC),
			want:    march,
		},
		{
			name:    "StartDateInclusive",
			budgets: []*budget.Budget{march},
			now:     date(2026, 3, 1),
			want:    march,
		},
		{
			name:    "EndDateInclusiveUntilMidnight",
			budgets: []*budget.Budget{march},
			now:     time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
			want:    march,
		},
		{
			name:    "OutsideEveryInterval",
			budgets: []*budget.Budget{march, april},
			now:     date(2026, 5, 2),
			want:    nil,
		},
		{
			name:    "NoBudgets",
			budgets: nil,
			now:     date(2026, 3, 2),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := budget.Active(tt.budgets, tt.now)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestActive_OverlapPrefersMostRecentlyCreated(t *testing.T) {
	older := newBudget(date(2026, 3, 1), date(2026, 3, 31), date(2026, 2, 27))
	newer := newBudget(date(2026, 3, 10), date(2026, 3, 16), date(2026, 3, 10))

	got, err := budget.Active([]*budget.Budget{older, newer}, date(2026, 3, 12))
	require.NoError(t, err)
	assert.Same(t, newer, got)

	got, err = budget.Active([]*budget.Budget{newer, older}, date(2026, 3, 12))
	require.NoError(t, err)
	assert.Same(t, newer, got)
}

func TestActive_EqualCreationUsesGreatestID(t *testing.T) {
	created := date(2026, 3, 1)
	a := newBudget(date(2026, 3, 1), date(2026, 3, 31), created)
	b := newBudget(date(2026, 3, 1), date(2026, 3, 31), created)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	got, err := budget.Active([]*budget.Budget{b, a}, date(2026, 3, 5))
	require.NoError(t, err)
	assert.Same(t, b, got)

	got, err = budget.Active([]*budget.Budget{a, b}, date(2026, 3, 5))
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestActive_RejectsInvertedInterval(t *testing.T) {
	broken := newBudget(date(2026, 3, 31), date(2026, 3, 1), date(2026, 3, 1))

	got, err := budget.Active([]*budget.Budget{broken}, date(2026, 3, 15))
	require.ErrorIs(t, err, budget.ErrInvalidInterval)
	assert.Nil(t, got)
}

func TestActive_OnlyReturnsContainingBudget(t *testing.T) {
	budgets := []*budget.Budget{
		newBudget(date(2026, 1, 1), date(2026, 1, 31), date(2026, 1, 1)),
		newBudget(date(2026, 2, 2), date(2026, 2, 8), date(2026, 2, 2)),
		newBudget(date(2026, 2, 1), date(2026, 2, 28), date(2026, 1, 30)),
	}

	for day := date(2025, 12, 25); day.Before(date(2026, 3, 5)); day = day.AddDate(0, 0, 1) {
		got, err := budget.Active(budgets, day)
		require.NoError(t, err)

		if got == nil {
			for _, b := range budgets {
				assert.False(t, b.Interval().Contains(day), "missed budget on %s", day.Format(time.DateOnly))
			}

			continue
		}

		assert.True(t, got.Interval().Contains(day), "returned budget outside interval on %s", day.Format(time.DateOnly))
	}
}
