package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestTimeframe_Resolve(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

	day := func(m time.Month, d int) time.Time {
		return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
	}

	type testCase struct {
		name      string
		timeframe Timeframe
		want      *budget.Interval
	}

	tests := []testCase{
		{name: "this week starts monday", timeframe: TimeframeThisWeek, want: &budget.Interval{Start: day(10, 12), End: day(10, 17)}},
		{name: "last week", timeframe: TimeframeLastWeek, want: &budget.Interval{Start: day(10, 5), End: day(10, 11)}},
		{name: "this month", timeframe: TimeframeThisMonth, want: &budget.Interval{Start: day(10, 1), End: day(10, 17)}},
		{name: "last month", timeframe: TimeframeLastMonth, want: &budget.Interval{Start: day(9, 1), End: day(9, 30)}},
		{name: "all time is unbounded", timeframe: TimeframeAll},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.timeframe.resolve(now))
		})
	}
}

func TestTimeframeSelectedMsg_Apply(t *testing.T) {
	t.Run("all time leaves the filter open", func(t *testing.T) {
		filter := transaction.ListFilter{UserEmail: "ana@example.com"}

		TimeframeSelectedMsg{}.Apply(&filter)

		assert.Nil(t, filter.StartDate)
		assert.Nil(t, filter.EndDate)
	})

	t.Run("interval bounds the filter", func(t *testing.T) {
		interval := budget.NewInterval(
			time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		)
		filter := transaction.ListFilter{}

		TimeframeSelectedMsg{Interval: &interval}.Apply(&filter)

		require.NotNil(t, filter.StartDate)
		require.NotNil(t, filter.EndDate)
		assert.Equal(t, interval.Start, *filter.StartDate)
		assert.Equal(t, interval.End, *filter.EndDate)
	})
}
