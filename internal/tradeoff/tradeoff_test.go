package tradeoff_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/tradeoff"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestAdvisor_Nearest(t *testing.T) {
	type testCase struct {
		name   string
		amount string
		want   string
	}

	tests := []testCase{
		{name: "Exact", amount: "15", want: "a movie ticket"},
		{name: "BelowTable", amount: "0.50", want: "a fancy coffee"},
		{name: "TieGoesToEarlier", amount: "10", want: "a fancy coffee"},
		{name: "TieBetweenTakeoutAndUber", amount: "37.50", want: "takeout dinner"},
		{name: "Closer", amount: "40", want: "an Uber ride"},
		{name: "AboveTable", amount: "450", want: "new shoes"},
	}

	advisor := tradeoff.NewAdvisor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advisor.Nearest(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got.Equivalent)
		})
	}
}

func TestAdvisor_Message(t *testing.T) {
	advisor := tradeoff.NewAdvisor()

	over := advisor.Message(decimal.NewFromInt(450), "a new jacket", decimal.NewFromInt(380))
	assert.Equal(t, "That $450.00 on a new jacket pushed you $70.00 over budget!", over)

	within := advisor.Message(decimal.RequireFromString("4.75"), "latte", decimal.NewFromInt(100))
	assert.Equal(t, "That $4.75 on latte is like spending on a fancy coffee; you could've had 5 homemade coffees instead.", within)

	exact := advisor.Message(decimal.NewFromInt(100), "sneakers", decimal.NewFromInt(100))
	assert.Contains(t, exact, "like spending on new shoes")
}

func TestAdvisor_Tip(t *testing.T) {
	advisor := tradeoff.NewAdvisor()

	assert.Equal(t, "You have $48.00 left. That's enough for a week of bus passes!", advisor.Tip(decimal.NewFromInt(48)))
	assert.Empty(t, advisor.Tip(decimal.Zero))
	assert.Empty(t, advisor.Tip(decimal.NewFromInt(-70)))
}

func TestAdvisor_Insights(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC) }
	mk := func(amount, desc string, d int) *transaction.Transaction {
		return &transaction.Transaction{
			ID:          uuid.New(),
			Amount:      decimal.RequireFromString(amount),
			Description: desc,
			Date:        day(d),
		}
	}

	groceries := mk("120", "groceries", 3)
	jacket := mk("450", "a new jacket", 12)

	advisor := tradeoff.NewAdvisor()
	got := advisor.Insights([]*transaction.Transaction{jacket, groceries}, decimal.NewFromInt(500), 0)

	require.Len(t, got, 2)
	assert.Equal(t, jacket.ID, got[0].TransactionID)
	assert.True(t, got[0].OverBudget)
	assert.Contains(t, got[0].Message, "$70.00 over budget")
	assert.Equal(t, groceries.ID, got[1].TransactionID)
	assert.False(t, got[1].OverBudget)
}

func TestAdvisor_InsightsLimit(t *testing.T) {
	var txs []*transaction.Transaction
	for d := 1; d <= 6; d++ {
		txs = append(txs, &transaction.Transaction{
			ID:          uuid.New(),
			Amount:      decimal.NewFromInt(5),
			Description: "coffee",
			Date:        time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC),
		})
	}

	advisor := tradeoff.NewAdvisor()

	got := advisor.Insights(txs, decimal.NewFromInt(100), 0)
	require.Len(t, got, tradeoff.DefaultLimit)
	assert.Equal(t, txs[5].ID, got[0].TransactionID)
	assert.Equal(t, txs[3].ID, got[2].TransactionID)

	assert.Empty(t, advisor.Insights(nil, decimal.NewFromInt(100), 3))
}
