package leaderboard_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/leaderboard"
)

func TestSuccessRate(t *testing.T) {
	type testCase struct {
		name       string
		percentage float64
		hasBudget  bool
		want       float64
	}

	tests := []testCase{
		{name: "NoBudget", percentage: 250, hasBudget: false, want: 100},
		{name: "UnderBudget", percentage: 40, hasBudget: true, want: 100},
		{name: "ExactlyOnBudget", percentage: 100, hasBudget: true, want: 100},
		{name: "Over", percentage: 114, hasBudget: true, want: 86},
		{name: "SaturatesAtZero", percentage: 320, hasBudget: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, leaderboard.SuccessRate(tt.percentage, tt.hasBudget), 1e-9)
		})
	}
}

func TestRank_SavedThenSuccessRate(t *testing.T) {
	entries := []leaderboard.Entry{
		{Email: "a", TotalSaved: decimal.NewFromInt(300), SuccessRate: 90},
		{Email: "b", TotalSaved: decimal.NewFromInt(300), SuccessRate: 95},
		{Email: "c", TotalSaved: decimal.NewFromInt(450), SuccessRate: 10},
	}

	got := leaderboard.Rank(entries)

	assert.Equal(t, "c", got[0].Email)
	assert.Equal(t, "b", got[1].Email)
	assert.Equal(t, "a", got[2].Email)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Rank, got[1].Rank, got[2].Rank})
	assert.Equal(t, "a", entries[0].Email, "input must not be reordered")
}

func TestRank_StableForEqualKeys(t *testing.T) {
	var entries []leaderboard.Entry
	for _, e := range []string{"d", "a", "c", "b"} {
		entries = append(entries, leaderboard.Entry{Email: e, TotalSaved: decimal.NewFromInt(10), SuccessRate: 100})
	}

	got := leaderboard.Rank(entries)

	var order []string
	for _, e := range got {
		order = append(order, e.Email)
	}

	assert.Equal(t, []string{"d", "a", "c", "b"}, order)
}

func TestNewBoard_CallerRank(t *testing.T) {
	entries := []leaderboard.Entry{
		{Email: "ana", TotalSaved: decimal.NewFromInt(10)},
		{Email: "bo", TotalSaved: decimal.NewFromInt(20)},
	}

	assert.Equal(t, 2, leaderboard.NewBoard(entries, "ana").CallerRank)
	assert.Equal(t, 0, leaderboard.NewBoard(entries, "cy").CallerRank)
	assert.Equal(t, 0, leaderboard.NewBoard(nil, "ana").CallerRank)
}

func TestRankMessage(t *testing.T) {
	assert.Equal(t, "You're the champion!", leaderboard.RankMessage(1))
	assert.Equal(t, "So close to #1! Keep pushing!", leaderboard.RankMessage(2))
	assert.Equal(t, "Great job! You're in the top 3!", leaderboard.RankMessage(3))
	assert.Equal(t, "You're currently ranked #7", leaderboard.RankMessage(7))
	assert.Equal(t, "You're not on the leaderboard yet", leaderboard.RankMessage(0))
}
