// Package leaderboard ranks a user against their accepted friends by money
// saved and budget adherence.
package leaderboard

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// FullSuccess is the success rate of a member with no active budget.
const FullSuccess = 100.0

type Entry struct {
	Email              string
	DisplayName        string
	AccountabilityMode bool
	TotalSaved         decimal.Decimal
	SuccessRate        float64
	Streak             int
	HasBudget          bool
	Rank               int
}

type Board struct {
	Entries []Entry
	// CallerRank is the caller's 1-based position, or 0 when the caller could
	// not be ranked.
	CallerRank int
}

// SuccessRate loses one point per percent spent over budget and bottoms out
// at zero.
func SuccessRate(percentage float64, hasBudget bool) float64 {
	if !hasBudget {
		return FullSuccess
	}

	return math.Max(0, FullSuccess-math.Max(0, percentage-100))
}

// Rank orders entries by TotalSaved then SuccessRate, both descending, and
// numbers them from 1. Equal keys keep their input order.
func Rank(entries []Entry) []Entry {
	ranked := slices.Clone(entries)

	slices.SortStableFunc(ranked, func(a, b Entry) int {
		if c := b.TotalSaved.Cmp(a.TotalSaved); c != 0 {
			return c
		}

		switch {
		case a.SuccessRate > b.SuccessRate:
			return -1
		case a.SuccessRate < b.SuccessRate:
			return 1
		default:
			return 0
		}
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// NewBoard ranks entries and locates caller among them.
func NewBoard(entries []Entry, caller string) Board {
	ranked := Rank(entries)

	b := Board{Entries: ranked}

	for _, e := range ranked {
		if e.Email == caller {
			b.CallerRank = e.Rank
			break
		}
	}

	return b
}

func RankMessage(rank int) string {
	switch {
	case rank <= 0:
		return "You're not on the leaderboard yet"
	case rank == 1:
		return "You're the champion!"
	case rank == 2:
		return "So close to #1! Keep pushing!"
	case rank == 3:
		return "Great job! You're in the top 3!"
	default:
		return fmt.Sprintf("You're currently ranked #%d", rank)
	}
}
