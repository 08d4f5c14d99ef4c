package budget

import (
	"fmt"
	"strings"
	"time"
)

// Active returns the budget whose interval contains the calendar date of now.
// When several overlap, the most recently created wins and equal creation
// times fall back to the greatest ID. No match returns nil without an error.
func Active(budgets []*Budget, now time.Time) (*Budget, error) {
	var active *Budget

	for _, b := range budgets {
		if b == nil {
			continue
		}

		if DateOf(b.EndDate).Before(DateOf(b.StartDate)) {
			return nil, fmt.Errorf("budget %s: %w", b.ID, ErrInvalidInterval)
		}

		if !b.Interval().Contains(now) {
			continue
		}

		if active == nil || newer(b, active) {
			active = b
		}
	}

	return active, nil
}

func newer(a, b *Budget) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}

	return strings.Compare(a.ID.String(), b.ID.String()) > 0
}
