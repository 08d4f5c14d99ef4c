// Package alert maps a budget usage percentage to the level shown to the user.
package alert

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

type Level string

const (
	LevelSafe     Level = "safe"
	LevelWarning  Level = "warning"
	LevelExceeded Level = "exceeded"
)

const (
	WarningThreshold  = 80.0
	ExceededThreshold = 100.0
)

// Classify is total over float64; NaN falls through to safe.
func Classify(percentage float64) Level {
	switch {
	case percentage >= ExceededThreshold:
		return LevelExceeded
	case percentage >= WarningThreshold:
		return LevelWarning
	default:
		return LevelSafe
	}
}

// Banner is the headline and body shown above the budget gauge.
type Banner struct {
	Title   string
	Message string
}

func (b Banner) IsZero() bool {
	return b.Title == "" && b.Message == ""
}

// NewBanner renders the banner for a level. A safe budget with nothing spent
// yet gets no banner.
func NewBanner(level Level, spent, limit decimal.Decimal, percentage float64) Banner {
	switch level {
	case LevelExceeded:
		return Banner{
			Title: "Budget Exceeded!",
			Message: fmt.Sprintf("You've spent %s of your %s budget. That's %s over your limit.",
				money.Format(spent), money.Format(limit), money.Format(spent.Sub(limit))),
		}
	case LevelWarning:
		return Banner{
			Title: "Approaching Your Limit",
			Message: fmt.Sprintf("You've used %.0f%% of your budget. Only %s remaining!",
				percentage, money.Format(limit.Sub(spent))),
		}
	default:
		if !spent.IsPositive() {
			return Banner{}
		}

		return Banner{
			Title: "You're Doing Great!",
			Message: fmt.Sprintf("You've spent %s of %s. Keep up the good work!",
				money.Format(spent), money.Format(limit)),
		}
	}
}
