package alert_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/alert"
)

func TestClassify(t *testing.T) {
	type testCase struct {
		name       string
		percentage float64
		want       alert.Level
	}

	tests := []testCase{
		{name: "Zero", percentage: 0, want: alert.LevelSafe},
		{name: "JustBelowWarning", percentage: 79.999, want: alert.LevelSafe},
		{name: "WarningBoundary", percentage: 80, want: alert.LevelWarning},
		{name: "JustBelowExceeded", percentage: 99.999, want: alert.LevelWarning},
		{name: "ExceededBoundary", percentage: 100, want: alert.LevelExceeded},
		{name: "WellOver", percentage: 114, want: alert.LevelExceeded},
		{name: "Negative", percentage: -5, want: alert.LevelSafe},
		{name: "Infinite", percentage: math.Inf(1), want: alert.LevelExceeded},
		{name: "NaN", percentage: math.NaN(), want: alert.LevelSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alert.Classify(tt.percentage)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, alert.Classify(tt.percentage))
		})
	}
}

func TestNewBanner(t *testing.T) {
	limit := decimal.NewFromInt(500)

	type testCase struct {
		name       string
		level      alert.Level
		spent      decimal.Decimal
		percentage float64
		want       alert.Banner
	}

	tests := []testCase{
		{
			name:       "Exceeded",
			level:      alert.LevelExceeded,
			spent:      decimal.NewFromInt(570),
			percentage: 114,
			want: alert.Banner{
				Title:   "Budget Exceeded!",
				Message: "You've spent $570.00 of your $500.00 budget. That's $70.00 over your limit.",
			},
		},
		{
			name:       "Warning",
			level:      alert.LevelWarning,
			spent:      decimal.NewFromInt(425),
			percentage: 85,
			want: alert.Banner{
				Title:   "Approaching Your Limit",
				Message: "You've used 85% of your budget. Only $75.00 remaining!",
			},
		},
		{
			name:       "Safe",
			level:      alert.LevelSafe,
			spent:      decimal.RequireFromString("12.5"),
			percentage: 2.5,
			want: alert.Banner{
				Title:   "You're Doing Great!",
				Message: "You've spent $12.50 of $500.00. Keep up the good work!",
			},
		},
		{
			name:  "SafeNothingSpent",
			level: alert.LevelSafe,
			spent: decimal.Zero,
			want:  alert.Banner{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alert.NewBanner(tt.level, tt.spent, limit, tt.percentage)
			assert.Equal(t, tt.want, got)
		})
	}
}
