package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is the recurrence a budget was created for.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly
}

var (
	ErrNotFound        = errors.New("budget not found")
	ErrInvalidInterval = errors.New("budget end date is before its start date")
	ErrInvalidAmount   = errors.New("budget amount must be positive")
	ErrInvalidPeriod   = errors.New("budget period must be weekly or monthly")
)

// Budget is a spending limit a user set for one calendar interval.
type Budget struct {
	ID        uuid.UUID
	UserEmail string
	Amount    decimal.Decimal
	Period    Period
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Interval returns the budget's inclusive date range.
func (b *Budget) Interval() Interval {
	return NewInterval(b.StartDate, b.EndDate)
}

// Validate reports whether the budget is internally consistent.
func (b *Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}

	if DateOf(b.EndDate).Before(DateOf(b.StartDate)) {
		return ErrInvalidInterval
	}

	return nil
}
