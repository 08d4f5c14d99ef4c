// Package accountability tells a user's circle when they blow their budget,
// at most once per budget.
package accountability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is raised when a user with accountability mode on exceeds a budget.
type Event struct {
	UserEmail   string
	DisplayName string
	BudgetID    uuid.UUID
	Limit       decimal.Decimal
	Spent       decimal.Decimal
	Overage     decimal.Decimal
	Percentage  float64
	OccurredAt  time.Time
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, e Event) error

func (f NotifierFunc) Notify(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// LogNotifier records events in the application log. It is the delivery used
// when no message broker is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, e Event) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "budget exceeded",
		"user", e.UserEmail,
		"budget_id", e.BudgetID,
		"spent", e.Spent.StringFixed(2),
		"limit", e.Limit.StringFixed(2),
		"overage", e.Overage.StringFixed(2),
	)

	return nil
}

// Multi delivers to every notifier and joins their errors.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, e Event) error {
		var errs []error

		for _, n := range notifiers {
			if err := n.Notify(ctx, e); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	})
}
