// Package overview assembles the budget page for one user.
package overview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/alert"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/spending"
	"github.com/MrJamesThe3rd/tally/internal/tradeoff"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=overview
type Users interface {
	Get(ctx context.Context, email string) (*user.User, error)
}

type Budgets interface {
	ForUser(ctx context.Context, email string) ([]*budget.Budget, error)
}

type Transactions interface {
	ForUser(ctx context.Context, email string) ([]*transaction.Transaction, error)
}

type Tracker interface {
	Check(ctx context.Context, u *user.User, b *budget.Budget, summary spending.Summary, level alert.Level, now time.Time) (bool, error)
}

// View is everything the budget page shows. Level, Banner, Insights, Tip and
// Remaining are only set when a budget is active.
type View struct {
	User      *user.User
	Budget    *budget.Budget
	Summary   spending.Summary
	Stats     spending.Stats
	Level     alert.Level
	Banner    alert.Banner
	Insights  []tradeoff.Insight
	Tip       string
	Remaining *decimal.Decimal
	Notified  bool
}

type Service struct {
	users        Users
	budgets      Budgets
	transactions Transactions
	tracker      Tracker
	advisor      *tradeoff.Advisor
}

func NewService(users Users, budgets Budgets, transactions Transactions, tracker Tracker, advisor *tradeoff.Advisor) *Service {
	if advisor == nil {
		advisor = tradeoff.NewAdvisor()
	}

	return &Service{
		users:        users,
		budgets:      budgets,
		transactions: transactions,
		tracker:      tracker,
		advisor:      advisor,
	}
}

// Build computes email's view at now. Without an active budget the summary
// covers every transaction and no alert is raised.
func (s *Service) Build(ctx context.Context, email string, now time.Time) (*View, error) {
	u, err := s.users.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	budgets, err := s.budgets.ForUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	active, err := budget.Active(budgets, now)
	if err != nil {
		return nil, fmt.Errorf("resolving active budget: %w", err)
	}

	txs, err := s.transactions.ForUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	view := &View{
		User:   u,
		Budget: active,
		Stats:  spending.ComputeStats(txs, now),
	}

	if active == nil {
		view.Summary, err = spending.Aggregate(txs, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("aggregating spending: %w", err)
		}

		return view, nil
	}

	interval := active.Interval()

	view.Summary, err = spending.Aggregate(txs, &interval, &active.Amount)
	if err != nil {
		return nil, fmt.Errorf("aggregating spending: %w", err)
	}

	remaining := active.Amount.Sub(view.Summary.Spent)

	view.Level = alert.Classify(view.Summary.Percentage)
	view.Banner = alert.NewBanner(view.Level, view.Summary.Spent, active.Amount, view.Summary.Percentage)
	view.Insights = s.advisor.Insights(within(txs, interval), active.Amount, tradeoff.DefaultLimit)
	view.Tip = s.advisor.Tip(remaining)
	view.Remaining = &remaining

	notified, err := s.tracker.Check(ctx, u, active, view.Summary, view.Level, now)
	if err != nil {
		slog.Error("accountability check failed", "user", email, "budget_id", active.ID, "error", err)
	}

	view.Notified = notified

	return view, nil
}

// Recheck re-evaluates email's active budget after spending was recorded and
// lets the tracker notify when it is now exceeded. It reports whether a
// notification went out.
func (s *Service) Recheck(ctx context.Context, email string, now time.Time) (bool, error) {
	budgets, err := s.budgets.ForUser(ctx, email)
	if err != nil {
		return false, fmt.Errorf("listing budgets: %w", err)
	}

	active, err := budget.Active(budgets, now)
	if err != nil {
		return false, fmt.Errorf("resolving active budget: %w", err)
	}

	if active == nil {
		return false, nil
	}

	txs, err := s.transactions.ForUser(ctx, email)
	if err != nil {
		return false, fmt.Errorf("listing transactions: %w", err)
	}

	interval := active.Interval()

	summary, err := spending.Aggregate(txs, &interval, &active.Amount)
	if err != nil {
		return false, fmt.Errorf("aggregating spending: %w", err)
	}

	level := alert.Classify(summary.Percentage)
	if level != alert.LevelExceeded {
		return false, nil
	}

	u, err := s.users.Get(ctx, email)
	if err != nil {
		return false, fmt.Errorf("getting user: %w", err)
	}

	return s.tracker.Check(ctx, u, active, summary, level, now)
}

func within(txs []*transaction.Transaction, interval budget.Interval) []*transaction.Transaction {
	var out []*transaction.Transaction

	for _, tx := range txs {
		if tx != nil && interval.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out
}
