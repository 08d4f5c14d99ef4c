package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/friend"
	"github.com/MrJamesThe3rd/tally/internal/spending"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

// DefaultConcurrency bounds the per-member fan-out when none is configured.
const DefaultConcurrency = 8

//go:generate mockgen -source=service.go -destination=service_mock.go -package=leaderboard
type Friends interface {
	Graph(ctx context.Context) (*friend.Graph, error)
}

type Users interface {
	Get(ctx context.Context, email string) (*user.User, error)
}

type Budgets interface {
	ForUser(ctx context.Context, email string) ([]*budget.Budget, error)
}

type Transactions interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	friends      Friends
	users        Users
	budgets      Budgets
	transactions Transactions
	concurrency  int
}

func NewService(friends Friends, users Users, budgets Budgets, transactions Transactions, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Service{
		friends:      friends,
		users:        users,
		budgets:      budgets,
		transactions: transactions,
		concurrency:  concurrency,
	}
}

// Leaderboard ranks caller and their accepted friends at now. Members whose
// data cannot be loaded are left off the board; only a failure to load the
// friend graph or a cancelled context fails the call.
func (s *Service) Leaderboard(ctx context.Context, caller string, now time.Time) (Board, error) {
	graph, err := s.friends.Graph(ctx)
	if err != nil {
		return Board{}, fmt.Errorf("loading friend graph: %w", err)
	}

	group := graph.Group(caller)
	slots := make([]*Entry, len(group))

	var g errgroup.Group

	g.SetLimit(s.concurrency)

	for i, email := range group {
		g.Go(func() error {
			entry, err := s.entry(ctx, email, now)
			if err != nil {
				slog.Warn("excluding leaderboard member", "email", email, "error", err)
				return nil
			}

			slots[i] = entry

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Board{}, err
	}

	entries := make([]Entry, 0, len(slots))

	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	return NewBoard(entries, caller), nil
}

func (s *Service) entry(ctx context.Context, email string, now time.Time) (*Entry, error) {
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

	e := &Entry{
		Email:              u.Email,
		DisplayName:        u.Name(),
		AccountabilityMode: u.AccountabilityMode,
		TotalSaved:         u.Saved(),
		Streak:             u.Streak(),
		SuccessRate:        SuccessRate(0, false),
	}

	if active == nil {
		return e, nil
	}

	interval := active.Interval()

	txs, err := s.transactions.List(ctx, transaction.ListFilter{
		UserEmail: email,
		StartDate: &interval.Start,
		EndDate:   &interval.End,
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	summary, err := spending.Aggregate(txs, &interval, &active.Amount)
	if err != nil {
		return nil, fmt.Errorf("aggregating spending: %w", err)
	}

	e.HasBudget = true
	e.SuccessRate = SuccessRate(summary.Percentage, true)

	return e, nil
}
