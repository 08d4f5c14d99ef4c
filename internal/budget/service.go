package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	UpdateBudget(ctx context.Context, b *Budget) error
	ListBudgets(ctx context.Context, filter ListFilter) ([]*Budget, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserEmail string
	Amount    decimal.Decimal
	Period    Period
	StartDate time.Time
	EndDate   time.Time
}

type UpdateParams struct {
	Amount    *decimal.Decimal
	Period    *Period
	StartDate *time.Time
	EndDate   *time.Time
}

// ListFilter narrows a budget listing. Sort is a column name, prefixed with
// "-" for descending order.
type ListFilter struct {
	UserEmail string
	Sort      string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	b := &Budget{
		UserEmail: params.UserEmail,
		Amount:    params.Amount,
		Period:    params.Period,
		StartDate: DateOf(params.StartDate),
		EndDate:   DateOf(params.EndDate),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil {
		b.Amount = *params.Amount
	}

	if params.Period != nil {
		b.Period = *params.Period
	}

	if params.StartDate != nil {
		b.StartDate = DateOf(*params.StartDate)
	}

	if params.EndDate != nil {
		b.EndDate = DateOf(*params.EndDate)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, filter)
}

// ForUser lists a user's budgets, newest first.
func (s *Service) ForUser(ctx context.Context, email string) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, ListFilter{UserEmail: email, Sort: "-created_at"})
}

// Active resolves the user's budget for the calendar date of now.
func (s *Service) Active(ctx context.Context, email string, now time.Time) (*Budget, error) {
	budgets, err := s.ForUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	return Active(budgets, now)
}
