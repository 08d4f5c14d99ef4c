// Package matching assigns categories to imported transactions from rules a
// user taught it. A rule matches when its pattern appears anywhere in the
// description, ignoring case; the longest matching pattern wins.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

var ErrEmptyPattern = errors.New("rule pattern must not be empty")

type Repository interface {
	FindCategory(ctx context.Context, userEmail, description string) (transaction.Category, bool, error)
	CreateRule(ctx context.Context, userEmail, pattern string, category transaction.Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the best rule for description, if any.
func (s *Service) Suggest(ctx context.Context, userEmail, description string) (transaction.Category, bool, error) {
	category, ok, err := s.repo.FindCategory(ctx, userEmail, description)
	if err != nil {
		return "", false, fmt.Errorf("finding category rule: %w", err)
	}

	return category, ok, nil
}

// Learn stores a rule mapping descriptions containing pattern to category.
func (s *Service) Learn(ctx context.Context, userEmail, pattern string, category transaction.Category) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ErrEmptyPattern
	}

	if !category.Valid() {
		return transaction.ErrInvalidCategory
	}

	if err := s.repo.CreateRule(ctx, userEmail, pattern, category); err != nil {
		return fmt.Errorf("creating category rule: %w", err)
	}

	return nil
}

// Categorize fills in the category of rows still marked Other. Rows that
// already carry a specific category are left alone.
func (s *Service) Categorize(ctx context.Context, userEmail string, params []transaction.CreateParams) error {
	for i := range params {
		if params[i].Category != "" && params[i].Category != transaction.CategoryOther {
			continue
		}

		category, ok, err := s.Suggest(ctx, userEmail, params[i].Description)
		if err != nil {
			return err
		}

		if ok {
			params[i].Category = category
		}
	}

	return nil
}
