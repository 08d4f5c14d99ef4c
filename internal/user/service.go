package user

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	EnsureUser(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]*User, error)
	SetAccountabilityMode(ctx context.Context, email string, enabled bool) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFilter narrows a user listing. An empty Emails matches everyone.
type ListFilter struct {
	Emails []string
	// Query matches a substring of the email or display name, ignoring case.
	Query string
	Sort  string
}

// Ensure returns the user with the given email, creating an empty profile on
// first sight.
func (s *Service) Ensure(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.EnsureUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ensuring user: %w", err)
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUser(ctx, email)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	return s.repo.ListUsers(ctx, filter)
}

func (s *Service) SetAccountabilityMode(ctx context.Context, email string, enabled bool) (*User, error) {
	if err := s.repo.SetAccountabilityMode(ctx, email, enabled); err != nil {
		return nil, err
	}

	return s.repo.GetUser(ctx, email)
}
