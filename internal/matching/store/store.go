package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, userEmail, description string) (transaction.Category, bool, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE user_email = $1 AND $2 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, userEmail, description).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("finding category rule: %w", err)
	}

	return transaction.Category(category), true, nil
}

func (s *Store) CreateRule(ctx context.Context, userEmail, pattern string, category transaction.Category) error {
	query := `
		INSERT INTO category_rules (user_email, pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, userEmail, pattern, string(category)); err != nil {
		return fmt.Errorf("creating category rule: %w", err)
	}

	return nil
}
