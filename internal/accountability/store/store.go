package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) MarkNotified(ctx context.Context, userEmail string, budgetID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO accountability_notifications (user_email, budget_id, notified_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_email, budget_id) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, userEmail, budgetID)
	if err != nil {
		return false, fmt.Errorf("inserting notification flag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting notification flag: %w", err)
	}

	return n == 1, nil
}

func (s *Store) ClearNotified(ctx context.Context, userEmail string, budgetID uuid.UUID) error {
	query := `DELETE FROM accountability_notifications WHERE user_email = $1 AND budget_id = $2`

	if _, err := s.db.ExecContext(ctx, query, userEmail, budgetID); err != nil {
		return fmt.Errorf("deleting notification flag: %w", err)
	}

	return nil
}
