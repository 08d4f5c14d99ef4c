package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/friend"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectFriendColumns = `
	f.id, f.requester_email, f.recipient_email, f.status, f.created_at
`

var sortColumns = map[string]string{
	"created_at": "f.created_at",
}

func scanFriend(s scanner) (*friend.Friend, error) {
	var f friend.Friend

	var status string

	if err := s.Scan(&f.ID, &f.RequesterEmail, &f.RecipientEmail, &status, &f.CreatedAt); err != nil {
		return nil, err
	}

	f.Status = friend.Status(status)

	return &f, nil
}

func (s *Store) CreateFriend(ctx context.Context, f *friend.Friend) error {
	query := `
		INSERT INTO friends (requester_email, recipient_email, status, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, f.RequesterEmail, f.RecipientEmail, f.Status).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return friend.ErrAlreadyExists
		}

		return fmt.Errorf("creating friend request: %w", err)
	}

	return nil
}

func (s *Store) GetFriend(ctx context.Context, id uuid.UUID) (*friend.Friend, error) {
	query := `SELECT ` + selectFriendColumns + ` FROM friends f WHERE f.id = $1`

	f, err := scanFriend(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, friend.ErrNotFound
		}

		return nil, fmt.Errorf("getting friend request: %w", err)
	}

	return f, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status friend.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE friends SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating friend status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating friend status: %w", err)
	}

	if n == 0 {
		return friend.ErrNotFound
	}

	return nil
}

func (s *Store) ListFriends(ctx context.Context, filter friend.ListFilter) ([]*friend.Friend, error) {
	query := `SELECT ` + selectFriendColumns + ` FROM friends f WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.RequesterEmail != "" {
		query += fmt.Sprintf(" AND f.requester_email = $%d", argIdx)

		args = append(args, filter.RequesterEmail)
		argIdx++
	}

	if filter.RecipientEmail != "" {
		query += fmt.Sprintf(" AND f.recipient_email = $%d", argIdx)

		args = append(args, filter.RecipientEmail)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND f.status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	orderBy, err := database.OrderBy(filter.Sort, sortColumns, "f.id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query+orderBy, args...)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	var friends []*friend.Friend

	for rows.Next() {
		f, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}

		friends = append(friends, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating friend rows: %w", err)
	}

	return friends, nil
}
