package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/user"
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

const selectUserColumns = `
	u.email, u.display_name, u.total_saved, u.current_streak, u.accountability_mode, u.created_at, u.updated_at
`

var sortColumns = map[string]string{
	"email":       "u.email",
	"total_saved": "COALESCE(u.total_saved, 0)",
	"created_at":  "u.created_at",
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var streak sql.NullInt32

	if err := s.Scan(
		&u.Email, &u.DisplayName, &u.TotalSaved, &streak, &u.AccountabilityMode, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if streak.Valid {
		u.CurrentStreak = new(int(streak.Int32))
	}

	return &u, nil
}

func (s *Store) EnsureUser(ctx context.Context, email string) (*user.User, error) {
	query := `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, email); err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return s.GetUser(ctx, email)
}

func (s *Store) GetUser(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users u WHERE u.email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users u`

	var (
		conditions []string
		args       []any
	)

	if len(filter.Emails) > 0 {
		args = append(args, filter.Emails)
		conditions = append(conditions, fmt.Sprintf("u.email = ANY($%d)", len(args)))
	}

	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		conditions = append(conditions, fmt.Sprintf("(u.email ILIKE $%d OR u.display_name ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, err := database.OrderBy(filter.Sort, sortColumns, "u.email ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query+orderBy, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

func (s *Store) SetAccountabilityMode(ctx context.Context, email string, enabled bool) error {
	query := `
		UPDATE users
		SET accountability_mode = $1, updated_at = NOW()
		WHERE email = $2
	`

	res, err := s.db.ExecContext(ctx, query, enabled, email)
	if err != nil {
		return fmt.Errorf("updating accountability mode: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating accountability mode: %w", err)
	}

	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
