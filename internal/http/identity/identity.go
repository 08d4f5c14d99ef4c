// Package identity resolves the calling user from the X-User-Email header.
// Authentication happens upstream; the header is trusted as is.
package identity

import (
	"context"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/user"
)

const Header = "X-User-Email"

type ctxKey struct{}

type Ensurer interface {
	Ensure(ctx context.Context, email string) (*user.User, error)
}

// Middleware rejects requests without a valid email and makes sure the user
// row exists before the handler runs.
func Middleware(users Ensurer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.ToLower(strings.TrimSpace(r.Header.Get(Header)))
			if email == "" {
				http.Error(w, Header+" header is required", http.StatusUnauthorized)
				return
			}

			if _, err := mail.ParseAddress(email); err != nil {
				http.Error(w, "invalid "+Header+" header", http.StatusBadRequest)
				return
			}

			if _, err := users.Ensure(r.Context(), email); err != nil {
				slog.Error("failed to ensure user", "email", email, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), email)))
		})
	}
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxKey{}, email)
}

// Email returns the caller set by Middleware, or "" outside of it.
func Email(ctx context.Context) string {
	email, _ := ctx.Value(ctxKey{}).(string)
	return email
}
