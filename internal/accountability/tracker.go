package accountability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/alert"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/spending"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

//go:generate mockgen -source=tracker.go -destination=repository_mock.go -package=accountability
type Repository interface {
	// MarkNotified claims the flag for the pair and reports whether this call
	// set it.
	MarkNotified(ctx context.Context, userEmail string, budgetID uuid.UUID) (bool, error)
	ClearNotified(ctx context.Context, userEmail string, budgetID uuid.UUID) error
}

type Tracker struct {
	repo     Repository
	notifier Notifier
}

func NewTracker(repo Repository, notifier Notifier) *Tracker {
	return &Tracker{repo: repo, notifier: notifier}
}

// Check notifies once per user and budget when an accountable user's
// spending is in the exceeded level. It reports whether a notification went
// out. A failed delivery releases the flag so a later check retries.
func (t *Tracker) Check(
	ctx context.Context,
	u *user.User,
	b *budget.Budget,
	summary spending.Summary,
	level alert.Level,
	now time.Time,
) (bool, error) {
	if u == nil || b == nil || !u.AccountabilityMode || level != alert.LevelExceeded {
		return false, nil
	}

	claimed, err := t.repo.MarkNotified(ctx, u.Email, b.ID)
	if err != nil {
		return false, fmt.Errorf("marking notified: %w", err)
	}

	if !claimed {
		return false, nil
	}

	event := Event{
		UserEmail:   u.Email,
		DisplayName: u.Name(),
		BudgetID:    b.ID,
		Limit:       b.Amount,
		Spent:       summary.Spent,
		Overage:     summary.Spent.Sub(b.Amount),
		Percentage:  summary.Percentage,
		OccurredAt:  now,
	}

	if err := t.notifier.Notify(ctx, event); err != nil {
		if clearErr := t.repo.ClearNotified(context.WithoutCancel(ctx), u.Email, b.ID); clearErr != nil {
			slog.Error("failed to release accountability flag", "user", u.Email, "budget_id", b.ID, "error", clearErr)
		}

		return false, fmt.Errorf("notifying: %w", err)
	}

	return true, nil
}
