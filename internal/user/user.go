package user

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("user not found")

// User is a person tracking a budget. TotalSaved and CurrentStreak are
// maintained outside this service and may be absent.
type User struct {
	Email              string
	DisplayName        string
	TotalSaved         *decimal.Decimal
	CurrentStreak      *int
	AccountabilityMode bool
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// Saved returns TotalSaved, or zero when it was never recorded.
func (u *User) Saved() decimal.Decimal {
	if u.TotalSaved == nil {
		return decimal.Zero
	}

	return *u.TotalSaved
}

// Streak returns CurrentStreak, or zero when it was never recorded.
func (u *User) Streak() int {
	if u.CurrentStreak == nil {
		return 0
	}

	return *u.CurrentStreak
}

// Name falls back to the email when no display name is set.
func (u *User) Name() string {
	if u.DisplayName == "" {
		return u.Email
	}

	return u.DisplayName
}
