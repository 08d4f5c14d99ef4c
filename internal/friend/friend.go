package friend

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

var (
	ErrNotFound      = errors.New("friend request not found")
	ErrSelfRequest   = errors.New("cannot send a friend request to yourself")
	ErrAlreadyExists = errors.New("friend request already exists")
	ErrInvalidStatus = errors.New("invalid friend request status")
	ErrNotRecipient  = errors.New("only the recipient can answer a friend request")
	ErrEmptyQuery    = errors.New("search query is empty")
)

// Friend is a friend request between two users. Once accepted the relation
// is symmetric.
type Friend struct {
	ID             uuid.UUID
	RequesterEmail string
	RecipientEmail string
	Status         Status
	CreatedAt      time.Time
}

// Other returns the party of the relation that is not email.
func (f *Friend) Other(email string) string {
	if f.RequesterEmail == email {
		return f.RecipientEmail
	}

	return f.RequesterEmail
}
