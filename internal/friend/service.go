package friend

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/user"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=friend
type Repository interface {
	CreateFriend(ctx context.Context, f *Friend) error
	GetFriend(ctx context.Context, id uuid.UUID) (*Friend, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListFriends(ctx context.Context, filter ListFilter) ([]*Friend, error)
}

// Directory lists the users that can be suggested.
type Directory interface {
	List(ctx context.Context, filter user.ListFilter) ([]*user.User, error)
}

type Service struct {
	repo  Repository
	users Directory
}

func NewService(repo Repository, users Directory) *Service {
	return &Service{repo: repo, users: users}
}

// ListFilter narrows a listing of friend requests. Empty fields are ignored.
type ListFilter struct {
	RequesterEmail string
	RecipientEmail string
	Status         *Status
	Sort           string
}

// Graph loads every accepted friendship.
func (s *Service) Graph(ctx context.Context) (*Graph, error) {
	accepted := StatusAccepted

	edges, err := s.repo.ListFriends(ctx, ListFilter{Status: &accepted, Sort: "created_at"})
	if err != nil {
		return nil, fmt.Errorf("listing friendships: %w", err)
	}

	return NewGraph(edges), nil
}

// Friends returns the profiles of email's accepted friends.
func (s *Service) Friends(ctx context.Context, email string) ([]*user.User, error) {
	g, err := s.Graph(ctx)
	if err != nil {
		return nil, err
	}

	emails := g.Friends(email)
	if len(emails) == 0 {
		return nil, nil
	}

	users, err := s.users.List(ctx, user.ListFilter{Emails: emails, Sort: "-total_saved"})
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	return users, nil
}

// Suggestions returns people email might know.
func (s *Service) Suggestions(ctx context.Context, email string) ([]*user.User, error) {
	g, err := s.Graph(ctx)
	if err != nil {
		return nil, err
	}

	sentTo, err := s.pendingSent(ctx, email)
	if err != nil {
		return nil, err
	}

	all, err := s.users.List(ctx, user.ListFilter{Sort: "email"})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	byEmail := make(map[string]*user.User, len(all))
	candidates := make([]string, len(all))

	for i, u := range all {
		byEmail[u.Email] = u
		candidates[i] = u.Email
	}

	picked := Suggest(email, g, sentTo, candidates)

	out := make([]*user.User, len(picked))
	for i, e := range picked {
		out[i] = byEmail[e]
	}

	return out, nil
}

// Search finds people email could send a request to whose email or display
// name contains query. Like Suggestions it leaves out email, their friends
// and anyone with a pending request from them.
func (s *Service) Search(ctx context.Context, email, query string) ([]*user.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	g, err := s.Graph(ctx)
	if err != nil {
		return nil, err
	}

	sentTo, err := s.pendingSent(ctx, email)
	if err != nil {
		return nil, err
	}

	found, err := s.users.List(ctx, user.ListFilter{Query: query, Sort: "email"})
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	excluded := unreachable(email, g, sentTo)

	out := make([]*user.User, 0, min(len(found), MaxSearchResults))
	for _, u := range found {
		if len(out) == MaxSearchResults {
			break
		}

		if _, skip := excluded[u.Email]; skip {
			continue
		}

		out = append(out, u)
	}

	return out, nil
}

func (s *Service) pendingSent(ctx context.Context, email string) ([]string, error) {
	pending := StatusPending

	sent, err := s.repo.ListFriends(ctx, ListFilter{RequesterEmail: email, Status: &pending})
	if err != nil {
		return nil, fmt.Errorf("listing sent requests: %w", err)
	}

	sentTo := make([]string, len(sent))
	for i, f := range sent {
		sentTo[i] = f.RecipientEmail
	}

	return sentTo, nil
}

// Incoming lists the pending requests waiting for email's answer, oldest
// first.
func (s *Service) Incoming(ctx context.Context, email string) ([]*Friend, error) {
	pending := StatusPending

	requests, err := s.repo.ListFriends(ctx, ListFilter{RecipientEmail: email, Status: &pending, Sort: "created_at"})
	if err != nil {
		return nil, fmt.Errorf("listing incoming requests: %w", err)
	}

	return requests, nil
}

// Request sends a pending friend request from requester to recipient.
func (s *Service) Request(ctx context.Context, requester, recipient string) (*Friend, error) {
	if requester == recipient {
		return nil, ErrSelfRequest
	}

	f := &Friend{
		RequesterEmail: requester,
		RecipientEmail: recipient,
		Status:         StatusPending,
	}
	if err := s.repo.CreateFriend(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

// Respond lets the recipient accept or reject a request.
func (s *Service) Respond(ctx context.Context, id uuid.UUID, email string, status Status) (*Friend, error) {
	if status != StatusAccepted && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	f, err := s.repo.GetFriend(ctx, id)
	if err != nil {
		return nil, err
	}

	if f.RecipientEmail != email {
		return nil, ErrNotRecipient
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	f.Status = status

	return f, nil
}
