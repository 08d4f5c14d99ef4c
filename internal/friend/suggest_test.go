package friend_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/friend"
)

func TestSuggest(t *testing.T) {
	g := friend.NewGraph([]*friend.Friend{
		edge("ana", "bo", friend.StatusAccepted),
		edge("bo", "cy", friend.StatusAccepted),
		edge("bo", "dee", friend.StatusAccepted),
		edge("bo", "eve", friend.StatusAccepted),
		edge("cy", "ana", friend.StatusAccepted),
	})

	type testCase struct {
		name        string
		email       string
		pendingSent []string
		candidates  []string
		want        []string
	}

	tests := []testCase{
		{
			name:       "FriendsOfFriendsInCandidateOrder",
			email:      "ana",
			candidates: []string{"ana", "bo", "cy", "dee", "eve", "finn"},
			want:       []string{"dee", "eve"},
		},
		{
			name:        "SkipsPendingRequests",
			email:       "ana",
			pendingSent: []string{"dee"},
			candidates:  []string{"ana", "bo", "cy", "dee", "eve", "finn"},
			want:        []string{"eve"},
		},
		{
			name:       "FallbackWithoutFriends",
			email:      "finn",
			candidates: []string{"ana", "bo", "cy", "dee", "eve", "finn", "gus"},
			want:       []string{"ana", "bo", "cy", "dee", "eve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := friend.Suggest(tt.email, g, tt.pendingSent, tt.candidates)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest_CapsMutualSuggestions(t *testing.T) {
	edges := []*friend.Friend{edge("ana", "hub", friend.StatusAccepted)}

	var candidates []string

	for i := range 15 {
		name := fmt.Sprintf("user%02d", i)
		edges = append(edges, edge("hub", name, friend.StatusAccepted))
		candidates = append(candidates, name)
	}

	got := friend.Suggest("ana", friend.NewGraph(edges), nil, candidates)

	assert.Len(t, got, friend.MaxMutualSuggestions)
	assert.Equal(t, "user00", got[0])
	assert.NotContains(t, got, "ana")
	assert.NotContains(t, got, "hub")
}
