package friend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/friend"
)

func edge(a, b string, status friend.Status) *friend.Friend {
	return &friend.Friend{RequesterEmail: a, RecipientEmail: b, Status: status}
}

func TestGraph(t *testing.T) {
	g := friend.NewGraph([]*friend.Friend{
		edge("ana", "bo", friend.StatusAccepted),
		edge("cy", "ana", friend.StatusAccepted),
		edge("bo", "ana", friend.StatusAccepted),
		edge("ana", "dee", friend.StatusPending),
		edge("eve", "ana", friend.StatusRejected),
		edge("ana", "ana", friend.StatusAccepted),
		nil,
	})

	assert.Equal(t, []string{"bo", "cy"}, g.Friends("ana"))
	assert.Equal(t, []string{"ana"}, g.Friends("bo"))
	assert.Equal(t, []string{"ana", "bo", "cy"}, g.Group("ana"))
	assert.Equal(t, []string{"dee"}, g.Group("dee"))

	assert.True(t, g.AreFriends("ana", "cy"))
	assert.True(t, g.AreFriends("cy", "ana"))
	assert.False(t, g.AreFriends("ana", "dee"))
	assert.False(t, g.AreFriends("ana", "eve"))
	assert.False(t, g.AreFriends("ana", "ana"))
	assert.Empty(t, g.Friends("nobody"))
}

func TestGraph_FriendsIsACopy(t *testing.T) {
	g := friend.NewGraph([]*friend.Friend{edge("ana", "bo", friend.StatusAccepted)})

	friends := g.Friends("ana")
	friends[0] = "mallory"

	assert.Equal(t, []string{"bo"}, g.Friends("ana"))
}
