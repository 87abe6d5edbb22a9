package wshotel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_IdentityIsMutable(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	sender, _ := newFakeSender(1)
	room.add(sender, "before")

	cx := &Context[string]{room: room, sender: sender}
	id := cx.Identity()
	assert.Equal(t, "before", *id)

	*id = "after"

	cx2 := &Context[string]{room: room, sender: sender}
	assert.Equal(t, "after", *cx2.Identity())
}

func TestContext_IdentityPanicsForNonMember(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	sender, _ := newFakeSender(1)
	cx := &Context[string]{room: room, sender: sender}

	assert.Panics(t, func() { cx.Identity() })
}

func TestContext_SendReachesOnlyCaller(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	senderA, connA := newFakeSender(1)
	senderB, connB := newFakeSender(2)
	room.add(senderA, "a")
	room.add(senderB, "b")

	cx := &Context[string]{room: room, sender: senderA}
	require.NoError(t, cx.Send(NewTextMessage("only-a")))

	assert.Equal(t, []string{"only-a"}, connA.sentTexts())
	assert.Empty(t, connB.sentTexts())
}

func TestContext_BroadcastReachesEveryoneIncludingCaller(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	senderA, connA := newFakeSender(1)
	senderB, connB := newFakeSender(2)
	room.add(senderA, "a")
	room.add(senderB, "b")

	cx := &Context[string]{room: room, sender: senderA}
	require.NoError(t, cx.Broadcast(NewTextMessage("all")))

	assert.Equal(t, []string{"all"}, connA.sentTexts())
	assert.Equal(t, []string{"all"}, connB.sentTexts())
}

func TestContext_BroadcastWithPersonalizesPerRecipient(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	senderA, connA := newFakeSender(1)
	senderB, connB := newFakeSender(2)
	room.add(senderA, "alice")
	room.add(senderB, "bob")

	cx := &Context[string]{room: room, sender: senderA}
	err := cx.BroadcastWith(func(identity string) Message {
		return NewTextMessage("hi " + identity)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"hi alice"}, connA.sentTexts())
	assert.Equal(t, []string{"hi bob"}, connB.sentTexts())
}

func TestContext_RoomReturnsUpgradableWeakRef(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	sender, _ := newFakeSender(1)
	room.add(sender, "a")

	cx := &Context[string]{room: room, sender: sender}
	weak := cx.Room()

	got, ok := weak.Upgrade()
	assert.True(t, ok)
	assert.Same(t, room, got)
}
