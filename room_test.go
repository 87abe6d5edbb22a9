package wshotel

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct {
	BaseHandler[string]
}

func (echoHandler) OnMessage(cx *Context[string], msg Message) (Relocation, error) {
	return Relocation{}, cx.Send(msg)
}

func TestRoom_BroadcastCoversAllMembersInOrder(t *testing.T) {
	room := NewRoom[string](echoHandler{})

	senderA, connA := newFakeSender(1)
	senderB, connB := newFakeSender(2)
	senderC, connC := newFakeSender(3)

	room.add(senderA, "a")
	room.add(senderB, "b")
	room.add(senderC, "c")

	require.NoError(t, room.Broadcast(NewTextMessage("hello")))

	assert.Equal(t, []string{"hello"}, connA.sentTexts())
	assert.Equal(t, []string{"hello"}, connB.sentTexts())
	assert.Equal(t, []string{"hello"}, connC.sentTexts())
}

func TestRoom_BroadcastAbortsOnFirstFailure(t *testing.T) {
	room := NewRoom[string](echoHandler{})

	senderA, _ := newFakeSender(1)
	senderB, connB := newFakeSender(2)
	room.add(senderA, "a")
	room.add(senderB, "b")

	// Close A's connection so its write fails.
	senderA.conn.(*fakeConn).Close()

	err := room.Broadcast(NewTextMessage("x"))
	assert.Error(t, err)
	// B comes after A in insertion order, so it should not have received it.
	assert.Empty(t, connB.sentTexts())
}

func TestRoom_AddRejectsWrongIdentityType(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	sender, _ := newFakeSender(1)

	assert.Panics(t, func() {
		room.add(sender, 42) // int, not string
	})
}

func TestRoom_RemoveOfAbsentSenderPanics(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	sender, _ := newFakeSender(1)

	assert.Panics(t, func() {
		room.remove(sender)
	})
}

func TestRoom_MembershipIsSingleResidency(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	sender, _ := newFakeSender(1)

	room.add(sender, "a")
	require.NotNil(t, room.findLocked(sender))

	room.remove(sender)
	assert.Nil(t, room.findLocked(sender))
}

func TestWeakRoomRef_UpgradeFailsOnceCollected(t *testing.T) {
	room := NewRoom[string](echoHandler{})
	weak := room.Downgrade()

	got, ok := weak.Upgrade()
	assert.True(t, ok)
	assert.Same(t, room, got)

	room = nil
	got = nil
	runtime.GC()
	runtime.GC()

	_, ok = weak.Upgrade()
	assert.False(t, ok)
}

func TestWith_GrantsExclusiveHandlerAccess(t *testing.T) {
	room := NewRoom[string](echoHandler{})

	kind := With(room, func(h RoomHandler[string]) string {
		_, ok := h.(echoHandler)
		if ok {
			return "echoHandler"
		}
		return "unknown"
	})

	assert.Equal(t, "echoHandler", kind)
}
