package wshotel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_DefaultsAreNoOps(t *testing.T) {
	var h BaseHandler[string]

	room := NewRoom[string](echoHandler{})
	sender, conn := newFakeSender(1)
	room.add(sender, "a")
	cx := &Context[string]{room: room, sender: sender}

	rel, err := h.OnJoin(cx)
	require.NoError(t, err)
	assert.True(t, rel.IsZero())

	h.OnLeave(cx, nil)
	assert.Empty(t, conn.sentTexts())
}

func TestAdHoc_DelegatesOnMessageToClosure(t *testing.T) {
	var called bool
	ad := NewAdHoc(func(cx *Context[string], msg Message) (Relocation, error) {
		called = true
		text, _ := msg.AsText()
		return Relocation{}, cx.Send(NewTextMessage("echo:" + text))
	})

	room := NewRoom[string](ad)
	sender, conn := newFakeSender(1)
	room.add(sender, "a")

	rel, err := room.onMessage(sender, NewTextMessage("hi"))
	require.NoError(t, err)
	assert.True(t, rel.IsZero())
	assert.True(t, called)
	assert.Equal(t, []string{"echo:hi"}, conn.sentTexts())
}

func TestAdHoc_OnJoinAndOnLeaveUseBaseDefaults(t *testing.T) {
	ad := NewAdHoc(func(cx *Context[string], msg Message) (Relocation, error) {
		return Relocation{}, nil
	})

	room := NewRoom[string](ad)
	sender, conn := newFakeSender(1)
	room.add(sender, "a")

	rel, err := room.onJoin(sender)
	require.NoError(t, err)
	assert.True(t, rel.IsZero())

	room.onLeave(sender, nil)
	assert.Empty(t, conn.sentTexts())
}
