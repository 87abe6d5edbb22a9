package lounge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wshotel/wshotel"
)

func TestRegistry_FindOrCreateIsIdempotent(t *testing.T) {
	r := NewRegistry(wshotel.WeakRoomRef[*string]{})

	first := r.FindOrCreate("general")
	second := r.FindOrCreate("general")

	assert.Same(t, first, second)
}

func TestRegistry_DistinctNamesGetDistinctRooms(t *testing.T) {
	r := NewRegistry(wshotel.WeakRoomRef[*string]{})

	general := r.FindOrCreate("general")
	random := r.FindOrCreate("random")

	assert.NotSame(t, general, random)
}

func TestLobby_BindSelfWiresRegistryBackReference(t *testing.T) {
	room := wshotel.NewRoom[*string](wshotel.NewAdHoc(func(cx *wshotel.Context[*string], msg wshotel.Message) (wshotel.Relocation, error) {
		return wshotel.Relocation{}, nil
	}))

	rooms := NewRegistry(wshotel.WeakRoomRef[*string]{})
	lobby := NewLobby(rooms)
	lobby.BindSelf(room.Downgrade())

	got, ok := rooms.lobby.Upgrade()
	assert.True(t, ok)
	assert.Same(t, room, got)
}
