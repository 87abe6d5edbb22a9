// Package lounge implements the example chat server's room kind and its
// lobby: a nickname prompt that relocates members into named chat rooms,
// created on first join.
package lounge

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wshotel/wshotel"
	"github.com/wshotel/wshotel/internal/logging"
	"github.com/wshotel/wshotel/internal/metrics"
	"go.uber.org/zap"
)

const historyLimit = 20

// Chat is a named chat room. Its Guest type is the member's confirmed
// nickname.
type Chat struct {
	wshotel.BaseHandler[string]

	name    string
	lobby   wshotel.WeakRoomRef[*string]
	history []string
}

// NewChat builds a room handler for a chat room named name, whose /leave
// command relocates members back to lobby.
func NewChat(name string, lobby wshotel.WeakRoomRef[*string]) *Chat {
	return &Chat{name: name, lobby: lobby}
}

func (c *Chat) OnJoin(cx *wshotel.Context[string]) (wshotel.Relocation, error) {
	name := *cx.Identity()
	metrics.RoomMembers.WithLabelValues(c.name).Inc()
	logging.Info(context.Background(), "member joined room", zap.String("room", c.name), zap.String("member", name))

	for _, line := range c.history {
		if err := cx.Send(wshotel.NewTextMessage(line)); err != nil {
			return wshotel.Relocation{}, err
		}
	}

	return wshotel.Relocation{}, c.announce(cx, name+" entered the room")
}

func (c *Chat) OnLeave(cx *wshotel.Context[string], reason *wshotel.CloseReason) {
	name := *cx.Identity()
	metrics.RoomMembers.WithLabelValues(c.name).Dec()

	if reason == nil {
		_ = c.announce(cx, name+" left the room")
		return
	}
	logging.Info(context.Background(), "member disconnected", zap.String("room", c.name), zap.String("member", name), zap.Int("code", reason.Code))
	_ = c.announce(cx, name+" disconnected")
}

func (c *Chat) OnMessage(cx *wshotel.Context[string], msg wshotel.Message) (wshotel.Relocation, error) {
	start := time.Now()
	defer func() {
		metrics.DispatchDuration.WithLabelValues("on_message").Observe(time.Since(start).Seconds())
	}()

	text, _ := msg.AsText()

	if text == "/leave" {
		lobby, ok := c.lobby.Upgrade()
		if !ok {
			metrics.MessagesRouted.WithLabelValues("dropped").Inc()
			return wshotel.Relocation{}, nil
		}
		metrics.RelocationsTotal.WithLabelValues("to_lobby").Inc()
		return wshotel.Relocate(lobby, cx.Identity()), nil
	}

	name := *cx.Identity()
	line := name + ": " + text
	c.record(line)
	metrics.MessagesRouted.WithLabelValues("ok").Inc()
	return wshotel.Relocation{}, cx.Broadcast(wshotel.NewTextMessage(line))
}

func (c *Chat) announce(cx *wshotel.Context[string], line string) error {
	c.record("[SERVER]: " + line)
	return cx.Broadcast(wshotel.NewTextMessage("[SERVER]: " + line))
}

func (c *Chat) record(line string) {
	c.history = append(c.history, line)
	if len(c.history) > historyLimit {
		c.history = c.history[len(c.history)-historyLimit:]
	}
}

// Registry finds or creates named chat rooms, the way chatroom.rs's
// ChatRooms::find_or_create_room does, but with map lookup instead of a
// linear scan over a slice.
type Registry struct {
	mu    sync.Mutex
	lobby wshotel.WeakRoomRef[*string]
	rooms map[string]*wshotel.Room[string]
}

// NewRegistry builds a registry of chat rooms that relocate back into lobby.
func NewRegistry(lobby wshotel.WeakRoomRef[*string]) *Registry {
	return &Registry{lobby: lobby, rooms: make(map[string]*wshotel.Room[string])}
}

// FindOrCreate returns the named room, creating it (and its metrics entry)
// on first use.
func (r *Registry) FindOrCreate(name string) *wshotel.Room[string] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[name]; ok {
		return room
	}

	logging.Info(context.Background(), "creating chat room", zap.String("room", name))
	room := wshotel.NewRoom[string](NewChat(name, r.lobby))
	r.rooms[name] = room
	metrics.ActiveRooms.Inc()
	return room
}

// Lobby is the nickname-prompting entry point every new connection lands
// in before it has joined a chat room.
type Lobby struct {
	wshotel.BaseHandler[*string]

	rooms *Registry
	self  wshotel.WeakRoomRef[*string]
}

// NewLobby builds a lobby handler that creates rooms in rooms. The caller
// must set the returned handler's self back-reference once its room exists
// (see BindSelf), since the lobby cannot weakly reference its own room
// until that room has been constructed.
func NewLobby(rooms *Registry) *Lobby {
	return &Lobby{rooms: rooms}
}

// BindSelf records a weak reference to the room this handler is installed
// in, so newly created chat rooms can relocate members back to it.
func (l *Lobby) BindSelf(self wshotel.WeakRoomRef[*string]) {
	l.self = self
	l.rooms.lobby = self
}

func (l *Lobby) OnMessage(cx *wshotel.Context[*string], msg wshotel.Message) (wshotel.Relocation, error) {
	text, _ := msg.AsText()
	nick := cx.Identity()

	if name, ok := strings.CutPrefix(text, "/nick "); ok {
		*nick = &name
		return wshotel.Relocation{}, cx.Send(wshotel.NewTextMessage("Welcome, " + name + ". Type `/join <room>` to enter a chat room."))
	}

	if room, ok := strings.CutPrefix(text, "/join "); ok {
		if *nick == nil {
			return wshotel.Relocation{}, cx.Send(wshotel.NewTextMessage("You're not logged in!"))
		}
		target := l.rooms.FindOrCreate(room)
		metrics.RelocationsTotal.WithLabelValues("to_room").Inc()
		return wshotel.Relocate(target, **nick), nil
	}

	if *nick == nil {
		return wshotel.Relocation{}, cx.Send(wshotel.NewTextMessage("You haven't chosen a name yet"))
	}
	return wshotel.Relocation{}, cx.Send(wshotel.NewTextMessage("Type `/join <room>` to join a chat room."))
}
