package wshotel

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Server wraps a lobby room and the upgrader every newly accepted
// connection goes through. LobbyGuest is the identity type new connections
// carry before any handler has had a chance to relocate them elsewhere.
type Server[LobbyGuest any] struct {
	lobby         *Room[LobbyGuest]
	lobbyIdentity LobbyGuest
	upgrader      websocket.Upgrader
	tokens        atomic.Uint64
}

// ServerOption configures a Server at construction time.
type ServerOption func(*websocket.Upgrader)

// WithCheckOrigin overrides the upgrader's origin check, which otherwise
// defaults to gorilla/websocket's same-origin policy.
func WithCheckOrigin(fn func(r *http.Request) bool) ServerOption {
	return func(u *websocket.Upgrader) { u.CheckOrigin = fn }
}

// WithBufferSizes overrides the upgrader's read/write buffer sizes.
func WithBufferSizes(read, write int) ServerOption {
	return func(u *websocket.Upgrader) {
		u.ReadBufferSize = read
		u.WriteBufferSize = write
	}
}

// NewServer wraps lobbyHandler in a Room and returns a Server ready to
// Accept connections into it. lobbyIdentity is the identity every new
// connection is given on arrival — Go has no Default trait to synthesize
// it implicitly, so the caller supplies it explicitly.
func NewServer[LobbyGuest any](lobbyHandler RoomHandler[LobbyGuest], lobbyIdentity LobbyGuest, opts ...ServerOption) *Server[LobbyGuest] {
	s := &Server[LobbyGuest]{
		lobby:         NewRoom(lobbyHandler),
		lobbyIdentity: lobbyIdentity,
		upgrader:      websocket.Upgrader{},
	}
	for _, opt := range opts {
		opt(&s.upgrader)
	}
	return s
}

// Lobby returns the server's lobby room, e.g. so a handler elsewhere can
// build a weak reference back to it.
func (s *Server[LobbyGuest]) Lobby() *Room[LobbyGuest] {
	return s.lobby
}

// Accept upgrades an HTTP request to a WebSocket connection, splices the
// new member into the lobby with lobbyIdentity, and returns a Connection
// whose current room is the lobby. OnJoin is not fired for this initial
// insertion, by design: the lobby handler is expected to prompt for
// whatever login sequence it needs from OnMessage.
func (s *Server[LobbyGuest]) Accept(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	sender := NewSender(conn, s.tokens.Add(1))
	s.lobby.add(sender, s.lobbyIdentity)

	return &Connection{sender: sender, current: s.lobby}, nil
}
