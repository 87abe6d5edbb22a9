package wshotel

import (
	"sync"
	"sync/atomic"
)

var connIDSeq atomic.Uint64

// Conn is the minimal wire transport a Sender writes to and a Connection
// reads from. *websocket.Conn satisfies it; tests substitute a fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// SenderID uniquely identifies a Sender within the running process for the
// lifetime of its connection. It mirrors the (token, connection_id) pair
// the underlying transport collaborator would hand the adapter.
type SenderID struct {
	Token  uint64
	ConnID uint64
}

// Sender is a clonable-by-reference handle granting the ability to push a
// frame toward one connection. Equality is by SenderID, not by pointer.
type Sender struct {
	mu   sync.Mutex
	conn Conn
	id   SenderID
}

// NewSender wraps a live WebSocket connection in a Sender. token
// distinguishes the accept loop or listener that produced the connection;
// the connection-local component of the ID is assigned automatically.
func NewSender(conn Conn, token uint64) *Sender {
	return &Sender{
		conn: conn,
		id:   SenderID{Token: token, ConnID: connIDSeq.Add(1)},
	}
}

// ID returns the stable identity used for membership lookups and equality.
func (s *Sender) ID() SenderID {
	return s.id
}

// Send writes msg to the underlying connection. Safe for concurrent use;
// gorilla/websocket does not allow concurrent writers on one *Conn, so
// writes are serialized here.
func (s *Sender) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(msg.wireKind(), msg.Data)
}

// Equal reports whether two senders refer to the same connection.
func (s *Sender) Equal(other *Sender) bool {
	return other != nil && s.id == other.id
}
