package wshotel

import (
	"errors"

	"github.com/gorilla/websocket"
)

// Connection is the per-connection adapter linking one live WebSocket
// session to its current room. It holds exactly one strong reference to
// the current room at a time and dispatches frames into it sequentially.
type Connection struct {
	sender  *Sender
	current AnyRoom
}

// Sender returns the connection's sender handle.
func (c *Connection) Sender() *Sender {
	return c.sender
}

// HandleMessage dispatches an inbound frame into the current room and
// runs the relocation loop against whatever the handler returns.
func (c *Connection) HandleMessage(msg Message) error {
	rel, err := c.current.onMessage(c.sender, msg)
	if err != nil {
		return err
	}
	return c.applyRelocation(rel)
}

// HandleClose runs the current room's leave callback and removes the
// member. OnLeave has no error return, so the member is removed
// regardless, per the package's error taxonomy.
func (c *Connection) HandleClose(reason CloseReason) {
	c.current.onLeave(c.sender, &reason)
	c.current.remove(c.sender)
}

// applyRelocation runs the leave/remove/add/join cycle iteratively (never
// recursively) until a handler stops requesting further moves. An error
// from the destination's OnJoin leaves the member already added to that
// room and aborts the loop, which the caller treats as connection-fatal.
func (c *Connection) applyRelocation(rel Relocation) error {
	for !rel.IsZero() {
		c.current.onLeave(c.sender, nil) // nil reason: voluntary move, not a disconnect
		c.current.remove(c.sender)

		c.current = rel.target
		c.current.add(c.sender, rel.identity)

		next, err := c.current.onJoin(c.sender)
		if err != nil {
			return err
		}
		rel = next
	}
	return nil
}

// Serve runs the connection's read loop until the socket closes or a
// handler returns an error, at which point it calls HandleClose and
// returns. Callers typically run Serve in its own goroutine per accepted
// connection.
func (c *Connection) Serve() {
	for {
		kind, data, err := c.sender.conn.ReadMessage()
		if err != nil {
			c.HandleClose(closeReasonFromErr(err))
			return
		}

		msg, ok := messageFromWire(kind, data)
		if !ok {
			continue
		}

		if err := c.HandleMessage(msg); err != nil {
			c.HandleClose(CloseReason{Code: websocket.CloseInternalServerErr, Text: err.Error()})
			_ = c.sender.conn.Close()
			return
		}
	}
}

func closeReasonFromErr(err error) CloseReason {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return CloseReason{Code: closeErr.Code, Text: closeErr.Text}
	}
	return CloseReason{Code: websocket.CloseAbnormalClosure, Text: err.Error()}
}
