package wshotel

// Context is a short-lived façade handed to a handler callback, bound to
// the caller's room, sender, and membership table. It must not outlive the
// callback that received it: it assumes the room's lock is already held.
type Context[Guest any] struct {
	room   *Room[Guest]
	sender *Sender
}

// Identity returns a pointer to the caller's identity slot, mutable for
// the duration of the callback. Panics if the caller is not a member of
// the room, which cannot happen under the package's invariants.
func (c *Context[Guest]) Identity() *Guest {
	e := c.room.findLocked(c.sender)
	if e == nil {
		panic("wshotel: identity() called for a sender not in its room")
	}
	return &e.Value.(*member[Guest]).identity
}

// Send writes msg to the caller alone.
func (c *Context[Guest]) Send(msg Message) error {
	return c.sender.Send(msg)
}

// Broadcast writes msg to every member of the room, including the caller,
// in insertion order.
func (c *Context[Guest]) Broadcast(msg Message) error {
	return c.room.broadcastLocked(msg)
}

// BroadcastWith computes and sends a personalized message to each member,
// lazily, one at a time, in insertion order.
func (c *Context[Guest]) BroadcastWith(fn func(identity Guest) Message) error {
	for e := c.room.members.Front(); e != nil; e = e.Next() {
		m := e.Value.(*member[Guest])
		if err := m.sender.Send(fn(m.identity)); err != nil {
			return err
		}
	}
	return nil
}

// Room returns a weak back-reference to the room hosting this callback,
// for a handler that wants to store it in some other room's state (the
// typical pattern: a child room holds a weak reference back to the lobby).
func (c *Context[Guest]) Room() WeakRoomRef[Guest] {
	return c.room.Downgrade()
}
