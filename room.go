package wshotel

import (
	"container/list"
	"fmt"
	"sync"
	"weak"
)

// RoomHandler is the event contract a room kind implements. Guest is the
// per-member identity payload this room's members carry.
type RoomHandler[Guest any] interface {
	// OnJoin fires once a member has been inserted into this room, except
	// for the initial lobby insertion performed by Server.Accept.
	OnJoin(cx *Context[Guest]) (Relocation, error)
	// OnMessage fires for every inbound frame from a member.
	OnMessage(cx *Context[Guest], msg Message) (Relocation, error)
	// OnLeave fires just before a member is removed, whether by
	// disconnect (reason non-nil) or relocation (reason nil). It has no
	// error return: the member is removed regardless.
	OnLeave(cx *Context[Guest], reason *CloseReason)
}

type member[Guest any] struct {
	sender   *Sender
	identity Guest
}

// Room owns one handler instance and one ordered membership table, both
// protected by a single non-reentrant lock. Rooms are referenced by plain
// pointer; a strong reference is just a *Room[Guest] kept reachable, and a
// weak one is produced by Downgrade.
type Room[Guest any] struct {
	mu      sync.Mutex
	handler RoomHandler[Guest]
	members *list.List // of *member[Guest], insertion order
}

// NewRoom constructs a room with an empty membership table.
func NewRoom[Guest any](handler RoomHandler[Guest]) *Room[Guest] {
	return &Room[Guest]{
		handler: handler,
		members: list.New(),
	}
}

// Downgrade produces a non-owning reference to r. Upgrading it succeeds
// only while some strong reference to r is still reachable.
func (r *Room[Guest]) Downgrade() WeakRoomRef[Guest] {
	return WeakRoomRef[Guest]{ptr: weak.Make(r)}
}

// Broadcast sends msg to every current member, in insertion order,
// aborting and returning the first send error encountered. Must not be
// called from inside a handler callback for this room, nor from inside
// With(r, ...) — the room lock is not reentrant.
func (r *Room[Guest]) Broadcast(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.broadcastLocked(msg)
}

func (r *Room[Guest]) broadcastLocked(msg Message) error {
	for e := r.members.Front(); e != nil; e = e.Next() {
		m := e.Value.(*member[Guest])
		if err := m.sender.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Room[Guest]) findLocked(sender *Sender) *list.Element {
	for e := r.members.Front(); e != nil; e = e.Next() {
		if e.Value.(*member[Guest]).sender.Equal(sender) {
			return e
		}
	}
	return nil
}

// With acquires r's lock and runs fn with exclusive access to its handler.
// It is a free function rather than a method because T would otherwise be
// a type parameter a method introduces beyond its receiver's own — Go
// methods cannot do that. Do not call Broadcast, With, or any other
// room-locking operation on r from inside fn: the lock is not reentrant.
func With[Guest any, T any](r *Room[Guest], fn func(handler RoomHandler[Guest]) T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.handler)
}

// --- AnyRoom: the type-erased view a Connection holds across relocations ---

// AnyRoom is the polymorphic façade every *Room[Guest] satisfies. It lets a
// Connection hold "the current room" without naming that room's concrete
// Guest type, which is what makes relocation between differently-typed
// rooms possible. All its methods but Broadcast are unexported so only this
// package can produce an implementation, which is what makes the identity
// downcast in add safe: the only way to build a Relocation targeting a
// *Room[G] is Relocate[G], which can only package a G-typed identity.
type AnyRoom interface {
	onJoin(sender *Sender) (Relocation, error)
	onMessage(sender *Sender, msg Message) (Relocation, error)
	onLeave(sender *Sender, reason *CloseReason)
	add(sender *Sender, identity any)
	remove(sender *Sender)
	Broadcast(msg Message) error
}

func (r *Room[Guest]) onJoin(sender *Sender) (Relocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cx := &Context[Guest]{room: r, sender: sender}
	return r.handler.OnJoin(cx)
}

func (r *Room[Guest]) onMessage(sender *Sender, msg Message) (Relocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cx := &Context[Guest]{room: r, sender: sender}
	return r.handler.OnMessage(cx, msg)
}

func (r *Room[Guest]) onLeave(sender *Sender, reason *CloseReason) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cx := &Context[Guest]{room: r, sender: sender}
	r.handler.OnLeave(cx, reason)
}

func (r *Room[Guest]) add(sender *Sender, identity any) {
	guest, ok := identity.(Guest)
	if !ok {
		panic(fmt.Sprintf("wshotel: identity type mismatch adding to room: got %T", identity))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members.PushBack(&member[Guest]{sender: sender, identity: guest})
}

func (r *Room[Guest]) remove(sender *Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.findLocked(sender)
	if e == nil {
		panic("wshotel: remove of sender not present in room")
	}
	r.members.Remove(e)
}

// WeakRoomRef is a non-owning reference to a Room[Guest]. Upgrading a
// dangling reference yields ok == false, which is a normal, non-erroneous
// outcome, not an error.
type WeakRoomRef[Guest any] struct {
	ptr weak.Pointer[Room[Guest]]
}

// Upgrade returns a strong reference to the room if it still exists.
func (w WeakRoomRef[Guest]) Upgrade() (*Room[Guest], bool) {
	r := w.ptr.Value()
	return r, r != nil
}
