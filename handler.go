package wshotel

// BaseHandler supplies no-op defaults for OnJoin and OnLeave. Embed it in a
// RoomHandler implementation that only needs to react to OnMessage.
type BaseHandler[Guest any] struct{}

func (BaseHandler[Guest]) OnJoin(cx *Context[Guest]) (Relocation, error) {
	return Relocation{}, nil
}

func (BaseHandler[Guest]) OnLeave(cx *Context[Guest], reason *CloseReason) {}

// AdHoc wraps a single closure as a RoomHandler whose OnMessage calls it
// and whose OnJoin/OnLeave are the BaseHandler defaults.
type AdHoc[Guest any] struct {
	BaseHandler[Guest]
	fn func(cx *Context[Guest], msg Message) (Relocation, error)
}

// NewAdHoc builds an AdHoc handler from fn.
func NewAdHoc[Guest any](fn func(cx *Context[Guest], msg Message) (Relocation, error)) *AdHoc[Guest] {
	return &AdHoc[Guest]{fn: fn}
}

func (a *AdHoc[Guest]) OnMessage(cx *Context[Guest], msg Message) (Relocation, error) {
	return a.fn(cx, msg)
}
