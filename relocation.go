package wshotel

// Relocation is the declarative result of a handler asking to move its
// caller elsewhere: a target room plus the new identity value for that
// room. The zero value means "no relocation requested" — OnJoin and
// OnMessage return it whenever they don't want to move the caller.
type Relocation struct {
	target   AnyRoom
	identity any
}

// Relocate builds a Relocation targeting room with the given identity.
// It is a free function, not a method on Context or Room, because it
// introduces a type parameter (the destination room's Guest type) that a
// method cannot add beyond its receiver's own.
func Relocate[Guest any](room *Room[Guest], identity Guest) Relocation {
	return Relocation{target: room, identity: identity}
}

// IsZero reports whether r requests no relocation.
func (r Relocation) IsZero() bool {
	return r.target == nil
}
