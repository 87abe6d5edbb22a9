// Package wshotel multiplexes WebSocket connections across logical rooms
// and lets a room's handler relocate a member to a different room at
// runtime.
//
// A Room owns a RoomHandler and an ordered membership table behind a
// mutex. Rooms of different handler/identity types are addressed
// uniformly by connection adapters through the AnyRoom interface, so a
// single connection can migrate between room kinds over its lifetime.
// Handlers request a move by returning a Relocation (built with Relocate)
// from OnJoin or OnMessage; the Connection applies it iteratively between
// event deliveries.
//
// The package has no opinion on transport framing beyond gorilla/websocket,
// authentication, persistence, or room discovery — those are the caller's
// responsibility.
package wshotel
