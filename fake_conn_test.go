package wshotel

import (
	"errors"
	"sync"
)

// fakeConn is an in-memory Conn used by core package tests so they can
// exercise Room/Context/Connection semantics without a real socket.
type fakeConn struct {
	mu      sync.Mutex
	sent    []Message
	reads   []fakeRead
	readPos int
	closed  bool
}

type fakeRead struct {
	kind int
	data []byte
	err  error
}

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("fakeConn: write on closed connection")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.sent = append(f.sent, Message{Kind: kindFromWire(kind), Data: cp})
	return nil
}

func kindFromWire(kind int) Kind {
	if kind == 2 { // websocket.BinaryMessage
		return BinaryMessage
	}
	return TextMessage
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readPos >= len(f.reads) {
		return 0, nil, errors.New("fakeConn: no more reads queued")
	}
	r := f.reads[f.readPos]
	f.readPos++
	return r.kind, r.data, r.err
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, string(m.Data))
	}
	return out
}

func newFakeSender(token uint64) (*Sender, *fakeConn) {
	fc := &fakeConn{}
	return NewSender(fc, token), fc
}
