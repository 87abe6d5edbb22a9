package wshotel

import "github.com/gorilla/websocket"

// Kind distinguishes text frames from binary frames.
type Kind int

const (
	TextMessage Kind = iota
	BinaryMessage
)

// Message is a frame sent to or received from a Sender. No wire format
// beyond what gorilla/websocket already defines is specified here.
type Message struct {
	Kind Kind
	Data []byte
}

// NewTextMessage builds a text Message from a string.
func NewTextMessage(s string) Message {
	return Message{Kind: TextMessage, Data: []byte(s)}
}

// NewBinaryMessage builds a binary Message from raw bytes.
func NewBinaryMessage(b []byte) Message {
	return Message{Kind: BinaryMessage, Data: b}
}

// AsText returns the message body as a string if it is a text message.
func (m Message) AsText() (string, bool) {
	if m.Kind != TextMessage {
		return "", false
	}
	return string(m.Data), true
}

func (m Message) wireKind() int {
	if m.Kind == BinaryMessage {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func messageFromWire(kind int, data []byte) (Message, bool) {
	switch kind {
	case websocket.TextMessage:
		return Message{Kind: TextMessage, Data: data}, true
	case websocket.BinaryMessage:
		return Message{Kind: BinaryMessage, Data: data}, true
	default:
		return Message{}, false
	}
}

// CloseReason describes why a connection went away. A nil *CloseReason
// passed to RoomHandler.OnLeave means the member was relocated rather than
// disconnected.
type CloseReason struct {
	Code int
	Text string
}
