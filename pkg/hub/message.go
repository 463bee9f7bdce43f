// Package hub provides a thread-safe websocket fan-out hub using the
// channel-based register/unregister/broadcast pattern. Clients may also
// talk back: inbound text frames are handed to the hub's handler.
package hub

// MessageType indicates the websocket message format
type MessageType int

const (
	// JSONMessage is a JSON-encoded text message
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data (e.g. PNG frames)
	BinaryMessage
)

// Message is one outbound websocket frame.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage creates a JSON message from pre-encoded bytes
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage creates a binary message
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}

// Handler receives inbound text from a client. It runs on the client's read
// goroutine.
type Handler func(c *Client, data []byte)
