package wstmsg

import "fmt"

// MessageKind discriminates the variants of a Message. The zero value is
// not a valid kind; build Messages with the Item, Ping, Pong and Close
// constructors.
type MessageKind int

const (
	// KindItem is an application value that passed through the codec.
	KindItem MessageKind = iota + 1

	// KindPing is a protocol ping with its raw payload.
	KindPing

	// KindPong is a protocol pong with its raw payload.
	KindPong

	// KindClose is a close announcement, with an optional payload.
	KindClose
)

func (k MessageKind) String() string {
	switch k {
	case KindItem:
		return "Item"
	case KindPing:
		return "Ping"
	case KindPong:
		return "Pong"
	case KindClose:
		return "Close"
	}
	return fmt.Sprintf("MessageKind(%d)", int(k))
}

// Message is one typed message on a Socket: either an application value of
// type T, or a control event passed through losslessly so applications can
// observe pings, pongs and the peer's close announcement between values.
type Message[T any] struct {
	Kind MessageKind

	// Item is the decoded application value. Valid only for KindItem.
	Item T

	// Data is the raw control payload for KindPing and KindPong, at most
	// MaxControlPayload bytes. It may be nil.
	Data []byte

	// Close is the close payload for KindClose; nil if the peer's close
	// frame carried no payload.
	Close *CloseFrame
}

// Item returns a message carrying the application value v.
func Item[T any](v T) Message[T] {
	return Message[T]{Kind: KindItem, Item: v}
}

// Ping returns a ping message with the given payload. The payload may be
// nil and must not exceed MaxControlPayload bytes.
func Ping[T any](data []byte) Message[T] {
	return Message[T]{Kind: KindPing, Data: data}
}

// Pong returns a pong message with the given payload. The payload may be
// nil and must not exceed MaxControlPayload bytes.
func Pong[T any](data []byte) Message[T] {
	return Message[T]{Kind: KindPong, Data: data}
}

// Close returns a close message. cf may be nil to announce closure with no
// status payload.
func Close[T any](cf *CloseFrame) Message[T] {
	return Message[T]{Kind: KindClose, Close: cf}
}

// String returns a short description of the message, suitable for logging.
func (m Message[T]) String() string {
	switch m.Kind {
	case KindItem:
		return fmt.Sprintf("Item(%v)", m.Item)
	case KindPing:
		return fmt.Sprintf("Ping(%d bytes)", len(m.Data))
	case KindPong:
		return fmt.Sprintf("Pong(%d bytes)", len(m.Data))
	case KindClose:
		if m.Close == nil {
			return "Close()"
		}
		return fmt.Sprintf("Close(%d %q)", m.Close.Code, m.Close.Reason)
	}
	return fmt.Sprintf("Message(kind=%d)", int(m.Kind))
}
