package wstmsg

import "fmt"

// FrameType identifies the WebSocket frame types visible at the messaging
// layer. The numeric values are the RFC 6455 opcodes, which are also the
// message type constants used by github.com/gorilla/websocket, so bindings
// convert by plain integer conversion.
type FrameType int

const (
	// FrameText is a data frame whose payload is the UTF-8 encoding of text.
	FrameText FrameType = 1

	// FrameBinary is a data frame with an arbitrary byte payload.
	FrameBinary FrameType = 2

	// FrameClose is a control frame ending the stream.
	FrameClose FrameType = 8

	// FramePing is a ping control frame.
	FramePing FrameType = 9

	// FramePong is a pong control frame.
	FramePong FrameType = 10
)

// IsData returns true if the frame type carries an application payload.
func (t FrameType) IsData() bool {
	return t == FrameText || t == FrameBinary
}

// IsControl returns true if the frame type is a protocol control frame.
func (t FrameType) IsControl() bool {
	return t == FrameClose || t == FramePing || t == FramePong
}

func (t FrameType) String() string {
	switch t {
	case FrameText:
		return "Text"
	case FrameBinary:
		return "Binary"
	case FrameClose:
		return "Close"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	}
	return fmt.Sprintf("FrameType(%d)", int(t))
}

// MaxControlPayload is the maximum payload length in bytes of a ping, pong
// or close frame, per RFC 6455 section 5.5.
const MaxControlPayload = 125

// WebSocket close status codes from RFC 6455 section 7.4.1, for use in
// CloseFrame.Code.
const (
	StatusNormalClosure    = 1000
	StatusGoingAway        = 1001
	StatusProtocolError    = 1002
	StatusUnsupportedData  = 1003
	StatusNoStatusReceived = 1005
	StatusAbnormalClosure  = 1006
	StatusInvalidPayload   = 1007
	StatusPolicyViolation  = 1008
	StatusMessageTooBig    = 1009
	StatusInternalError    = 1011
)

// CloseFrame is the parsed payload of a close frame: a status code and a
// short reason string.
type CloseFrame struct {
	Code   int
	Reason string
}

// Frame is a single raw WebSocket frame as exchanged with a RawSocket.
// For data, ping and pong frames the payload is in Data. For close frames
// Data is unused and Close holds the parsed payload; a nil Close means the
// close frame carried no payload.
type Frame struct {
	Type  FrameType
	Data  []byte
	Close *CloseFrame
}

// String returns a short description of the frame, suitable for logging.
func (f Frame) String() string {
	if f.Type == FrameClose {
		if f.Close == nil {
			return "Close()"
		}
		return fmt.Sprintf("Close(%d %q)", f.Close.Code, f.Close.Reason)
	}
	return fmt.Sprintf("%s(%d bytes)", f.Type, len(f.Data))
}
