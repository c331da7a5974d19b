package wstmsg

import "errors"

// ErrControlPayloadTooBig is returned, wrapped in a *TransportError, when
// the payload of an outgoing ping or pong exceeds MaxControlPayload bytes.
// It is a validation failure reported before anything is written; the
// rejected message is discarded and the socket remains usable.
var ErrControlPayloadTooBig = errors.New("wstmsg: control frame payload exceeds 125 bytes")

// TransportError wraps a failure of the underlying connection or of the
// framing protocol. A transport error arising from the connection is
// terminal for the socket that returned it; this layer never retries or
// reconnects. ErrControlPayloadTooBig is the exception: it is raised
// before the connection is touched and leaves the socket usable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// CodecError wraps an encode or decode failure from a socket's Codec. The
// error applies to a single message; the connection is intact and the
// socket remains usable.
type CodecError struct {
	Err error
}

func (e *CodecError) Error() string {
	return "codec: " + e.Err.Error()
}

// Unwrap returns the codec's native error.
func (e *CodecError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if any error in err's chain is a
// *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsCodecError returns true if any error in err's chain is a *CodecError.
func IsCodecError(err error) bool {
	var ce *CodecError
	return errors.As(err, &ce)
}
