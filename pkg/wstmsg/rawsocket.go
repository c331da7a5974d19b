package wstmsg

import "context"

// RawSocket is the frame-level transport a Socket is built over.
// Implementations wrap a real WebSocket library (see package wstgorilla)
// or an in-memory fake for tests; this layer performs no framing, masking
// or handshaking of its own.
//
// The contract:
//
//   - ReadFrame returns the next data or control frame from the peer, in
//     arrival order. When the stream is exhausted (the peer's close frame
//     has already been delivered, or the connection ended cleanly),
//     ReadFrame returns io.EOF, and returns io.EOF again on every later
//     call. Any other failure is returned as the transport's own error.
//     A ReadFrame abandoned via ctx must not lose a frame; the pending
//     frame stays queued for the next call.
//
//   - WriteFrame writes one whole frame. A partial frame must never reach
//     the wire: an error means the frame was not sent. ctx bounds the
//     write.
//
//   - Close performs whatever closing handshake the transport has and
//     releases the connection. Close may be called more than once; calls
//     after the first are no-ops or return an error, but must be safe.
//
//   - At most one goroutine may be in ReadFrame at a time, and at most one
//     in WriteFrame. A reader and a writer may run concurrently.
type RawSocket interface {
	ReadFrame(ctx context.Context) (Frame, error)
	WriteFrame(ctx context.Context, f Frame) error
	Close() error
}

// RawUpgrade is a pending server-side WebSocket handshake, extracted from
// an inbound HTTP request by a binding (see wstgorilla.NewUpgrade) and
// consumed by an Upgrade adapter.
type RawUpgrade interface {
	// Finish completes the handshake and returns the established raw
	// socket. On failure the binding's native error is returned, and the
	// binding is responsible for any HTTP-level rejection response.
	// Finish must be called at most once.
	Finish() (RawSocket, error)
}
