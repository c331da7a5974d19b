// Package wstmsg provides a typed messaging layer over a bidirectional
// WebSocket frame stream.
//
// A WebSocket connection carries untyped text and binary frames,
// interleaved with protocol control frames (ping, pong, close).
// Applications, on the other hand, want to exchange values of known types.
// This package sits between the two: a Codec converts application values
// to and from data frame payloads, and a typed Socket adapter multiplexes
// those values with the control frames that flow on the same connection,
// preserving the transport's flow control and closing semantics.
//
// The two sides of a connection agree on a pair of message types. By
// convention S is the type a socket sends and R the type it receives, so a
// server that talks Socket[ServerMsg, ClientMsg, C] pairs with a client
// that talks Socket[ClientMsg, ServerMsg, C]. The codec is also part of
// the socket's type, so the wire format is fixed at compile time and there
// is no codec registry or negotiation at this layer.
//
// This package owns no I/O. It consumes two narrow interfaces: RawSocket,
// a frame-level transport, and RawUpgrade, a pending server-side
// handshake. Package wstgorilla binds both to
// github.com/gorilla/websocket; tests bind them to in-memory fakes.
// Upgrade mechanics, fragmentation, compression, masking, TLS and
// reconnection all live below or above this layer, never in it.
//
// Errors are split into exactly two kinds. A *TransportError reports a
// failure of the connection itself and is terminal for the socket. A
// *CodecError reports that one message could not be encoded or decoded;
// the connection is intact and the socket remains usable, so one
// malformed message from a peer never tears down a session.
//
// For channel-based composition, a Pump runs a goroutine per direction
// and exposes the socket as an In channel and an Out channel, with
// lifecycle management via asyncobj.
package wstmsg
