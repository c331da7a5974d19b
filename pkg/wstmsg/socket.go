package wstmsg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jpillora/sizestr"
)

// Socket is a typed messaging adapter over a RawSocket. S is the type of
// messages this side sends, R the type it receives, and C the codec that
// converts them to and from data frame payloads. The codec is part of the
// socket's type, so the message types and wire format of a connection are
// fixed at compile time; a server speaking Socket[ServerMsg, ClientMsg, C]
// pairs with a client speaking Socket[ClientMsg, ServerMsg, C].
//
// A Socket exclusively owns its RawSocket until Unwrap is called. It keeps
// no queues and no locks of its own; like the raw socket it allows one
// receiving goroutine and one sending goroutine at a time, and those two
// may run concurrently.
type Socket[S, R any, C Codec] struct {
	raw      RawSocket
	codec    C
	id       uint64
	strname  string
	nRead    uint64
	nWritten uint64
}

// NewSocket wraps an established raw socket in a typed Socket using codec.
// The Socket becomes the owner of the raw socket and is responsible for
// closing it.
func NewSocket[S, R any, C Codec](raw RawSocket, codec C) *Socket[S, R, C] {
	id := AllocSocketID()
	return &Socket[S, R, C]{
		raw:     raw,
		codec:   codec,
		id:      id,
		strname: fmt.Sprintf("[%d]TypedSocket(%v)", id, raw),
	}
}

// Recv returns the next message from the peer, blocking until one arrives,
// the stream ends, ctx is done, or the transport fails.
//
// On success:
//
//	A data frame is decoded with the socket's codec and returned as a
//	KindItem message. Ping, pong and close frames pass through unmodified
//	as KindPing, KindPong and KindClose messages, so control traffic is
//	observable between values.
//
// On error:
//
//	io.EOF reports that the stream is exhausted, and every later call
//	returns io.EOF again. A *CodecError reports that one frame failed to
//	decode; the frame is consumed, the socket remains usable, and later
//	frames decode normally. A *TransportError is terminal for the socket.
//
// A Recv abandoned via ctx returns the ctx's error unwrapped and loses no
// data; the pending frame is returned by the next call.
func (s *Socket[S, R, C]) Recv(ctx context.Context) (Message[R], error) {
	f, err := s.raw.ReadFrame(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Message[R]{}, err
		}
		return Message[R]{}, &TransportError{Err: err}
	}
	switch f.Type {
	case FrameText, FrameBinary:
		var v R
		if derr := s.codec.Decode(TextOrBinary{Type: f.Type, Data: f.Data}, &v); derr != nil {
			return Message[R]{}, &CodecError{Err: derr}
		}
		atomic.AddUint64(&s.nRead, uint64(len(f.Data)))
		return Item(v), nil
	case FramePing:
		return Message[R]{Kind: KindPing, Data: f.Data}, nil
	case FramePong:
		return Message[R]{Kind: KindPong, Data: f.Data}, nil
	case FrameClose:
		return Message[R]{Kind: KindClose, Close: f.Close}, nil
	}
	return Message[R]{}, &TransportError{Err: fmt.Errorf("unexpected frame type %v", f.Type)}
}

// Send transmits one message to the peer. A KindItem message is encoded
// with the socket's codec and sent as a data frame; an encode failure is
// returned as a *CodecError and nothing is written, leaving the socket
// usable. Control messages pass through unmodified; a ping or pong payload
// longer than MaxControlPayload is rejected with ErrControlPayloadTooBig
// before anything is written, and the socket likewise remains usable. A
// write failure is returned as a *TransportError and is terminal for the
// socket; a Send abandoned via ctx before writing returns the ctx's error
// unwrapped. Frames are written whole or not at all.
func (s *Socket[S, R, C]) Send(ctx context.Context, m Message[S]) error {
	var f Frame
	switch m.Kind {
	case KindItem:
		p, err := s.codec.Encode(m.Item)
		if err != nil {
			return &CodecError{Err: err}
		}
		f = p.Frame()
	case KindPing, KindPong:
		if len(m.Data) > MaxControlPayload {
			return &TransportError{Err: ErrControlPayloadTooBig}
		}
		t := FramePing
		if m.Kind == KindPong {
			t = FramePong
		}
		f = Frame{Type: t, Data: m.Data}
	case KindClose:
		f = Frame{Type: FrameClose, Close: m.Close}
	default:
		return &TransportError{Err: fmt.Errorf("invalid message kind %d", int(m.Kind))}
	}
	if err := s.raw.WriteFrame(ctx, f); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &TransportError{Err: err}
	}
	if f.Type.IsData() {
		atomic.AddUint64(&s.nWritten, uint64(len(f.Data)))
	}
	return nil
}

// Close closes the underlying raw socket, performing the transport's
// closing handshake. The socket must not be used after Close returns.
func (s *Socket[S, R, C]) Close() error {
	if err := s.raw.Close(); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// Unwrap releases and returns the underlying raw socket, along with the
// obligation to close it. The typed socket must not be used after Unwrap
// returns; the stream position is wherever the typed socket left it, with
// no buffered state held back.
func (s *Socket[S, R, C]) Unwrap() RawSocket {
	raw := s.raw
	s.raw = nil
	return raw
}

// GetSocketID returns a unique identifier of this socket. Identifiers are
// never reused for the life of the process.
func (s *Socket[S, R, C]) GetSocketID() uint64 {
	return s.id
}

// GetNumBytesRead returns the number of data payload bytes successfully
// decoded so far. Control frame payloads are not counted.
func (s *Socket[S, R, C]) GetNumBytesRead() uint64 {
	return atomic.LoadUint64(&s.nRead)
}

// GetNumBytesWritten returns the number of data payload bytes successfully
// written so far. Control frame payloads are not counted.
func (s *Socket[S, R, C]) GetNumBytesWritten() uint64 {
	return atomic.LoadUint64(&s.nWritten)
}

// String returns a short descriptive name for the socket, suitable for
// logging, including the data byte counts in both directions.
func (s *Socket[S, R, C]) String() string {
	return fmt.Sprintf("%s(rx=%s, tx=%s)",
		s.strname,
		sizestr.ToString(int64(atomic.LoadUint64(&s.nRead))),
		sizestr.ToString(int64(atomic.LoadUint64(&s.nWritten))))
}

var nextSocketID uint64

// AllocSocketID allocates a unique Socket ID number, for logging purposes.
func AllocSocketID() uint64 {
	return atomic.AddUint64(&nextSocketID, 1)
}
