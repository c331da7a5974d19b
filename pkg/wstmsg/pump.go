package wstmsg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sammck-go/asyncobj"
	"github.com/sammck-go/logger"
)

// DefaultPumpBufferSize is the per-direction channel capacity used by
// NewPump when bufferSize is 0.
const DefaultPumpBufferSize = 16

// Received is one receive-side event from a Pump: a message or an error,
// never both. An Err satisfying IsCodecError applies to a single frame and
// the stream continues; any other Err is the last event before the In
// channel closes.
type Received[R any] struct {
	Msg Message[R]
	Err error
}

// Pump adapts a Socket to channels so typed WebSocket traffic composes
// with select machinery. It takes ownership of the socket and runs one
// background worker per direction, preserving the transport's flow
// control: a full In channel applies backpressure to the peer, and writes
// block when the transport does.
//
// A Pump shuts down when the peer's stream ends, when the caller closes
// the Out channel, when a transport error occurs in either direction, or
// when shutdown is requested via the asyncobj.AsyncShutdowner interface.
// Shutdown closes the socket; WaitShutdown returns nil if the session
// ended cleanly.
type Pump[S, R any, C Codec] struct {
	*asyncobj.Helper

	sock    *Socket[S, R, C]
	name    string
	in      chan Received[R]
	out     chan Message[S]
	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

// NewPump starts a message pump over sock. The Pump becomes the owner of
// sock and is responsible for closing it. bufferSize is the capacity of
// each direction's channel; if 0, DefaultPumpBufferSize is used.
// On return, the pump is already activated.
func NewPump[S, R any, C Codec](logger logger.Logger, sock *Socket[S, R, C], bufferSize int) *Pump[S, R, C] {
	if bufferSize == 0 {
		bufferSize = DefaultPumpBufferSize
	}
	name := fmt.Sprintf("<Pump [%d]>", sock.GetSocketID())
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pump[S, R, C]{
		sock:   sock,
		name:   name,
		in:     make(chan Received[R], bufferSize),
		out:    make(chan Message[S], bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
	p.Helper = asyncobj.NewHelper(logger.ForkLogStr(name), p)

	p.workers.Add(2)
	p.SetIsActivated()
	go p.readPump()
	go p.writePump()
	return p
}

// In returns the channel of messages and per-frame errors received from
// the peer. The channel closes after end of stream or a terminal error.
func (p *Pump[S, R, C]) In() <-chan Received[R] {
	return p.in
}

// Out returns the channel of messages to send to the peer. Closing it
// starts a clean shutdown of the pump once buffered messages have been
// written.
func (p *Pump[S, R, C]) Out() chan<- Message[S] {
	return p.out
}

// String returns a short descriptive name for the pump, suitable for
// logging.
func (p *Pump[S, R, C]) String() string {
	return p.name
}

// readPump runs in its own goroutine, forwarding received messages to the
// In channel until end of stream, a terminal error, or pump shutdown.
func (p *Pump[S, R, C]) readPump() {
	defer p.workers.Done()
	defer close(p.in)
	for {
		m, err := p.sock.Recv(p.ctx)
		if err != nil {
			if p.ctx.Err() != nil {
				// pump shutdown interrupted the read; not a session event
				return
			}
			if errors.Is(err, io.EOF) {
				p.DLog("read side: end of stream")
				p.StartShutdown(nil)
				return
			}
			if IsCodecError(err) {
				p.DLogf("read side: undecodable frame: %s", err)
				if !p.deliver(Received[R]{Err: err}) {
					return
				}
				continue
			}
			p.deliver(Received[R]{Err: err})
			if p.IsStartedShutdown() {
				p.DLogf("read side failed, already shutting down: %s", err)
			} else {
				p.ILogf("read side failed; shutting down: %s", err)
				p.StartShutdown(err)
			}
			return
		}
		if !p.deliver(Received[R]{Msg: m}) {
			return
		}
	}
}

// deliver sends one event to the In channel, giving up if the pump shuts
// down first. Returns false if the pump is shutting down.
func (p *Pump[S, R, C]) deliver(r Received[R]) bool {
	select {
	case p.in <- r:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// writePump runs in its own goroutine, forwarding messages from the Out
// channel to the socket until the channel closes, a terminal error, or
// pump shutdown.
func (p *Pump[S, R, C]) writePump() {
	defer p.workers.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case m, ok := <-p.out:
			if !ok {
				p.DLog("write side: Out closed by caller")
				p.StartShutdown(nil)
				return
			}
			if err := p.sock.Send(p.ctx, m); err != nil {
				if IsCodecError(err) {
					p.WLogErrorf("write side: dropping unencodable message: %s", err)
					continue
				}
				if p.ctx.Err() != nil {
					return
				}
				if p.IsStartedShutdown() {
					p.DLogf("write side failed, already shutting down: %s", err)
				} else {
					p.ILogf("write side failed; shutting down: %s", err)
					p.StartShutdown(err)
				}
				return
			}
		}
	}
}

// HandleOnceShutdown will be called exactly once by asyncobj.Helper, in
// StateShuttingDown, in its own goroutine. It should take completionErr
// as an advisory completion value, actually shut down, then return the
// real completion value.
func (p *Pump[S, R, C]) HandleOnceShutdown(completionErr error) error {
	p.cancel()
	err := p.sock.Close()
	p.workers.Wait()
	if completionErr == nil {
		completionErr = err
	}
	p.DLogf("pump done: %v", p.sock)
	return completionErr
}
