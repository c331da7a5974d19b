package wstgorilla

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sammck-go/asyncobj"
	"github.com/sammck-go/logger"
	"github.com/sammck-go/wstmsg/pkg/wstmsg"
)

// controlWriteWait bounds internally generated control writes (automatic
// pong replies, the closing handshake). Caller writes are bounded only by
// their ctx.
const controlWriteWait = 10 * time.Second

// frameBacklog is the number of received frames that may be queued ahead
// of ReadFrame calls. While the queue is full the reader goroutine stops
// reading from the connection, so transport flow control reaches the peer.
const frameBacklog = 8

// Socket is a wstmsg.RawSocket over a gorilla *websocket.Conn.
//
// gorilla delivers ping, pong and close events through handler callbacks
// that run inside its reader, so Socket runs a reader goroutine of its own
// that funnels data and control frames into one queue in arrival order.
// An incoming ping is answered with a pong automatically, as WebSocket
// libraries conventionally do, and the ping still surfaces to the caller.
// A close frame from the peer surfaces as one FrameClose, after which
// ReadFrame returns io.EOF forever; gorilla's default close handler has
// already echoed the close, completing the handshake.
//
// The Socket owns the conn and is responsible for closing it.
type Socket struct {
	*asyncobj.Helper
	conn *websocket.Conn
	id   uint64
	name string

	// frames carries frames from the reader goroutine to ReadFrame.
	frames chan wstmsg.Frame

	// readDone is closed by the reader goroutine after readErr is set.
	readDone chan struct{}

	// readErr is the terminal read status: io.EOF after a clean end of
	// stream, otherwise the transport failure. Guarded by Lock; set once
	// before readDone closes.
	readErr error

	// closing is closed when shutdown begins, unblocking the reader's
	// queue writes.
	closing chan struct{}
}

var _ wstmsg.RawSocket = (*Socket)(nil)

// NewSocket wraps an established gorilla connection as a raw socket. The
// Socket becomes the owner of the conn and is responsible for closing it.
// On return, the socket is already activated and reading.
func NewSocket(logger logger.Logger, conn *websocket.Conn) *Socket {
	id := wstmsg.AllocSocketID()
	name := fmt.Sprintf("[%d]GorillaSocket(%s)", id, conn.RemoteAddr())
	s := &Socket{
		conn:     conn,
		id:       id,
		name:     name,
		frames:   make(chan wstmsg.Frame, frameBacklog),
		readDone: make(chan struct{}),
		closing:  make(chan struct{}),
	}
	s.Helper = asyncobj.NewHelper(logger.ForkLogStr(name), s)

	conn.SetPingHandler(s.onPing)
	conn.SetPongHandler(s.onPong)

	s.SetIsActivated()
	go s.readPump()
	return s
}

// Conn returns the underlying gorilla connection. The Socket still owns
// it; this is for callers that need gorilla-specific inspection such as
// Subprotocol or RemoteAddr.
func (s *Socket) Conn() *websocket.Conn {
	return s.conn
}

func (s *Socket) String() string {
	return s.name
}

// onPing runs inside the reader goroutine. It answers the ping, then
// queues it so the messaging layer can observe it.
func (s *Socket) onPing(appData string) error {
	err := s.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(controlWriteWait))
	if err != nil && !tolerablePongError(err) {
		return err
	}
	s.enqueue(wstmsg.Frame{Type: wstmsg.FramePing, Data: []byte(appData)})
	return nil
}

// tolerablePongError reports whether a failed automatic pong write may be
// ignored, matching the tolerance of gorilla's default ping handler: a
// close frame already sent, or a temporary net error.
func tolerablePongError(err error) bool {
	if err == websocket.ErrCloseSent {
		return true
	}
	e, ok := err.(net.Error)
	return ok && e.Temporary()
}

// onPong runs inside the reader goroutine.
func (s *Socket) onPong(appData string) error {
	s.enqueue(wstmsg.Frame{Type: wstmsg.FramePong, Data: []byte(appData)})
	return nil
}

// enqueue queues one frame for ReadFrame, giving up if shutdown begins
// first. Returns false if the frame was abandoned.
func (s *Socket) enqueue(f wstmsg.Frame) bool {
	select {
	case s.frames <- f:
		return true
	case <-s.closing:
		return false
	}
}

// readPump runs in its own goroutine, funneling frames from the conn into
// the queue until the stream ends or fails.
func (s *Socket) readPump() {
	var final error
	for {
		t, data, err := s.conn.ReadMessage()
		if err != nil {
			if ce, ok := err.(*websocket.CloseError); ok {
				f := wstmsg.Frame{Type: wstmsg.FrameClose}
				if ce.Code != websocket.CloseNoStatusReceived {
					f.Close = &wstmsg.CloseFrame{Code: ce.Code, Reason: ce.Text}
				}
				s.DLogf("peer closed: %v", f)
				s.enqueue(f)
				final = io.EOF
			} else if s.IsStartedShutdown() {
				// our own close interrupted the read
				final = io.EOF
			} else {
				s.DLogf("read failed: %s", err)
				final = err
			}
			break
		}
		ft := wstmsg.FrameType(t)
		if !ft.IsData() {
			continue
		}
		if !s.enqueue(wstmsg.Frame{Type: ft, Data: data}) {
			final = io.EOF
			break
		}
	}
	s.Lock.Lock()
	s.readErr = final
	s.Lock.Unlock()
	close(s.readDone)
}

// ReadFrame returns the next frame from the peer, in arrival order. After
// the stream ends it returns io.EOF on every call; queued frames are
// always delivered first, so a peer's close frame surfaces before the
// first io.EOF. A ReadFrame abandoned via ctx leaves the pending frame
// queued for the next call.
func (s *Socket) ReadFrame(ctx context.Context) (wstmsg.Frame, error) {
	select {
	case f := <-s.frames:
		return f, nil
	case <-ctx.Done():
		return wstmsg.Frame{}, ctx.Err()
	case <-s.readDone:
		// deliver anything queued before the reader exited
		select {
		case f := <-s.frames:
			return f, nil
		default:
		}
		s.Lock.Lock()
		err := s.readErr
		s.Lock.Unlock()
		return wstmsg.Frame{}, err
	}
}

// WriteFrame writes one frame to the peer. Control frames go through
// gorilla's WriteControl, which is safe concurrently with the reader's
// automatic pong replies; data frames use WriteMessage. A ctx deadline is
// honored as the write deadline; cancellation without a deadline does not
// interrupt a write already in progress.
func (s *Socket) WriteFrame(ctx context.Context, f wstmsg.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.DeferShutdown(); err != nil {
		return err
	}
	defer s.UndeferShutdown()

	var deadline time.Time
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}

	switch f.Type {
	case wstmsg.FrameText, wstmsg.FrameBinary:
		s.conn.SetWriteDeadline(deadline)
		return s.conn.WriteMessage(int(f.Type), f.Data)
	case wstmsg.FramePing:
		return s.conn.WriteControl(websocket.PingMessage, f.Data, deadline)
	case wstmsg.FramePong:
		return s.conn.WriteControl(websocket.PongMessage, f.Data, deadline)
	case wstmsg.FrameClose:
		var payload []byte
		if f.Close != nil {
			payload = websocket.FormatCloseMessage(f.Close.Code, f.Close.Reason)
		}
		return s.conn.WriteControl(websocket.CloseMessage, payload, deadline)
	}
	return fmt.Errorf("%s: cannot write frame type %v", s.name, f.Type)
}

// Close shuts down the socket and waits for shutdown to complete. Close
// may be called more than once.
func (s *Socket) Close() error {
	return s.Helper.Close()
}

// HandleOnceShutdown will be called exactly once by asyncobj.Helper, in
// StateShuttingDown, in its own goroutine. It should take completionErr
// as an advisory completion value, actually shut down, then return the
// real completion value.
func (s *Socket) HandleOnceShutdown(completionErr error) error {
	close(s.closing)

	// best-effort closing handshake so the peer sees a clean end of
	// stream; gorilla returns ErrCloseSent if a close already went out
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(controlWriteWait))

	err := s.conn.Close()
	<-s.readDone

	if completionErr == nil {
		completionErr = err
	}
	return completionErr
}
