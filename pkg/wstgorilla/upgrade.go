package wstgorilla

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sammck-go/logger"
	"github.com/sammck-go/wstmsg/pkg/wstmsg"
)

// ErrNotWebSocket is returned by NewUpgrade for requests that are not a
// WebSocket handshake.
var ErrNotWebSocket = errors.New("wstgorilla: not a websocket upgrade request")

// upgrader is the default handshake configuration each Upgrade starts
// from.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Upgrade is a pending server-side WebSocket handshake: a
// wstmsg.RawUpgrade over gorilla's Upgrader. The exported fields may be
// adjusted any time before Finish, typically through the typed adapter's
// Map.
type Upgrade struct {
	// Upgrader performs the handshake. It starts as a copy of the package
	// default: 1KB buffers, all origins allowed.
	Upgrader websocket.Upgrader

	// ResponseHeader, if not nil, is included in the 101 response, e.g.
	// to set cookies or announce the negotiated subprotocol.
	ResponseHeader http.Header

	logger logger.Logger
	w      http.ResponseWriter
	r      *http.Request
}

var _ wstmsg.RawUpgrade = (*Upgrade)(nil)

// NewUpgrade captures a pending WebSocket handshake from an inbound
// request. It fails with ErrNotWebSocket if the request is not a
// WebSocket upgrade, in which case nothing has been written and the
// caller still owns the HTTP response. logger is used by the Socket that
// Finish eventually creates.
func NewUpgrade(logger logger.Logger, w http.ResponseWriter, r *http.Request) (*Upgrade, error) {
	if !websocket.IsWebSocketUpgrade(r) {
		return nil, ErrNotWebSocket
	}
	return &Upgrade{
		Upgrader: upgrader,
		logger:   logger,
		w:        w,
		r:        r,
	}, nil
}

// Request returns the inbound request the handshake was captured from,
// for routing or auth decisions made before Finish.
func (u *Upgrade) Request() *http.Request {
	return u.r
}

// Finish completes the handshake and wraps the connection in a Socket.
// On failure gorilla has already written its HTTP rejection to the
// client, and the error is returned unmodified.
func (u *Upgrade) Finish() (wstmsg.RawSocket, error) {
	wsConn, err := u.Upgrader.Upgrade(u.w, u.r, u.ResponseHeader)
	if err != nil {
		return nil, err
	}
	return NewSocket(u.logger, wsConn), nil
}
