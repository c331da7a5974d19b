package wstgorilla

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sammck-go/logger"
)

// DefaultDialer is the dialer used by Dial: 1KB buffers and a 45 second
// handshake timeout.
var DefaultDialer = &websocket.Dialer{
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	HandshakeTimeout: 45 * time.Second,
}

// Dial opens a WebSocket connection to urlStr ("ws://..." or "wss://...")
// and wraps it in a Socket. hdr may be nil. On handshake failure the
// server's HTTP response, if there was one, is returned along with the
// error so callers can inspect the status.
func Dial(ctx context.Context, logger logger.Logger, urlStr string, hdr http.Header) (*Socket, *http.Response, error) {
	return DialWith(ctx, logger, DefaultDialer, urlStr, hdr)
}

// DialWith is Dial with a caller-supplied dialer, for custom TLS
// configuration, subprotocols or proxies.
func DialWith(ctx context.Context, logger logger.Logger, d *websocket.Dialer, urlStr string, hdr http.Header) (*Socket, *http.Response, error) {
	wsConn, resp, err := d.DialContext(ctx, urlStr, hdr)
	if err != nil {
		return nil, resp, err
	}
	return NewSocket(logger, wsConn), resp, nil
}
