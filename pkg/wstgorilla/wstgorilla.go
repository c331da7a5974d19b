// Package wstgorilla binds package wstmsg to github.com/gorilla/websocket.
//
// Socket adapts an established *websocket.Conn to wstmsg.RawSocket,
// surfacing ping, pong and close frames in arrival order alongside data
// frames. Upgrade captures a pending server-side handshake from an
// inbound HTTP request as a wstmsg.RawUpgrade, and Dial is the matching
// client side. HTTPServer is a small convenience for hosting upgrade
// endpoints with graceful shutdown.
//
// A typical server handler:
//
//	func serveWs(lg logger.Logger, w http.ResponseWriter, r *http.Request) {
//		raw, err := wstgorilla.NewUpgrade(lg, w, r)
//		if err != nil {
//			http.Error(w, "websocket upgrade required", http.StatusBadRequest)
//			return
//		}
//		up := wstmsg.NewUpgrade[ServerMsg, ClientMsg](raw, wstcodec.JSON{})
//		err = up.OnUpgrade(func(sock *wstmsg.Socket[ServerMsg, ClientMsg, wstcodec.JSON]) {
//			// typed session runs on its own goroutine
//		})
//		if err != nil {
//			lg.DLogf("upgrade failed: %s", err)
//		}
//	}
package wstgorilla
