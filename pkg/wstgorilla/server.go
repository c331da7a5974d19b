package wstgorilla

import (
	"context"
	"net"
	"net/http"

	"github.com/sammck-go/asyncobj"
	"github.com/sammck-go/logger"
)

// HTTPServer extends net/http Server with graceful asyncobj-managed
// shutdown, a convenience for hosting WebSocket upgrade endpoints.
type HTTPServer struct {
	*asyncobj.Helper
	*http.Server
	listener net.Listener

	// ctx and addr are the ListenAndServe arguments, stashed for
	// HandleOnceActivate. Guarded by Lock.
	ctx  context.Context
	addr string
}

var _ asyncobj.HandleOnceActivator = (*HTTPServer)(nil)

// NewHTTPServer creates a new HTTPServer. Nothing happens until
// ListenAndServe is called.
func NewHTTPServer(logger logger.Logger) *HTTPServer {
	h := &HTTPServer{
		Server: &http.Server{},
	}
	h.Helper = asyncobj.NewHelper(logger.ForkLogStr("HTTPServer"), h)
	return h
}

// HandleOnceShutdown will be called exactly once by asyncobj.Helper, in
// StateShuttingDown, in its own goroutine. It should take completionErr
// as an advisory completion value, actually shut down, then return the
// real completion value.
func (h *HTTPServer) HandleOnceShutdown(completionErr error) error {
	h.DLogf("HandleOnceShutdown")
	var err error
	h.Lock.Lock()
	l := h.listener
	h.Lock.Unlock()
	if l != nil {
		err = l.Close()
		if err != nil {
			h.DLogf("close of listener failed, ignoring: %s", err)
		}
	}
	if completionErr == nil {
		completionErr = err
	}
	return completionErr
}

// Addr returns the bound listen address, or nil before ListenAndServe has
// bound one. Useful when listening on port 0.
func (h *HTTPServer) Addr() net.Addr {
	h.Lock.Lock()
	defer h.Lock.Unlock()
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// ListenAndServe runs the HTTP server on the given bind address, invoking
// the provided handler for each request. It returns after the server has
// shut down. The server can be shut down either by cancelling the context
// or by calling Shutdown().
func (h *HTTPServer) ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	h.Lock.Lock()
	h.ctx = ctx
	h.addr = addr
	h.Handler = handler
	h.Lock.Unlock()

	// asyncobj v1.1.0 dispatches activation to the HandleOnceActivate
	// method when given a non-nil callback; the callback itself is never
	// invoked
	err := h.DoOnceActivate(func() error { return nil }, true)
	if err == nil {
		err = h.WaitShutdown()
	}
	return err
}

// HandleOnceActivate will be called exactly once by asyncobj.Helper when
// activation is requested. It binds the listener and starts the serve
// goroutine.
func (h *HTTPServer) HandleOnceActivate() error {
	h.Lock.Lock()
	ctx := h.ctx
	addr := h.addr
	h.Lock.Unlock()

	h.ShutdownOnContext(ctx)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return h.DLogErrorf("Listen failed: %s", err)
	}
	h.Lock.Lock()
	h.listener = l
	h.Lock.Unlock()
	h.ILogf("serving HTTP on %s", l.Addr())

	go func() {
		h.Shutdown(h.Serve(l))
	}()

	return nil
}

// Shutdown completely shuts down the server, then returns the final
// completion code.
func (h *HTTPServer) Shutdown(completionErr error) error {
	return h.Helper.Shutdown(completionErr)
}

// Close completely shuts down the server, then returns the final
// completion code.
func (h *HTTPServer) Close() error {
	return h.Helper.Close()
}
