package wstgorilla

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sammck-go/logger"
	"github.com/sammck-go/wstmsg/pkg/wstcodec"
	"github.com/sammck-go/wstmsg/pkg/wstmsg"
)

type srvMsg struct {
	Kind string `json:"kind"`
	Seq  int    `json:"seq"`
}

type cliMsg struct {
	Kind string `json:"kind"`
	Seq  int    `json:"seq"`
}

type serverSocket = wstmsg.Socket[srvMsg, cliMsg, wstcodec.JSON]

func newTestLogger(t *testing.T, prefix string) logger.Logger {
	t.Helper()
	lg, err := logger.New(
		logger.WithWriter(os.Stderr),
		logger.WithLogLevel(logger.LogLevelDebug),
		logger.WithPrefix(prefix),
	)
	if err != nil {
		t.Fatalf("logger.New() returned error: %s", err)
	}
	return lg
}

// startServer runs an HTTP test server whose /ws endpoint upgrades each
// request and hands the typed socket to session.
func startServer(t *testing.T, lg logger.Logger, session func(sock *serverSocket)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ru, err := NewUpgrade(lg, w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		up := wstmsg.NewUpgrade[srvMsg, cliMsg](ru, wstcodec.JSON{})
		if err := up.OnUpgrade(session); err != nil {
			t.Errorf("OnUpgrade returned error: %s", err)
		}
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestTypedSession(t *testing.T) {
	lg := newTestLogger(t, "TestTypedSession")
	ctx := context.Background()

	sessionErr := make(chan error, 1)
	ts := startServer(t, lg, func(sock *serverSocket) {
		sessionErr <- runPingSession(ctx, sock)
	})

	raw, resp, err := Dial(ctx, lg, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("Dial returned error: %s", err)
	}
	if resp == nil || resp.StatusCode != http.StatusSwitchingProtocols {
		t.Errorf("handshake response: got %+v", resp)
	}
	sock := wstmsg.NewSocket[cliMsg, srvMsg](raw, wstcodec.JSON{})

	// expect ping 1..2, answer each, then a normal close
	for i := 1; i <= 2; i++ {
		m, err := sock.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv %d returned error: %s", i, err)
		}
		if m.Kind != wstmsg.KindItem || m.Item.Kind != "ping" || m.Item.Seq != i {
			t.Fatalf("Recv %d: got %v", i, m)
		}
		if err := sock.Send(ctx, wstmsg.Item(cliMsg{Kind: "pong", Seq: i})); err != nil {
			t.Fatalf("Send %d returned error: %s", i, err)
		}
	}
	m, err := sock.Recv(ctx)
	if err != nil || m.Kind != wstmsg.KindClose {
		t.Fatalf("expected close, got (%v, %v)", m, err)
	}
	if m.Close == nil || m.Close.Code != wstmsg.StatusNormalClosure || m.Close.Reason != "done" {
		t.Errorf("close payload: got %+v", m.Close)
	}
	for i := 0; i < 2; i++ {
		if _, err := sock.Recv(ctx); !errors.Is(err, io.EOF) {
			t.Errorf("Recv after close: got %v, want io.EOF", err)
		}
	}
	if err := sock.Close(); err != nil {
		t.Errorf("Close returned error: %s", err)
	}

	select {
	case err := <-sessionErr:
		if err != nil {
			t.Errorf("server session failed: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server session did not finish")
	}
}

// runPingSession drives the server side of TestTypedSession: two pings,
// each answered by a matching pong, then a clean close.
func runPingSession(ctx context.Context, sock *serverSocket) error {
	for i := 1; i <= 2; i++ {
		if err := sock.Send(ctx, wstmsg.Item(srvMsg{Kind: "ping", Seq: i})); err != nil {
			return err
		}
		for {
			m, err := sock.Recv(ctx)
			if err != nil {
				return err
			}
			if m.Kind != wstmsg.KindItem {
				continue
			}
			if m.Item.Kind == "pong" && m.Item.Seq == i {
				break
			}
		}
	}
	cf := &wstmsg.CloseFrame{Code: wstmsg.StatusNormalClosure, Reason: "done"}
	return sock.Send(ctx, wstmsg.Close[srvMsg](cf))
}

func TestMalformedPayloadKeepsSessionOpen(t *testing.T) {
	lg := newTestLogger(t, "TestMalformedPayloadKeepsSessionOpen")
	ctx := context.Background()

	ts := startServer(t, lg, func(sock *serverSocket) {
		// echo items; an undecodable payload must not end the session
		for {
			m, err := sock.Recv(ctx)
			if err != nil {
				if wstmsg.IsCodecError(err) {
					continue
				}
				return
			}
			if m.Kind != wstmsg.KindItem {
				continue
			}
			if err := sock.Send(ctx, wstmsg.Item(srvMsg{Kind: "echo", Seq: m.Item.Seq})); err != nil {
				return
			}
		}
	})

	raw, _, err := Dial(ctx, lg, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("Dial returned error: %s", err)
	}
	sock := wstmsg.NewSocket[cliMsg, srvMsg](raw, wstcodec.JSON{})
	defer sock.Close()

	// slip a frame past the codec that the server cannot decode
	if err := raw.WriteFrame(ctx, wstmsg.Text([]byte("not json")).Frame()); err != nil {
		t.Fatalf("WriteFrame returned error: %s", err)
	}
	if err := sock.Send(ctx, wstmsg.Item(cliMsg{Kind: "ping", Seq: 42})); err != nil {
		t.Fatalf("Send returned error: %s", err)
	}

	m, err := sock.Recv(ctx)
	if err != nil || m.Kind != wstmsg.KindItem || m.Item.Seq != 42 {
		t.Fatalf("echo after malformed frame: got (%v, %v)", m, err)
	}
}

func TestControlFrames(t *testing.T) {
	lg := newTestLogger(t, "TestControlFrames")
	ctx := context.Background()

	pings := make(chan []byte, 4)
	ts := startServer(t, lg, func(sock *serverSocket) {
		for {
			m, err := sock.Recv(ctx)
			if err != nil {
				return
			}
			if m.Kind == wstmsg.KindPing {
				pings <- append([]byte(nil), m.Data...)
			}
			if m.Kind == wstmsg.KindClose {
				return
			}
		}
	})

	raw, _, err := Dial(ctx, lg, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("Dial returned error: %s", err)
	}
	sock := wstmsg.NewSocket[cliMsg, srvMsg](raw, wstcodec.JSON{})
	defer sock.Close()

	if err := sock.Send(ctx, wstmsg.Ping[cliMsg]([]byte("marco"))); err != nil {
		t.Fatalf("Send ping returned error: %s", err)
	}

	// the server transport answers the ping on its own
	m, err := sock.Recv(ctx)
	if err != nil || m.Kind != wstmsg.KindPong || string(m.Data) != "marco" {
		t.Fatalf("expected automatic pong, got (%v, %v)", m, err)
	}

	// and the server application still observed the ping itself
	select {
	case data := <-pings:
		if string(data) != "marco" {
			t.Errorf("server observed ping payload %q", data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never observed the ping")
	}
}

// fakeNetError is a net.Error with a controllable Temporary result.
type fakeNetError struct {
	temporary bool
}

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return false }
func (e *fakeNetError) Temporary() bool { return e.temporary }

func TestTolerablePongError(t *testing.T) {
	if !tolerablePongError(websocket.ErrCloseSent) {
		t.Errorf("tolerablePongError(ErrCloseSent): got false, want true")
	}
	if !tolerablePongError(&fakeNetError{temporary: true}) {
		t.Errorf("tolerablePongError(temporary net error): got false, want true")
	}
	if tolerablePongError(&fakeNetError{temporary: false}) {
		t.Errorf("tolerablePongError(permanent net error): got true, want false")
	}
	if tolerablePongError(errors.New("broken pipe")) {
		t.Errorf("tolerablePongError(plain error): got true, want false")
	}
}

func TestUpgradeRejectsPlainHTTP(t *testing.T) {
	lg := newTestLogger(t, "TestUpgradeRejectsPlainHTTP")

	ts := startServer(t, lg, func(sock *serverSocket) {
		t.Error("session ran for a non-websocket request")
	})

	resp, err := http.Get(ts.URL + "/ws")
	if err != nil {
		t.Fatalf("GET returned error: %s", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	// NewUpgrade reports the sentinel without touching the response
	r := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()
	if _, err := NewUpgrade(lg, w, r); !errors.Is(err, ErrNotWebSocket) {
		t.Errorf("NewUpgrade on plain request: got %v, want ErrNotWebSocket", err)
	}
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("NewUpgrade wrote to the response: code %d, %d body bytes", w.Code, w.Body.Len())
	}
}

func TestDialClosedServer(t *testing.T) {
	lg := newTestLogger(t, "TestDialClosedServer")
	ts := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	ts.Close()

	if _, _, err := Dial(context.Background(), lg, url, nil); err == nil {
		t.Errorf("Dial to a closed server did not fail")
	}
}
