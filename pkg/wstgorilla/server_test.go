package wstgorilla

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestHTTPServer(t *testing.T) {
	lg := newTestLogger(t, "TestHTTPServer")

	var stats ConnStats
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats.New()
		stats.Open()
		defer stats.Close()
		w.WriteHeader(http.StatusOK)
	})

	h := NewHTTPServer(lg)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- h.ListenAndServe(context.Background(), "127.0.0.1:0", mux)
	}()

	var addr net.Addr
	deadline := time.Now().Add(5 * time.Second)
	for addr == nil && time.Now().Before(deadline) {
		addr = h.Addr()
		if addr == nil {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if addr == nil {
		t.Fatal("server never bound a listener")
	}

	resp, err := http.Get("http://" + addr.String() + "/health")
	if err != nil {
		t.Fatalf("GET returned error: %s", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if s := stats.String(); s != "[0/1]" {
		t.Errorf("connection stats: got %q, want %q", s, "[0/1]")
	}

	h.StartShutdown(nil)
	select {
	case err := <-serveErr:
		if err != nil {
			t.Errorf("server completion error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestHTTPServerContextCancel(t *testing.T) {
	lg := newTestLogger(t, "TestHTTPServerContextCancel")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHTTPServer(lg)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- h.ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()

	var addr net.Addr
	deadline := time.Now().Add(5 * time.Second)
	for addr == nil && time.Now().Before(deadline) {
		addr = h.Addr()
		if addr == nil {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if addr == nil {
		t.Fatal("server never bound a listener")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("completion error: got %v, want nil or context.Canceled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down on context cancel")
	}
}

func TestHTTPServerListenFailure(t *testing.T) {
	lg := newTestLogger(t, "TestHTTPServerListenFailure")

	// grab a port so the server cannot
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen returned error: %s", err)
	}
	defer l.Close()

	h := NewHTTPServer(lg)
	if err := h.ListenAndServe(context.Background(), l.Addr().String(), http.NotFoundHandler()); err == nil {
		t.Errorf("ListenAndServe on a taken port did not fail")
	}
}

func TestConnStats(t *testing.T) {
	var stats ConnStats
	stats.New()
	stats.Open()
	stats.New()
	stats.Open()
	stats.Close()

	if n := stats.NumOpen(); n != 1 {
		t.Errorf("NumOpen(): got %d, want 1", n)
	}
	if n := stats.Total(); n != 2 {
		t.Errorf("Total(): got %d, want 2", n)
	}
	if s := stats.String(); s != "[1/2]" {
		t.Errorf("String(): got %q, want %q", s, "[1/2]")
	}
}
