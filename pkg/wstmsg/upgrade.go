package wstmsg

// Upgrade is a typed adapter over a pending server-side WebSocket
// handshake. It carries the message types and codec the resulting Socket
// will use, so an HTTP handler fixes them before the connection exists.
// An Upgrade exclusively owns its RawUpgrade until OnUpgrade or Unwrap is
// called; each Upgrade completes at most one handshake.
type Upgrade[S, R any, C Codec] struct {
	raw   RawUpgrade
	codec C
}

// NewUpgrade wraps a pending raw handshake in a typed Upgrade using codec.
func NewUpgrade[S, R any, C Codec](raw RawUpgrade, codec C) *Upgrade[S, R, C] {
	return &Upgrade[S, R, C]{raw: raw, codec: codec}
}

// Map replaces the pending raw handshake with f(raw), so binding-specific
// configuration can be applied without this layer interpreting it. Map
// returns the same Upgrade, for chaining.
func (u *Upgrade[S, R, C]) Map(f func(raw RawUpgrade) RawUpgrade) *Upgrade[S, R, C] {
	u.raw = f(u.raw)
	return u
}

// OnUpgrade completes the handshake. On success it returns nil and fn is
// called exactly once, on its own goroutine, with the typed socket for the
// established connection; when fn returns, the raw socket is closed unless
// fn already closed it or took it over with Unwrap. On handshake failure
// the binding's error is returned unmodified and fn is never called.
func (u *Upgrade[S, R, C]) OnUpgrade(fn func(sock *Socket[S, R, C])) error {
	raw, err := u.raw.Finish()
	if err != nil {
		return err
	}
	go func() {
		sock := NewSocket[S, R](raw, u.codec)
		fn(sock)
		if sock.raw != nil {
			sock.raw.Close()
		}
	}()
	return nil
}

// Unwrap releases and returns the pending raw handshake. The typed Upgrade
// must not be used after Unwrap returns.
func (u *Upgrade[S, R, C]) Unwrap() RawUpgrade {
	raw := u.raw
	u.raw = nil
	return raw
}
