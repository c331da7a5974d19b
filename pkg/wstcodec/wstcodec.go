// Package wstcodec provides the built-in codecs for package wstmsg.
//
// Each codec is a small immutable value intended to be used as the codec
// type parameter of a wstmsg Socket or Upgrade, and is safe for
// concurrent use by any number of sockets. All but Snappy are zero-size;
// Snappy carries its optional Inner delegate.
//
// Every codec here encodes to one consistent wire representation but
// decodes both: a payload is parsed by its bytes whether it arrived in a
// text or a binary frame. The frame type is advisory on the wire, and
// being strict about it would only break interoperability with peers that
// chose the other representation for the same bytes.
package wstcodec

import "github.com/sammck-go/wstmsg/pkg/wstmsg"

var (
	_ wstmsg.Codec = JSON{}
	_ wstmsg.Codec = BinaryJSON{}
	_ wstmsg.Codec = Msgpack{}
	_ wstmsg.Codec = Proto{}
	_ wstmsg.Codec = Snappy{}
)
