package wstcodec

import (
	"github.com/golang/snappy"
	"github.com/sammck-go/wstmsg/pkg/wstmsg"
)

// Snappy wraps another codec and compresses its payloads with snappy block
// compression, always producing binary frames. A zero Snappy wraps
// BinaryJSON, so Snappy{} is usable as-is. Both peers must agree on the
// wrapping; compressed payloads are not readable by the inner codec alone.
type Snappy struct {
	Inner wstmsg.Codec
}

func (c Snappy) inner() wstmsg.Codec {
	if c.Inner == nil {
		return BinaryJSON{}
	}
	return c.Inner
}

// Encode encodes v with the inner codec, then compresses the payload into
// a binary frame.
func (c Snappy) Encode(v any) (wstmsg.TextOrBinary, error) {
	p, err := c.inner().Encode(v)
	if err != nil {
		return wstmsg.TextOrBinary{}, err
	}
	return wstmsg.Binary(snappy.Encode(nil, p.Data)), nil
}

// Decode decompresses a payload of either representation and hands the
// result to the inner codec as a binary payload. Inner codecs decode by
// bytes regardless of representation, so nothing is lost in the round
// trip.
func (c Snappy) Decode(payload wstmsg.TextOrBinary, v any) error {
	data, err := snappy.Decode(nil, payload.Data)
	if err != nil {
		return err
	}
	return c.inner().Decode(wstmsg.Binary(data), v)
}
