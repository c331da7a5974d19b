package wstcodec

import (
	"github.com/sammck-go/wstmsg/pkg/wstmsg"
	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack encodes values as MessagePack and sends them in binary frames.
// It is schema-free like JSON but considerably more compact on the wire.
// Decode accepts a text payload too, reinterpreting its UTF-8 bytes as a
// MessagePack document.
type Msgpack struct{}

// Encode marshals v to MessagePack as a binary payload.
func (Msgpack) Encode(v any) (wstmsg.TextOrBinary, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return wstmsg.TextOrBinary{}, err
	}
	return wstmsg.Binary(data), nil
}

// Decode unmarshals a MessagePack payload of either representation into v.
func (Msgpack) Decode(payload wstmsg.TextOrBinary, v any) error {
	return msgpack.Unmarshal(payload.Data, v)
}
