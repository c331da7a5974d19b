package wstcodec

import (
	"encoding/json"

	"github.com/sammck-go/wstmsg/pkg/wstmsg"
)

// JSON encodes values with encoding/json and sends them in text frames,
// the conventional representation for JSON over WebSockets.
type JSON struct{}

// Encode marshals v to JSON as a text payload.
func (JSON) Encode(v any) (wstmsg.TextOrBinary, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return wstmsg.TextOrBinary{}, err
	}
	return wstmsg.Text(data), nil
}

// Decode unmarshals a JSON payload of either representation into v.
func (JSON) Decode(payload wstmsg.TextOrBinary, v any) error {
	return json.Unmarshal(payload.Data, v)
}

// BinaryJSON encodes values exactly like JSON but sends them in binary
// frames, for peers that treat all payloads as bytes. Decoding is
// identical to JSON's, so the two interoperate freely.
type BinaryJSON struct{}

// Encode marshals v to JSON as a binary payload.
func (BinaryJSON) Encode(v any) (wstmsg.TextOrBinary, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return wstmsg.TextOrBinary{}, err
	}
	return wstmsg.Binary(data), nil
}

// Decode unmarshals a JSON payload of either representation into v.
func (BinaryJSON) Decode(payload wstmsg.TextOrBinary, v any) error {
	return json.Unmarshal(payload.Data, v)
}
