package wstmsg

// TextOrBinary is an encoded application value together with the data
// frame type it travels in. It is the unit a Codec produces and consumes;
// only FrameText and FrameBinary are meaningful here.
type TextOrBinary struct {
	Type FrameType
	Data []byte
}

// Text returns a TextOrBinary carrying data as a text payload. data must
// be valid UTF-8; WebSocket peers may reject text frames that are not.
func Text(data []byte) TextOrBinary {
	return TextOrBinary{Type: FrameText, Data: data}
}

// Binary returns a TextOrBinary carrying data as a binary payload.
func Binary(data []byte) TextOrBinary {
	return TextOrBinary{Type: FrameBinary, Data: data}
}

// IsText returns true if the payload travels in a text frame.
func (p TextOrBinary) IsText() bool {
	return p.Type == FrameText
}

// IsBinary returns true if the payload travels in a binary frame.
func (p TextOrBinary) IsBinary() bool {
	return p.Type == FrameBinary
}

// Frame converts the payload to the raw frame that carries it.
func (p TextOrBinary) Frame() Frame {
	return Frame{Type: p.Type, Data: p.Data}
}

// A Codec converts application values to and from WebSocket data payloads.
// Implementations must be stateless and pure: no I/O, no knowledge of the
// transport, and safe for concurrent use by multiple sockets. The built-in
// codecs live in package wstcodec.
//
// Encode chooses the frame type for the value it serializes; each codec
// emits one consistent representation. Decode, by contrast, must accept
// either representation when the bytes themselves are parseable, treating
// the text/binary distinction as advisory. A peer that sends JSON in a
// binary frame still interoperates with a text-JSON peer.
//
// Decode's target v follows the encoding/json convention: a non-nil
// pointer to the value to fill in.
type Codec interface {
	Encode(v any) (TextOrBinary, error)
	Decode(payload TextOrBinary, v any) error
}
