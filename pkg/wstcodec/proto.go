package wstcodec

import (
	"errors"
	"reflect"

	"github.com/golang/protobuf/proto"
	"github.com/sammck-go/wstmsg/pkg/wstmsg"
)

// ErrNotProtoMessage is returned by Proto for values that do not implement
// proto.Message.
var ErrNotProtoMessage = errors.New("wstcodec: value does not implement proto.Message")

// Proto encodes protocol buffer messages with their compiled binary
// serialization and sends them in binary frames. Unlike the reflection
// codecs it only handles values implementing proto.Message, so sockets
// using it declare pointer message types, e.g.
// Socket[*pb.ServerMsg, *pb.ClientMsg, wstcodec.Proto]. Decode accepts a
// text payload too, although Encode only ever produces binary.
type Proto struct{}

// Encode marshals a proto.Message as a binary payload. A value that is not
// a proto.Message fails with ErrNotProtoMessage before anything is
// written.
func (Proto) Encode(v any) (wstmsg.TextOrBinary, error) {
	pm, ok := v.(proto.Message)
	if !ok {
		return wstmsg.TextOrBinary{}, ErrNotProtoMessage
	}
	data, err := proto.Marshal(pm)
	if err != nil {
		return wstmsg.TextOrBinary{}, err
	}
	return wstmsg.Binary(data), nil
}

// Decode unmarshals a serialized message into v. v follows the usual
// pointer-to-target convention; when the target type is itself a message
// pointer, a nil target is allocated before unmarshalling.
func (Proto) Decode(payload wstmsg.TextOrBinary, v any) error {
	if pm, ok := v.(proto.Message); ok {
		return proto.Unmarshal(payload.Data, pm)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrNotProtoMessage
	}
	elem := rv.Elem()
	if elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			elem.Set(reflect.New(elem.Type().Elem()))
		}
		if pm, ok := elem.Interface().(proto.Message); ok {
			return proto.Unmarshal(payload.Data, pm)
		}
	}
	return ErrNotProtoMessage
}
