package codec

import "google.golang.org/protobuf/proto"

// Protobuf serializes proto messages. ctor builds an empty message to
// unmarshal into, e.g. func() *structpb.Struct { return &structpb.Struct{} }.
type Protobuf[T proto.Message] struct {
	ctor          func() T
	deterministic bool
}

func NewProtobuf[T proto.Message](ctor func() T, deterministic bool) Protobuf[T] {
	return Protobuf[T]{ctor: ctor, deterministic: deterministic}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: c.deterministic}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.ctor()
	err := proto.Unmarshal(b, m)
	return m, err
}
