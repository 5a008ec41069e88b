// Package body holds protobuf field primitives used by operation codecs.
//
// Encoding follows proto3 rules: scalar fields equal to their default value are
// not written, repeated scalars are packed, and nested messages are written
// whenever the caller supplies them.
package body

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/danmuck/parsecgen/internal/protocol"
)

// Field is one decoded protobuf field.
type Field struct {
	Num  protowire.Number
	Type protowire.Type
	// Varint holds the value of varint and fixed-width fields.
	Varint uint64
	// Value holds the payload of length-delimited fields.
	Value []byte
}

// Fields is a decoded message in wire order.
type Fields []Field

// Encoder appends fields to a message buffer.
type Encoder struct {
	buf []byte
}

func (e *Encoder) Uint32(num protowire.Number, v uint32) {
	e.Uint64(num, uint64(v))
}

func (e *Encoder) Uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// Varint writes v even when it is zero, as required for oneof members.
func (e *Encoder) Varint(num protowire.Number, v uint64) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// Enum writes a proto3 enum value. Negative values are sign extended.
func (e *Encoder) Enum(num protowire.Number, v int32) {
	e.Uint64(num, uint64(int64(v)))
}

func (e *Encoder) Bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

func (e *Encoder) String(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *Encoder) Bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

// Message writes a nested message. An empty msg is still written so that
// oneof selections without payload survive the round trip.
func (e *Encoder) Message(num protowire.Number, msg []byte) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, msg)
}

func (e *Encoder) PackedUint32(num protowire.Number, vs []uint32) {
	if len(vs) == 0 {
		return
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, packed)
}

// Strings writes a repeated string field. Empty elements are kept.
func (e *Encoder) Strings(num protowire.Number, vs []string) {
	for _, v := range vs {
		e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
		e.buf = protowire.AppendString(e.buf, v)
	}
}

// Payload returns the encoded message. A message with no set fields is empty.
func (e *Encoder) Payload() []byte {
	if e.buf == nil {
		return []byte{}
	}
	return e.buf
}

// DecodeFields splits payload into its fields. Group-typed fields are rejected.
func DecodeFields(payload []byte) (Fields, error) {
	fields := make(Fields, 0)
	for len(payload) > 0 {
		num, typ, n := protowire.ConsumeTag(payload)
		if n < 0 {
			return nil, fmt.Errorf("%w: tag: %v", protocol.ErrTruncated, protowire.ParseError(n))
		}
		payload = payload[n:]
		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(payload)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", protocol.ErrTruncated, num, protowire.ParseError(m))
			}
			f.Varint = v
			n = m
		case protowire.Fixed32Type:
			v, m := protowire.ConsumeFixed32(payload)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", protocol.ErrTruncated, num, protowire.ParseError(m))
			}
			f.Varint = uint64(v)
			n = m
		case protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(payload)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", protocol.ErrTruncated, num, protowire.ParseError(m))
			}
			f.Varint = v
			n = m
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(payload)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", protocol.ErrTruncated, num, protowire.ParseError(m))
			}
			f.Value = append([]byte(nil), v...)
			n = m
		default:
			return nil, fmt.Errorf("%w: field %d has wire type %d", protocol.ErrFieldTypeMismatch, num, typ)
		}
		payload = payload[n:]
		fields = append(fields, f)
	}
	return fields, nil
}

// GetField returns the last occurrence of num, matching proto3 merge semantics
// for scalar fields.
func GetField(fields Fields, num protowire.Number) (Field, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		if fields[i].Num == num {
			return fields[i], true
		}
	}
	return Field{}, false
}

// GetAll returns every occurrence of num in wire order.
func GetAll(fields Fields, num protowire.Number) []Field {
	out := make([]Field, 0)
	for _, f := range fields {
		if f.Num == num {
			out = append(out, f)
		}
	}
	return out
}
