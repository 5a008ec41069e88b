package body

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/danmuck/parsecgen/internal/protocol"
)

func (f Field) mismatch(want protowire.Type) error {
	return fmt.Errorf("%w: field %d: got wire type %d, want %d", protocol.ErrFieldTypeMismatch, f.Num, f.Type, want)
}

// Uint32 returns the field value as uint32.
func (f Field) Uint32() (uint32, error) {
	if f.Type != protowire.VarintType {
		return 0, f.mismatch(protowire.VarintType)
	}
	if f.Varint > math.MaxUint32 {
		return 0, fmt.Errorf("%w: field %d overflows uint32", protocol.ErrInvalidLength, f.Num)
	}
	return uint32(f.Varint), nil
}

// Uint64 returns the field value as uint64.
func (f Field) Uint64() (uint64, error) {
	if f.Type != protowire.VarintType {
		return 0, f.mismatch(protowire.VarintType)
	}
	return f.Varint, nil
}

// Int32 returns the field value as an enum or int32.
func (f Field) Int32() (int32, error) {
	if f.Type != protowire.VarintType {
		return 0, f.mismatch(protowire.VarintType)
	}
	return int32(f.Varint), nil
}

// Bool returns the field value as bool.
func (f Field) Bool() (bool, error) {
	if f.Type != protowire.VarintType {
		return false, f.mismatch(protowire.VarintType)
	}
	return protowire.DecodeBool(f.Varint), nil
}

// String returns the field value as string.
func (f Field) String() (string, error) {
	if f.Type != protowire.BytesType {
		return "", f.mismatch(protowire.BytesType)
	}
	return string(f.Value), nil
}

// Bytes returns the field value as bytes.
func (f Field) Bytes() ([]byte, error) {
	if f.Type != protowire.BytesType {
		return nil, f.mismatch(protowire.BytesType)
	}
	out := make([]byte, len(f.Value))
	copy(out, f.Value)
	return out, nil
}

// PackedUint32 returns the values of a packed repeated field. A single
// unpacked varint is also accepted.
func (f Field) PackedUint32() ([]uint32, error) {
	switch f.Type {
	case protowire.VarintType:
		v, err := f.Uint32()
		if err != nil {
			return nil, err
		}
		return []uint32{v}, nil
	case protowire.BytesType:
	default:
		return nil, f.mismatch(protowire.BytesType)
	}
	out := make([]uint32, 0)
	b := f.Value
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", protocol.ErrTruncated, f.Num, protowire.ParseError(n))
		}
		if v > math.MaxUint32 {
			return nil, fmt.Errorf("%w: field %d overflows uint32", protocol.ErrInvalidLength, f.Num)
		}
		out = append(out, uint32(v))
		b = b[n:]
	}
	return out, nil
}

// The lookups below return the proto3 default when the field is absent.

func (fs Fields) Uint32(num protowire.Number) (uint32, error) {
	f, ok := GetField(fs, num)
	if !ok {
		return 0, nil
	}
	return f.Uint32()
}

func (fs Fields) Uint64(num protowire.Number) (uint64, error) {
	f, ok := GetField(fs, num)
	if !ok {
		return 0, nil
	}
	return f.Uint64()
}

func (fs Fields) Int32(num protowire.Number) (int32, error) {
	f, ok := GetField(fs, num)
	if !ok {
		return 0, nil
	}
	return f.Int32()
}

func (fs Fields) Bool(num protowire.Number) (bool, error) {
	f, ok := GetField(fs, num)
	if !ok {
		return false, nil
	}
	return f.Bool()
}

func (fs Fields) String(num protowire.Number) (string, error) {
	f, ok := GetField(fs, num)
	if !ok {
		return "", nil
	}
	return f.String()
}

// Bytes returns nil for an absent field.
func (fs Fields) Bytes(num protowire.Number) ([]byte, error) {
	f, ok := GetField(fs, num)
	if !ok {
		return nil, nil
	}
	return f.Bytes()
}

// Message decodes the nested message at num. ok is false when it is absent.
func (fs Fields) Message(num protowire.Number) (msg Fields, ok bool, err error) {
	f, ok := GetField(fs, num)
	if !ok {
		return nil, false, nil
	}
	raw, err := f.Bytes()
	if err != nil {
		return nil, true, err
	}
	msg, err = DecodeFields(raw)
	if err != nil {
		return nil, true, err
	}
	return msg, true, nil
}

// PackedUint32 concatenates every occurrence of num. It returns nil when the
// field is absent, as do the other repeated lookups.
func (fs Fields) PackedUint32(num protowire.Number) ([]uint32, error) {
	var out []uint32
	for _, f := range GetAll(fs, num) {
		vs, err := f.PackedUint32()
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	return out, nil
}

// Strings returns every occurrence of a repeated string field.
func (fs Fields) Strings(num protowire.Number) ([]string, error) {
	var out []string
	for _, f := range GetAll(fs, num) {
		s, err := f.String()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Messages decodes every occurrence of a repeated message field.
func (fs Fields) Messages(num protowire.Number) ([]Fields, error) {
	var out []Fields
	for _, f := range GetAll(fs, num) {
		raw, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		msg, err := DecodeFields(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
