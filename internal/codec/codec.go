// Package codec maps each opcode to the functions that encode and decode its
// operation and result bodies.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/parsecgen/internal/protocol"
)

var (
	ErrKindMismatch    = errors.New("codec: opcode/value kind mismatch")
	ErrEntryExists     = errors.New("codec: opcode already registered")
	ErrInvalidEntry    = errors.New("codec: invalid entry")
	ErrUnknownOpcode   = errors.New("codec: opcode not registered")
	ErrNilOperation    = errors.New("codec: operation is nil")
	ErrEncodingFailure = errors.New("codec: body encoding failed")
)

// Body is a value with a protobuf body encoding bound to one opcode.
type Body interface {
	Opcode() protocol.Opcode
	MarshalBody() ([]byte, error)
}

// Operation is the request-side value of an opcode.
type Operation interface {
	Body
}

// Result is the response-side value of an opcode.
type Result interface {
	Body
}

// Shape is the client-facing shape of a decoded result.
type Shape uint8

const (
	ShapeObject Shape = iota
	ShapeList
)

// Empty returns the JSON value a client reports when no body is present.
func (s Shape) Empty() any {
	if s == ShapeList {
		return []any{}
	}
	return map[string]any{}
}

// IsEmpty reports whether v renders as the empty value of s. The comparison
// goes through JSON so typed empties such as []string{} and decoded
// artifact values are accepted alike.
func (s Shape) IsEmpty(v any) bool {
	got, err := json.Marshal(v)
	if err != nil {
		return false
	}
	want, _ := json.Marshal(s.Empty())
	return bytes.Equal(got, want)
}

func (s Shape) String() string {
	if s == ShapeList {
		return "list"
	}
	return "object"
}

// Entry is the codec function set for one opcode.
type Entry struct {
	Opcode          protocol.Opcode
	Shape           Shape
	DecodeOperation func([]byte) (Operation, error)
	DecodeResult    func([]byte) (Result, error)
}

// KindMismatchError reports a value passed under the wrong opcode.
type KindMismatchError struct {
	Want protocol.Opcode
	Got  protocol.Opcode
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("%v: want %s, got %s", ErrKindMismatch, e.Want, e.Got)
}

func (e *KindMismatchError) Unwrap() error {
	return ErrKindMismatch
}

// Registry stores codec entries by opcode.
type Registry struct {
	items map[protocol.Opcode]Entry
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[protocol.Opcode]Entry)}
}

// Register adds an entry to the registry.
func (r *Registry) Register(e Entry) error {
	if !e.Opcode.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidEntry, protocol.ErrUnknownOpcode, uint32(e.Opcode))
	}
	if e.DecodeOperation == nil || e.DecodeResult == nil {
		return fmt.Errorf("%w: %s: decoders are required", ErrInvalidEntry, e.Opcode)
	}
	if _, ok := r.items[e.Opcode]; ok {
		return fmt.Errorf("%w: %s", ErrEntryExists, e.Opcode)
	}
	r.items[e.Opcode] = e
	return nil
}

func (r *Registry) Lookup(op protocol.Opcode) (Entry, bool) {
	e, ok := r.items[op]
	return e, ok
}

// Opcodes returns registered opcodes in ascending order.
func (r *Registry) Opcodes() []protocol.Opcode {
	ops := make([]protocol.Opcode, 0, len(r.items))
	for op := range r.items {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// EncodeOperation produces the request body for v under op.
func (r *Registry) EncodeOperation(op protocol.Opcode, v Operation) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilOperation, op)
	}
	return r.encode(op, v)
}

// EncodeResult produces the response body for v under op. A nil result is
// the no-body marker and encodes to an empty body.
func (r *Registry) EncodeResult(op protocol.Opcode, v Result) ([]byte, error) {
	if v == nil {
		if _, ok := r.items[op]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
		}
		return []byte{}, nil
	}
	return r.encode(op, v)
}

func (r *Registry) encode(op protocol.Opcode, v Body) ([]byte, error) {
	if _, ok := r.items[op]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	if got := v.Opcode(); got != op {
		return nil, &KindMismatchError{Want: op, Got: got}
	}
	b, err := v.MarshalBody()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncodingFailure, op, err)
	}
	return b, nil
}

// DecodeOperation parses a request body registered under op.
func (r *Registry) DecodeOperation(op protocol.Opcode, b []byte) (Operation, error) {
	e, ok := r.items[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	return e.DecodeOperation(b)
}

// DecodeResult parses a response body registered under op.
func (r *Registry) DecodeResult(op protocol.Opcode, b []byte) (Result, error) {
	e, ok := r.items[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	return e.DecodeResult(b)
}
