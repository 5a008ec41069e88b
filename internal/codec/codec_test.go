package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/parsecgen/internal/protocol"
)

type fakeBody struct {
	op      protocol.Opcode
	payload []byte
	err     error
}

func (f fakeBody) Opcode() protocol.Opcode       { return f.op }
func (f fakeBody) MarshalBody() ([]byte, error) { return f.payload, f.err }

func fakeEntry(op protocol.Opcode) Entry {
	return Entry{
		Opcode: op,
		Shape:  ShapeList,
		DecodeOperation: func(b []byte) (Operation, error) {
			return fakeBody{op: op, payload: b}, nil
		},
		DecodeResult: func(b []byte) (Result, error) {
			return fakeBody{op: op, payload: b}, nil
		},
	}
}

func TestRegisterRejectsDuplicatesAndInvalid(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeEntry(protocol.OpPing)))
	require.ErrorIs(t, r.Register(fakeEntry(protocol.OpPing)), ErrEntryExists)
	require.ErrorIs(t, r.Register(fakeEntry(protocol.Opcode(99))), ErrInvalidEntry)
	require.ErrorIs(t, r.Register(Entry{Opcode: protocol.OpListKeys}), ErrInvalidEntry)
}

func TestOpcodesSorted(t *testing.T) {
	r := NewRegistry()
	for _, op := range []protocol.Opcode{protocol.OpListKeys, protocol.OpPing, protocol.OpPsaAeadDecrypt} {
		require.NoError(t, r.Register(fakeEntry(op)))
	}
	require.Equal(t, []protocol.Opcode{protocol.OpPing, protocol.OpPsaAeadDecrypt, protocol.OpListKeys}, r.Opcodes())
}

func TestEncodeOperationKindMismatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeEntry(protocol.OpPing)))

	_, err := r.EncodeOperation(protocol.OpPing, fakeBody{op: protocol.OpListKeys})
	require.ErrorIs(t, err, ErrKindMismatch)
	var kind *KindMismatchError
	require.True(t, errors.As(err, &kind))
	require.Equal(t, protocol.OpPing, kind.Want)
	require.Equal(t, protocol.OpListKeys, kind.Got)
}

func TestEncodeResultNilIsEmptyBody(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeEntry(protocol.OpListProviders)))

	b, err := r.EncodeResult(protocol.OpListProviders, nil)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Empty(t, b)

	_, err = r.EncodeResult(protocol.OpListKeys, nil)
	require.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestEncodeWrapsMarshalFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeEntry(protocol.OpPing)))
	boom := errors.New("boom")
	_, err := r.EncodeResult(protocol.OpPing, fakeBody{op: protocol.OpPing, err: boom})
	require.ErrorIs(t, err, ErrEncodingFailure)
	require.ErrorIs(t, err, boom)
}

func TestDecodeDispatchesToEntry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeEntry(protocol.OpPing)))
	v, err := r.DecodeResult(protocol.OpPing, []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, v.(fakeBody).payload)

	_, err = r.DecodeOperation(protocol.OpListKeys, nil)
	require.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestShapeEmpty(t *testing.T) {
	require.Equal(t, []any{}, ShapeList.Empty())
	require.Equal(t, map[string]any{}, ShapeObject.Empty())
}

func TestShapeIsEmpty(t *testing.T) {
	require.True(t, ShapeList.IsEmpty([]any{}))
	require.True(t, ShapeList.IsEmpty([]string{}))
	require.True(t, ShapeObject.IsEmpty(map[string]any{}))
	require.False(t, ShapeList.IsEmpty(map[string]any{}))
	require.False(t, ShapeList.IsEmpty(nil))
	require.False(t, ShapeList.IsEmpty([]string{"key1"}))
	require.False(t, ShapeObject.IsEmpty(map[string]any{"plaintext": "plaintext"}))
}
