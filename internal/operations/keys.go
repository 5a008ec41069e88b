package operations

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/body"
)

// marshalKeyName encodes the single-field operation shared by destroy and export.
func marshalKeyName(name string) []byte {
	var e body.Encoder
	e.String(1, name)
	return e.Payload()
}

// marshalData encodes the single-field result shared by key exports.
func marshalData(data []byte) []byte {
	var e body.Encoder
	e.Bytes(1, data)
	return e.Payload()
}

func marshalAttributes(e *body.Encoder, num protowire.Number, attrs psa.KeyAttributes) error {
	b, err := attrs.Marshal()
	if err != nil {
		return err
	}
	e.Message(num, b)
	return nil
}

func unmarshalAttributes(fs body.Fields, num protowire.Number) (psa.KeyAttributes, error) {
	msg, _, err := fs.Message(num)
	if err != nil {
		return psa.KeyAttributes{}, err
	}
	return psa.UnmarshalKeyAttributes(msg)
}

type GenerateKeyOperation struct {
	KeyName    string
	Attributes psa.KeyAttributes
}

func (GenerateKeyOperation) Opcode() protocol.Opcode { return protocol.OpPsaGenerateKey }

func (o GenerateKeyOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.String(1, o.KeyName)
	if err := marshalAttributes(&e, 2, o.Attributes); err != nil {
		return nil, err
	}
	return e.Payload(), nil
}

func unmarshalGenerateKeyOperation(fs body.Fields) (GenerateKeyOperation, error) {
	name, err := fs.String(1)
	if err != nil {
		return GenerateKeyOperation{}, err
	}
	attrs, err := unmarshalAttributes(fs, 2)
	if err != nil {
		return GenerateKeyOperation{}, err
	}
	return GenerateKeyOperation{KeyName: name, Attributes: attrs}, nil
}

type GenerateKeyResult struct{ empty }

func (GenerateKeyResult) Opcode() protocol.Opcode { return protocol.OpPsaGenerateKey }

func unmarshalGenerateKeyResult(body.Fields) (GenerateKeyResult, error) {
	return GenerateKeyResult{}, nil
}

type DestroyKeyOperation struct {
	KeyName string
}

func (DestroyKeyOperation) Opcode() protocol.Opcode { return protocol.OpPsaDestroyKey }

func (o DestroyKeyOperation) MarshalBody() ([]byte, error) {
	return marshalKeyName(o.KeyName), nil
}

func unmarshalDestroyKeyOperation(fs body.Fields) (DestroyKeyOperation, error) {
	name, err := fs.String(1)
	if err != nil {
		return DestroyKeyOperation{}, err
	}
	return DestroyKeyOperation{KeyName: name}, nil
}

type DestroyKeyResult struct{ empty }

func (DestroyKeyResult) Opcode() protocol.Opcode { return protocol.OpPsaDestroyKey }

func unmarshalDestroyKeyResult(body.Fields) (DestroyKeyResult, error) {
	return DestroyKeyResult{}, nil
}

type ImportKeyOperation struct {
	KeyName    string
	Attributes psa.KeyAttributes
	Data       []byte
}

func (ImportKeyOperation) Opcode() protocol.Opcode { return protocol.OpPsaImportKey }

func (o ImportKeyOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.String(1, o.KeyName)
	if err := marshalAttributes(&e, 2, o.Attributes); err != nil {
		return nil, err
	}
	e.Bytes(3, o.Data)
	return e.Payload(), nil
}

func unmarshalImportKeyOperation(fs body.Fields) (ImportKeyOperation, error) {
	var o ImportKeyOperation
	var err error
	if o.KeyName, err = fs.String(1); err != nil {
		return ImportKeyOperation{}, err
	}
	if o.Attributes, err = unmarshalAttributes(fs, 2); err != nil {
		return ImportKeyOperation{}, err
	}
	if o.Data, err = fs.Bytes(3); err != nil {
		return ImportKeyOperation{}, err
	}
	return o, nil
}

type ImportKeyResult struct{ empty }

func (ImportKeyResult) Opcode() protocol.Opcode { return protocol.OpPsaImportKey }

func unmarshalImportKeyResult(body.Fields) (ImportKeyResult, error) {
	return ImportKeyResult{}, nil
}

type ExportKeyOperation struct {
	KeyName string
}

func (ExportKeyOperation) Opcode() protocol.Opcode { return protocol.OpPsaExportKey }

func (o ExportKeyOperation) MarshalBody() ([]byte, error) {
	return marshalKeyName(o.KeyName), nil
}

func unmarshalExportKeyOperation(fs body.Fields) (ExportKeyOperation, error) {
	name, err := fs.String(1)
	if err != nil {
		return ExportKeyOperation{}, err
	}
	return ExportKeyOperation{KeyName: name}, nil
}

type ExportKeyResult struct {
	Data []byte
}

func (ExportKeyResult) Opcode() protocol.Opcode { return protocol.OpPsaExportKey }

func (r ExportKeyResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Data), nil
}

func unmarshalExportKeyResult(fs body.Fields) (ExportKeyResult, error) {
	data, err := fs.Bytes(1)
	if err != nil {
		return ExportKeyResult{}, err
	}
	return ExportKeyResult{Data: data}, nil
}

type ExportPublicKeyOperation struct {
	KeyName string
}

func (ExportPublicKeyOperation) Opcode() protocol.Opcode { return protocol.OpPsaExportPublicKey }

func (o ExportPublicKeyOperation) MarshalBody() ([]byte, error) {
	return marshalKeyName(o.KeyName), nil
}

func unmarshalExportPublicKeyOperation(fs body.Fields) (ExportPublicKeyOperation, error) {
	name, err := fs.String(1)
	if err != nil {
		return ExportPublicKeyOperation{}, err
	}
	return ExportPublicKeyOperation{KeyName: name}, nil
}

type ExportPublicKeyResult struct {
	Data []byte
}

func (ExportPublicKeyResult) Opcode() protocol.Opcode { return protocol.OpPsaExportPublicKey }

func (r ExportPublicKeyResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Data), nil
}

func unmarshalExportPublicKeyResult(fs body.Fields) (ExportPublicKeyResult, error) {
	data, err := fs.Bytes(1)
	if err != nil {
		return ExportPublicKeyResult{}, err
	}
	return ExportPublicKeyResult{Data: data}, nil
}
