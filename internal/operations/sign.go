package operations

import (
	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/body"
)

// signature fields shared by the hash and message variants; input is the
// hash or the message depending on the opcode.
type signFields struct {
	KeyName   string
	Alg       psa.AsymmetricSignature
	input     []byte
	signature []byte
}

func (s signFields) marshal() ([]byte, error) {
	alg, err := s.Alg.Marshal()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	e.String(1, s.KeyName)
	e.Message(2, alg)
	e.Bytes(3, s.input)
	e.Bytes(4, s.signature)
	return e.Payload(), nil
}

func unmarshalSignFields(fs body.Fields) (signFields, error) {
	var s signFields
	var err error
	if s.KeyName, err = fs.String(1); err != nil {
		return signFields{}, err
	}
	alg, _, err := fs.Message(2)
	if err != nil {
		return signFields{}, err
	}
	if s.Alg, err = psa.UnmarshalAsymmetricSignature(alg); err != nil {
		return signFields{}, err
	}
	if s.input, err = fs.Bytes(3); err != nil {
		return signFields{}, err
	}
	if s.signature, err = fs.Bytes(4); err != nil {
		return signFields{}, err
	}
	return s, nil
}

func unmarshalSignature(fs body.Fields) ([]byte, error) {
	return fs.Bytes(1)
}

type SignHashOperation struct {
	KeyName string
	Alg     psa.AsymmetricSignature
	Hash    []byte
}

func (SignHashOperation) Opcode() protocol.Opcode { return protocol.OpPsaSignHash }

func (o SignHashOperation) MarshalBody() ([]byte, error) {
	return signFields{KeyName: o.KeyName, Alg: o.Alg, input: o.Hash}.marshal()
}

func unmarshalSignHashOperation(fs body.Fields) (SignHashOperation, error) {
	s, err := unmarshalSignFields(fs)
	if err != nil {
		return SignHashOperation{}, err
	}
	return SignHashOperation{KeyName: s.KeyName, Alg: s.Alg, Hash: s.input}, nil
}

type SignHashResult struct {
	Signature []byte
}

func (SignHashResult) Opcode() protocol.Opcode { return protocol.OpPsaSignHash }

func (r SignHashResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Signature), nil
}

func unmarshalSignHashResult(fs body.Fields) (SignHashResult, error) {
	sig, err := unmarshalSignature(fs)
	if err != nil {
		return SignHashResult{}, err
	}
	return SignHashResult{Signature: sig}, nil
}

type VerifyHashOperation struct {
	KeyName   string
	Alg       psa.AsymmetricSignature
	Hash      []byte
	Signature []byte
}

func (VerifyHashOperation) Opcode() protocol.Opcode { return protocol.OpPsaVerifyHash }

func (o VerifyHashOperation) MarshalBody() ([]byte, error) {
	return signFields{KeyName: o.KeyName, Alg: o.Alg, input: o.Hash, signature: o.Signature}.marshal()
}

func unmarshalVerifyHashOperation(fs body.Fields) (VerifyHashOperation, error) {
	s, err := unmarshalSignFields(fs)
	if err != nil {
		return VerifyHashOperation{}, err
	}
	return VerifyHashOperation{KeyName: s.KeyName, Alg: s.Alg, Hash: s.input, Signature: s.signature}, nil
}

type VerifyHashResult struct{ empty }

func (VerifyHashResult) Opcode() protocol.Opcode { return protocol.OpPsaVerifyHash }

func unmarshalVerifyHashResult(body.Fields) (VerifyHashResult, error) {
	return VerifyHashResult{}, nil
}

type SignMessageOperation struct {
	KeyName string
	Alg     psa.AsymmetricSignature
	Message []byte
}

func (SignMessageOperation) Opcode() protocol.Opcode { return protocol.OpPsaSignMessage }

func (o SignMessageOperation) MarshalBody() ([]byte, error) {
	return signFields{KeyName: o.KeyName, Alg: o.Alg, input: o.Message}.marshal()
}

func unmarshalSignMessageOperation(fs body.Fields) (SignMessageOperation, error) {
	s, err := unmarshalSignFields(fs)
	if err != nil {
		return SignMessageOperation{}, err
	}
	return SignMessageOperation{KeyName: s.KeyName, Alg: s.Alg, Message: s.input}, nil
}

type SignMessageResult struct {
	Signature []byte
}

func (SignMessageResult) Opcode() protocol.Opcode { return protocol.OpPsaSignMessage }

func (r SignMessageResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Signature), nil
}

func unmarshalSignMessageResult(fs body.Fields) (SignMessageResult, error) {
	sig, err := unmarshalSignature(fs)
	if err != nil {
		return SignMessageResult{}, err
	}
	return SignMessageResult{Signature: sig}, nil
}

type VerifyMessageOperation struct {
	KeyName   string
	Alg       psa.AsymmetricSignature
	Message   []byte
	Signature []byte
}

func (VerifyMessageOperation) Opcode() protocol.Opcode { return protocol.OpPsaVerifyMessage }

func (o VerifyMessageOperation) MarshalBody() ([]byte, error) {
	return signFields{KeyName: o.KeyName, Alg: o.Alg, input: o.Message, signature: o.Signature}.marshal()
}

func unmarshalVerifyMessageOperation(fs body.Fields) (VerifyMessageOperation, error) {
	s, err := unmarshalSignFields(fs)
	if err != nil {
		return VerifyMessageOperation{}, err
	}
	return VerifyMessageOperation{KeyName: s.KeyName, Alg: s.Alg, Message: s.input, Signature: s.signature}, nil
}

type VerifyMessageResult struct{ empty }

func (VerifyMessageResult) Opcode() protocol.Opcode { return protocol.OpPsaVerifyMessage }

func unmarshalVerifyMessageResult(body.Fields) (VerifyMessageResult, error) {
	return VerifyMessageResult{}, nil
}
