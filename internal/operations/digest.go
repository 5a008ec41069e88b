package operations

import (
	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/body"
)

type HashComputeOperation struct {
	Alg   psa.Hash
	Input []byte
}

func (HashComputeOperation) Opcode() protocol.Opcode { return protocol.OpPsaHashCompute }

func (o HashComputeOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Enum(1, int32(o.Alg))
	e.Bytes(2, o.Input)
	return e.Payload(), nil
}

func unmarshalHashComputeOperation(fs body.Fields) (HashComputeOperation, error) {
	alg, err := fs.Int32(1)
	if err != nil {
		return HashComputeOperation{}, err
	}
	input, err := fs.Bytes(2)
	if err != nil {
		return HashComputeOperation{}, err
	}
	return HashComputeOperation{Alg: psa.Hash(alg), Input: input}, nil
}

type HashComputeResult struct {
	Hash []byte
}

func (HashComputeResult) Opcode() protocol.Opcode { return protocol.OpPsaHashCompute }

func (r HashComputeResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Hash), nil
}

func unmarshalHashComputeResult(fs body.Fields) (HashComputeResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return HashComputeResult{}, err
	}
	return HashComputeResult{Hash: b}, nil
}

type HashCompareOperation struct {
	Alg   psa.Hash
	Input []byte
	Hash  []byte
}

func (HashCompareOperation) Opcode() protocol.Opcode { return protocol.OpPsaHashCompare }

func (o HashCompareOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Enum(1, int32(o.Alg))
	e.Bytes(2, o.Input)
	e.Bytes(3, o.Hash)
	return e.Payload(), nil
}

func unmarshalHashCompareOperation(fs body.Fields) (HashCompareOperation, error) {
	alg, err := fs.Int32(1)
	if err != nil {
		return HashCompareOperation{}, err
	}
	o := HashCompareOperation{Alg: psa.Hash(alg)}
	if o.Input, err = fs.Bytes(2); err != nil {
		return HashCompareOperation{}, err
	}
	if o.Hash, err = fs.Bytes(3); err != nil {
		return HashCompareOperation{}, err
	}
	return o, nil
}

type HashCompareResult struct{ empty }

func (HashCompareResult) Opcode() protocol.Opcode { return protocol.OpPsaHashCompare }

func unmarshalHashCompareResult(body.Fields) (HashCompareResult, error) {
	return HashCompareResult{}, nil
}

type macFields struct {
	KeyName string
	Alg     psa.Mac
	Input   []byte
	Mac     []byte
}

func (m macFields) marshal() ([]byte, error) {
	alg, err := m.Alg.Marshal()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	e.String(1, m.KeyName)
	e.Message(2, alg)
	e.Bytes(3, m.Input)
	e.Bytes(4, m.Mac)
	return e.Payload(), nil
}

func unmarshalMacFields(fs body.Fields) (macFields, error) {
	var m macFields
	var err error
	if m.KeyName, err = fs.String(1); err != nil {
		return macFields{}, err
	}
	alg, _, err := fs.Message(2)
	if err != nil {
		return macFields{}, err
	}
	if m.Alg, err = psa.UnmarshalMac(alg); err != nil {
		return macFields{}, err
	}
	if m.Input, err = fs.Bytes(3); err != nil {
		return macFields{}, err
	}
	if m.Mac, err = fs.Bytes(4); err != nil {
		return macFields{}, err
	}
	return m, nil
}

type MacComputeOperation struct {
	KeyName string
	Alg     psa.Mac
	Input   []byte
}

func (MacComputeOperation) Opcode() protocol.Opcode { return protocol.OpPsaMacCompute }

func (o MacComputeOperation) MarshalBody() ([]byte, error) {
	return macFields{KeyName: o.KeyName, Alg: o.Alg, Input: o.Input}.marshal()
}

func unmarshalMacComputeOperation(fs body.Fields) (MacComputeOperation, error) {
	m, err := unmarshalMacFields(fs)
	if err != nil {
		return MacComputeOperation{}, err
	}
	return MacComputeOperation{KeyName: m.KeyName, Alg: m.Alg, Input: m.Input}, nil
}

type MacComputeResult struct {
	Mac []byte
}

func (MacComputeResult) Opcode() protocol.Opcode { return protocol.OpPsaMacCompute }

func (r MacComputeResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Mac), nil
}

func unmarshalMacComputeResult(fs body.Fields) (MacComputeResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return MacComputeResult{}, err
	}
	return MacComputeResult{Mac: b}, nil
}

type MacVerifyOperation struct {
	KeyName string
	Alg     psa.Mac
	Input   []byte
	Mac     []byte
}

func (MacVerifyOperation) Opcode() protocol.Opcode { return protocol.OpPsaMacVerify }

func (o MacVerifyOperation) MarshalBody() ([]byte, error) {
	return macFields(o).marshal()
}

func unmarshalMacVerifyOperation(fs body.Fields) (MacVerifyOperation, error) {
	m, err := unmarshalMacFields(fs)
	if err != nil {
		return MacVerifyOperation{}, err
	}
	return MacVerifyOperation(m), nil
}

type MacVerifyResult struct{ empty }

func (MacVerifyResult) Opcode() protocol.Opcode { return protocol.OpPsaMacVerify }

func unmarshalMacVerifyResult(body.Fields) (MacVerifyResult, error) {
	return MacVerifyResult{}, nil
}

type GenerateRandomOperation struct {
	Size uint64
}

func (GenerateRandomOperation) Opcode() protocol.Opcode { return protocol.OpPsaGenerateRandom }

func (o GenerateRandomOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Uint64(1, o.Size)
	return e.Payload(), nil
}

func unmarshalGenerateRandomOperation(fs body.Fields) (GenerateRandomOperation, error) {
	size, err := fs.Uint64(1)
	if err != nil {
		return GenerateRandomOperation{}, err
	}
	return GenerateRandomOperation{Size: size}, nil
}

type GenerateRandomResult struct {
	RandomBytes []byte
}

func (GenerateRandomResult) Opcode() protocol.Opcode { return protocol.OpPsaGenerateRandom }

func (r GenerateRandomResult) MarshalBody() ([]byte, error) {
	return marshalData(r.RandomBytes), nil
}

func unmarshalGenerateRandomResult(fs body.Fields) (GenerateRandomResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return GenerateRandomResult{}, err
	}
	return GenerateRandomResult{RandomBytes: b}, nil
}

type RawKeyAgreementOperation struct {
	Alg            psa.KeyAgreementRaw
	PrivateKeyName string
	PeerKey        []byte
}

func (RawKeyAgreementOperation) Opcode() protocol.Opcode { return protocol.OpPsaRawKeyAgreement }

func (o RawKeyAgreementOperation) MarshalBody() ([]byte, error) {
	var e body.Encoder
	e.Enum(1, int32(o.Alg))
	e.String(2, o.PrivateKeyName)
	e.Bytes(3, o.PeerKey)
	return e.Payload(), nil
}

func unmarshalRawKeyAgreementOperation(fs body.Fields) (RawKeyAgreementOperation, error) {
	alg, err := fs.Int32(1)
	if err != nil {
		return RawKeyAgreementOperation{}, err
	}
	o := RawKeyAgreementOperation{Alg: psa.KeyAgreementRaw(alg)}
	if o.PrivateKeyName, err = fs.String(2); err != nil {
		return RawKeyAgreementOperation{}, err
	}
	if o.PeerKey, err = fs.Bytes(3); err != nil {
		return RawKeyAgreementOperation{}, err
	}
	return o, nil
}

type RawKeyAgreementResult struct {
	SharedSecret []byte
}

func (RawKeyAgreementResult) Opcode() protocol.Opcode { return protocol.OpPsaRawKeyAgreement }

func (r RawKeyAgreementResult) MarshalBody() ([]byte, error) {
	return marshalData(r.SharedSecret), nil
}

func unmarshalRawKeyAgreementResult(fs body.Fields) (RawKeyAgreementResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return RawKeyAgreementResult{}, err
	}
	return RawKeyAgreementResult{SharedSecret: b}, nil
}
