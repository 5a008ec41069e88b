// Package operations defines the typed operation and result values for every
// opcode, and their protobuf body encodings.
//
// Ownership boundary:
// - this package owns field numbering and proto3 encoding of bodies.
// - framing belongs to protocol/frame, dispatch to codec.
package operations

import (
	"fmt"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/body"
)

// NewRegistry returns a codec registry holding every opcode.
func NewRegistry() *codec.Registry {
	r := codec.NewRegistry()
	for _, e := range entries() {
		if err := r.Register(e); err != nil {
			// entries() is static; a failure here is a programming error.
			panic(fmt.Sprintf("operations: register %s: %v", e.Opcode, err))
		}
	}
	return r
}

func entries() []codec.Entry {
	return []codec.Entry{
		entry(protocol.OpPing, codec.ShapeObject, unmarshalPingOperation, unmarshalPingResult),
		entry(protocol.OpPsaGenerateKey, codec.ShapeObject, unmarshalGenerateKeyOperation, unmarshalGenerateKeyResult),
		entry(protocol.OpPsaDestroyKey, codec.ShapeObject, unmarshalDestroyKeyOperation, unmarshalDestroyKeyResult),
		entry(protocol.OpPsaSignHash, codec.ShapeObject, unmarshalSignHashOperation, unmarshalSignHashResult),
		entry(protocol.OpPsaVerifyHash, codec.ShapeObject, unmarshalVerifyHashOperation, unmarshalVerifyHashResult),
		entry(protocol.OpPsaImportKey, codec.ShapeObject, unmarshalImportKeyOperation, unmarshalImportKeyResult),
		entry(protocol.OpPsaExportPublicKey, codec.ShapeObject, unmarshalExportPublicKeyOperation, unmarshalExportPublicKeyResult),
		entry(protocol.OpListProviders, codec.ShapeList, unmarshalListProvidersOperation, unmarshalListProvidersResult),
		entry(protocol.OpListOpcodes, codec.ShapeList, unmarshalListOpcodesOperation, unmarshalListOpcodesResult),
		entry(protocol.OpPsaAsymmetricEncrypt, codec.ShapeObject, unmarshalAsymmetricEncryptOperation, unmarshalAsymmetricEncryptResult),
		entry(protocol.OpPsaAsymmetricDecrypt, codec.ShapeObject, unmarshalAsymmetricDecryptOperation, unmarshalAsymmetricDecryptResult),
		entry(protocol.OpPsaExportKey, codec.ShapeObject, unmarshalExportKeyOperation, unmarshalExportKeyResult),
		entry(protocol.OpPsaGenerateRandom, codec.ShapeObject, unmarshalGenerateRandomOperation, unmarshalGenerateRandomResult),
		entry(protocol.OpListAuthenticators, codec.ShapeList, unmarshalListAuthenticatorsOperation, unmarshalListAuthenticatorsResult),
		entry(protocol.OpPsaHashCompute, codec.ShapeObject, unmarshalHashComputeOperation, unmarshalHashComputeResult),
		entry(protocol.OpPsaHashCompare, codec.ShapeObject, unmarshalHashCompareOperation, unmarshalHashCompareResult),
		entry(protocol.OpPsaAeadEncrypt, codec.ShapeObject, unmarshalAeadEncryptOperation, unmarshalAeadEncryptResult),
		entry(protocol.OpPsaAeadDecrypt, codec.ShapeObject, unmarshalAeadDecryptOperation, unmarshalAeadDecryptResult),
		entry(protocol.OpPsaRawKeyAgreement, codec.ShapeObject, unmarshalRawKeyAgreementOperation, unmarshalRawKeyAgreementResult),
		entry(protocol.OpPsaCipherEncrypt, codec.ShapeObject, unmarshalCipherEncryptOperation, unmarshalCipherEncryptResult),
		entry(protocol.OpPsaCipherDecrypt, codec.ShapeObject, unmarshalCipherDecryptOperation, unmarshalCipherDecryptResult),
		entry(protocol.OpPsaMacCompute, codec.ShapeObject, unmarshalMacComputeOperation, unmarshalMacComputeResult),
		entry(protocol.OpPsaMacVerify, codec.ShapeObject, unmarshalMacVerifyOperation, unmarshalMacVerifyResult),
		entry(protocol.OpPsaSignMessage, codec.ShapeObject, unmarshalSignMessageOperation, unmarshalSignMessageResult),
		entry(protocol.OpPsaVerifyMessage, codec.ShapeObject, unmarshalVerifyMessageOperation, unmarshalVerifyMessageResult),
		entry(protocol.OpListKeys, codec.ShapeList, unmarshalListKeysOperation, unmarshalListKeysResult),
		entry(protocol.OpListClients, codec.ShapeList, unmarshalListClientsOperation, unmarshalListClientsResult),
		entry(protocol.OpDeleteClient, codec.ShapeObject, unmarshalDeleteClientOperation, unmarshalDeleteClientResult),
	}
}

func entry[O codec.Operation, R codec.Result](
	op protocol.Opcode,
	shape codec.Shape,
	decodeOp func(body.Fields) (O, error),
	decodeResult func(body.Fields) (R, error),
) codec.Entry {
	return codec.Entry{
		Opcode: op,
		Shape:  shape,
		DecodeOperation: func(b []byte) (codec.Operation, error) {
			fs, err := body.DecodeFields(b)
			if err != nil {
				return nil, fmt.Errorf("decode %s operation: %w", op, err)
			}
			v, err := decodeOp(fs)
			if err != nil {
				return nil, fmt.Errorf("decode %s operation: %w", op, err)
			}
			return v, nil
		},
		DecodeResult: func(b []byte) (codec.Result, error) {
			fs, err := body.DecodeFields(b)
			if err != nil {
				return nil, fmt.Errorf("decode %s result: %w", op, err)
			}
			v, err := decodeResult(fs)
			if err != nil {
				return nil, fmt.Errorf("decode %s result: %w", op, err)
			}
			return v, nil
		},
	}
}

// empty is embedded by messages that carry no fields.
type empty struct{}

func (empty) MarshalBody() ([]byte, error) { return []byte{}, nil }
