package operations

import (
	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/body"
)

type asymmetricFields struct {
	KeyName string
	Alg     psa.AsymmetricEncryption
	Input   []byte
	Salt    []byte
}

func (a asymmetricFields) marshal() ([]byte, error) {
	alg, err := a.Alg.Marshal()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	e.String(1, a.KeyName)
	e.Message(2, alg)
	e.Bytes(3, a.Input)
	e.Bytes(4, a.Salt)
	return e.Payload(), nil
}

func unmarshalAsymmetricFields(fs body.Fields) (asymmetricFields, error) {
	var a asymmetricFields
	var err error
	if a.KeyName, err = fs.String(1); err != nil {
		return asymmetricFields{}, err
	}
	alg, _, err := fs.Message(2)
	if err != nil {
		return asymmetricFields{}, err
	}
	if a.Alg, err = psa.UnmarshalAsymmetricEncryption(alg); err != nil {
		return asymmetricFields{}, err
	}
	if a.Input, err = fs.Bytes(3); err != nil {
		return asymmetricFields{}, err
	}
	if a.Salt, err = fs.Bytes(4); err != nil {
		return asymmetricFields{}, err
	}
	return a, nil
}

type AsymmetricEncryptOperation struct {
	KeyName   string
	Alg       psa.AsymmetricEncryption
	Plaintext []byte
	Salt      []byte
}

func (AsymmetricEncryptOperation) Opcode() protocol.Opcode { return protocol.OpPsaAsymmetricEncrypt }

func (o AsymmetricEncryptOperation) MarshalBody() ([]byte, error) {
	return asymmetricFields{KeyName: o.KeyName, Alg: o.Alg, Input: o.Plaintext, Salt: o.Salt}.marshal()
}

func unmarshalAsymmetricEncryptOperation(fs body.Fields) (AsymmetricEncryptOperation, error) {
	a, err := unmarshalAsymmetricFields(fs)
	if err != nil {
		return AsymmetricEncryptOperation{}, err
	}
	return AsymmetricEncryptOperation{KeyName: a.KeyName, Alg: a.Alg, Plaintext: a.Input, Salt: a.Salt}, nil
}

type AsymmetricEncryptResult struct {
	Ciphertext []byte
}

func (AsymmetricEncryptResult) Opcode() protocol.Opcode { return protocol.OpPsaAsymmetricEncrypt }

func (r AsymmetricEncryptResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Ciphertext), nil
}

func unmarshalAsymmetricEncryptResult(fs body.Fields) (AsymmetricEncryptResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return AsymmetricEncryptResult{}, err
	}
	return AsymmetricEncryptResult{Ciphertext: b}, nil
}

type AsymmetricDecryptOperation struct {
	KeyName    string
	Alg        psa.AsymmetricEncryption
	Ciphertext []byte
	Salt       []byte
}

func (AsymmetricDecryptOperation) Opcode() protocol.Opcode { return protocol.OpPsaAsymmetricDecrypt }

func (o AsymmetricDecryptOperation) MarshalBody() ([]byte, error) {
	return asymmetricFields{KeyName: o.KeyName, Alg: o.Alg, Input: o.Ciphertext, Salt: o.Salt}.marshal()
}

func unmarshalAsymmetricDecryptOperation(fs body.Fields) (AsymmetricDecryptOperation, error) {
	a, err := unmarshalAsymmetricFields(fs)
	if err != nil {
		return AsymmetricDecryptOperation{}, err
	}
	return AsymmetricDecryptOperation{KeyName: a.KeyName, Alg: a.Alg, Ciphertext: a.Input, Salt: a.Salt}, nil
}

type AsymmetricDecryptResult struct {
	Plaintext []byte
}

func (AsymmetricDecryptResult) Opcode() protocol.Opcode { return protocol.OpPsaAsymmetricDecrypt }

func (r AsymmetricDecryptResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Plaintext), nil
}

func unmarshalAsymmetricDecryptResult(fs body.Fields) (AsymmetricDecryptResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return AsymmetricDecryptResult{}, err
	}
	return AsymmetricDecryptResult{Plaintext: b}, nil
}

type aeadFields struct {
	KeyName        string
	Alg            psa.Aead
	Nonce          []byte
	AdditionalData []byte
	Input          []byte
}

func (a aeadFields) marshal() ([]byte, error) {
	alg, err := a.Alg.Marshal()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	e.String(1, a.KeyName)
	e.Message(2, alg)
	e.Bytes(3, a.Nonce)
	e.Bytes(4, a.AdditionalData)
	e.Bytes(5, a.Input)
	return e.Payload(), nil
}

func unmarshalAeadFields(fs body.Fields) (aeadFields, error) {
	var a aeadFields
	var err error
	if a.KeyName, err = fs.String(1); err != nil {
		return aeadFields{}, err
	}
	alg, _, err := fs.Message(2)
	if err != nil {
		return aeadFields{}, err
	}
	if a.Alg, err = psa.UnmarshalAead(alg); err != nil {
		return aeadFields{}, err
	}
	if a.Nonce, err = fs.Bytes(3); err != nil {
		return aeadFields{}, err
	}
	if a.AdditionalData, err = fs.Bytes(4); err != nil {
		return aeadFields{}, err
	}
	if a.Input, err = fs.Bytes(5); err != nil {
		return aeadFields{}, err
	}
	return a, nil
}

type AeadEncryptOperation struct {
	KeyName        string
	Alg            psa.Aead
	Nonce          []byte
	AdditionalData []byte
	Plaintext      []byte
}

func (AeadEncryptOperation) Opcode() protocol.Opcode { return protocol.OpPsaAeadEncrypt }

func (o AeadEncryptOperation) MarshalBody() ([]byte, error) {
	return aeadFields{KeyName: o.KeyName, Alg: o.Alg, Nonce: o.Nonce, AdditionalData: o.AdditionalData, Input: o.Plaintext}.marshal()
}

func unmarshalAeadEncryptOperation(fs body.Fields) (AeadEncryptOperation, error) {
	a, err := unmarshalAeadFields(fs)
	if err != nil {
		return AeadEncryptOperation{}, err
	}
	return AeadEncryptOperation{KeyName: a.KeyName, Alg: a.Alg, Nonce: a.Nonce, AdditionalData: a.AdditionalData, Plaintext: a.Input}, nil
}

type AeadEncryptResult struct {
	Ciphertext []byte
}

func (AeadEncryptResult) Opcode() protocol.Opcode { return protocol.OpPsaAeadEncrypt }

func (r AeadEncryptResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Ciphertext), nil
}

func unmarshalAeadEncryptResult(fs body.Fields) (AeadEncryptResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return AeadEncryptResult{}, err
	}
	return AeadEncryptResult{Ciphertext: b}, nil
}

type AeadDecryptOperation struct {
	KeyName        string
	Alg            psa.Aead
	Nonce          []byte
	AdditionalData []byte
	Ciphertext     []byte
}

func (AeadDecryptOperation) Opcode() protocol.Opcode { return protocol.OpPsaAeadDecrypt }

func (o AeadDecryptOperation) MarshalBody() ([]byte, error) {
	return aeadFields{KeyName: o.KeyName, Alg: o.Alg, Nonce: o.Nonce, AdditionalData: o.AdditionalData, Input: o.Ciphertext}.marshal()
}

func unmarshalAeadDecryptOperation(fs body.Fields) (AeadDecryptOperation, error) {
	a, err := unmarshalAeadFields(fs)
	if err != nil {
		return AeadDecryptOperation{}, err
	}
	return AeadDecryptOperation{KeyName: a.KeyName, Alg: a.Alg, Nonce: a.Nonce, AdditionalData: a.AdditionalData, Ciphertext: a.Input}, nil
}

type AeadDecryptResult struct {
	Plaintext []byte
}

func (AeadDecryptResult) Opcode() protocol.Opcode { return protocol.OpPsaAeadDecrypt }

func (r AeadDecryptResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Plaintext), nil
}

func unmarshalAeadDecryptResult(fs body.Fields) (AeadDecryptResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return AeadDecryptResult{}, err
	}
	return AeadDecryptResult{Plaintext: b}, nil
}

type cipherFields struct {
	KeyName string
	Alg     psa.Cipher
	Input   []byte
}

func (c cipherFields) marshal() []byte {
	var e body.Encoder
	e.String(1, c.KeyName)
	e.Enum(2, int32(c.Alg))
	e.Bytes(3, c.Input)
	return e.Payload()
}

func unmarshalCipherFields(fs body.Fields) (cipherFields, error) {
	var c cipherFields
	var err error
	if c.KeyName, err = fs.String(1); err != nil {
		return cipherFields{}, err
	}
	alg, err := fs.Int32(2)
	if err != nil {
		return cipherFields{}, err
	}
	c.Alg = psa.Cipher(alg)
	if c.Input, err = fs.Bytes(3); err != nil {
		return cipherFields{}, err
	}
	return c, nil
}

type CipherEncryptOperation struct {
	KeyName   string
	Alg       psa.Cipher
	Plaintext []byte
}

func (CipherEncryptOperation) Opcode() protocol.Opcode { return protocol.OpPsaCipherEncrypt }

func (o CipherEncryptOperation) MarshalBody() ([]byte, error) {
	return cipherFields{KeyName: o.KeyName, Alg: o.Alg, Input: o.Plaintext}.marshal(), nil
}

func unmarshalCipherEncryptOperation(fs body.Fields) (CipherEncryptOperation, error) {
	c, err := unmarshalCipherFields(fs)
	if err != nil {
		return CipherEncryptOperation{}, err
	}
	return CipherEncryptOperation{KeyName: c.KeyName, Alg: c.Alg, Plaintext: c.Input}, nil
}

type CipherEncryptResult struct {
	Ciphertext []byte
}

func (CipherEncryptResult) Opcode() protocol.Opcode { return protocol.OpPsaCipherEncrypt }

func (r CipherEncryptResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Ciphertext), nil
}

func unmarshalCipherEncryptResult(fs body.Fields) (CipherEncryptResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return CipherEncryptResult{}, err
	}
	return CipherEncryptResult{Ciphertext: b}, nil
}

type CipherDecryptOperation struct {
	KeyName    string
	Alg        psa.Cipher
	Ciphertext []byte
}

func (CipherDecryptOperation) Opcode() protocol.Opcode { return protocol.OpPsaCipherDecrypt }

func (o CipherDecryptOperation) MarshalBody() ([]byte, error) {
	return cipherFields{KeyName: o.KeyName, Alg: o.Alg, Input: o.Ciphertext}.marshal(), nil
}

func unmarshalCipherDecryptOperation(fs body.Fields) (CipherDecryptOperation, error) {
	c, err := unmarshalCipherFields(fs)
	if err != nil {
		return CipherDecryptOperation{}, err
	}
	return CipherDecryptOperation{KeyName: c.KeyName, Alg: c.Alg, Ciphertext: c.Input}, nil
}

type CipherDecryptResult struct {
	Plaintext []byte
}

func (CipherDecryptResult) Opcode() protocol.Opcode { return protocol.OpPsaCipherDecrypt }

func (r CipherDecryptResult) MarshalBody() ([]byte, error) {
	return marshalData(r.Plaintext), nil
}

func unmarshalCipherDecryptResult(fs body.Fields) (CipherDecryptResult, error) {
	b, err := fs.Bytes(1)
	if err != nil {
		return CipherDecryptResult{}, err
	}
	return CipherDecryptResult{Plaintext: b}, nil
}
