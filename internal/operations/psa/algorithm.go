// Package psa holds the PSA Crypto algorithm and key attribute messages shared
// by the cryptographic operations.
package psa

import (
	"errors"
	"fmt"

	"github.com/danmuck/parsecgen/internal/protocol/body"
)

var ErrInvalidVariant = errors.New("psa: invalid variant")

// Hash is a hash algorithm identifier.
type Hash int32

const (
	HashNone      Hash = 0
	HashMd2       Hash = 1
	HashMd4       Hash = 2
	HashMd5       Hash = 3
	HashRipemd160 Hash = 4
	HashSha1      Hash = 5
	HashSha224    Hash = 6
	HashSha256    Hash = 7
	HashSha384    Hash = 8
	HashSha512    Hash = 9
	HashSha512224 Hash = 10
	HashSha512256 Hash = 11
	HashSha3224   Hash = 12
	HashSha3256   Hash = 13
	HashSha3384   Hash = 14
	HashSha3512   Hash = 15
)

var hashNames = map[Hash]string{
	HashNone:      "None",
	HashMd2:       "Md2",
	HashMd4:       "Md4",
	HashMd5:       "Md5",
	HashRipemd160: "Ripemd160",
	HashSha1:      "Sha1",
	HashSha224:    "Sha224",
	HashSha256:    "Sha256",
	HashSha384:    "Sha384",
	HashSha512:    "Sha512",
	HashSha512224: "Sha512_224",
	HashSha512256: "Sha512_256",
	HashSha3224:   "Sha3_224",
	HashSha3256:   "Sha3_256",
	HashSha3384:   "Sha3_384",
	HashSha3512:   "Sha3_512",
}

func (h Hash) String() string {
	if n, ok := hashNames[h]; ok {
		return n
	}
	return fmt.Sprintf("Hash(%d)", int32(h))
}

// SignHash selects the hash a signature scheme is restricted to. Any permits
// every hash and takes precedence over Specific.
type SignHash struct {
	Any      bool
	Specific Hash
}

func (s SignHash) marshal() []byte {
	var e body.Encoder
	if s.Any {
		e.Message(1, nil)
	} else {
		e.Varint(2, uint64(s.Specific))
	}
	return e.Payload()
}

func unmarshalSignHash(fs body.Fields) (SignHash, error) {
	if _, ok := body.GetField(fs, 1); ok {
		return SignHash{Any: true}, nil
	}
	h, err := fs.Int32(2)
	if err != nil {
		return SignHash{}, err
	}
	return SignHash{Specific: Hash(h)}, nil
}

// AsymmetricSignatureKind is the oneof tag of an asymmetric signature scheme.
type AsymmetricSignatureKind uint8

const (
	RsaPkcs1v15Sign    AsymmetricSignatureKind = 1
	RsaPkcs1v15SignRaw AsymmetricSignatureKind = 2
	RsaPss             AsymmetricSignatureKind = 3
	Ecdsa              AsymmetricSignatureKind = 4
	EcdsaAny           AsymmetricSignatureKind = 5
	DeterministicEcdsa AsymmetricSignatureKind = 6
)

func (k AsymmetricSignatureKind) hashed() bool {
	return k == RsaPkcs1v15Sign || k == RsaPss || k == Ecdsa || k == DeterministicEcdsa
}

// AsymmetricSignature is a signature scheme. HashAlg is ignored by the raw
// and any-ecdsa variants.
type AsymmetricSignature struct {
	Kind    AsymmetricSignatureKind
	HashAlg SignHash
}

func (a AsymmetricSignature) Marshal() ([]byte, error) {
	if a.Kind < RsaPkcs1v15Sign || a.Kind > DeterministicEcdsa {
		return nil, fmt.Errorf("%w: asymmetric signature kind %d", ErrInvalidVariant, a.Kind)
	}
	var inner body.Encoder
	if a.Kind.hashed() {
		inner.Message(1, a.HashAlg.marshal())
	}
	var e body.Encoder
	e.Message(fieldNum(a.Kind), inner.Payload())
	return e.Payload(), nil
}

func UnmarshalAsymmetricSignature(fs body.Fields) (AsymmetricSignature, error) {
	f, ok := lastField(fs)
	if !ok {
		return AsymmetricSignature{}, fmt.Errorf("%w: asymmetric signature not set", ErrInvalidVariant)
	}
	kind := AsymmetricSignatureKind(f.Num)
	if kind < RsaPkcs1v15Sign || kind > DeterministicEcdsa {
		return AsymmetricSignature{}, fmt.Errorf("%w: asymmetric signature kind %d", ErrInvalidVariant, f.Num)
	}
	out := AsymmetricSignature{Kind: kind}
	if !kind.hashed() {
		return out, nil
	}
	inner, err := nested(f)
	if err != nil {
		return AsymmetricSignature{}, err
	}
	hashFields, _, err := inner.Message(1)
	if err != nil {
		return AsymmetricSignature{}, err
	}
	if out.HashAlg, err = unmarshalSignHash(hashFields); err != nil {
		return AsymmetricSignature{}, err
	}
	return out, nil
}

// AsymmetricEncryptionKind is the oneof tag of an asymmetric encryption scheme.
type AsymmetricEncryptionKind uint8

const (
	RsaPkcs1v15Crypt AsymmetricEncryptionKind = 1
	RsaOaep          AsymmetricEncryptionKind = 2
)

type AsymmetricEncryption struct {
	Kind AsymmetricEncryptionKind
	// HashAlg applies to RsaOaep only.
	HashAlg Hash
}

func (a AsymmetricEncryption) Marshal() ([]byte, error) {
	var inner body.Encoder
	switch a.Kind {
	case RsaPkcs1v15Crypt:
	case RsaOaep:
		inner.Enum(1, int32(a.HashAlg))
	default:
		return nil, fmt.Errorf("%w: asymmetric encryption kind %d", ErrInvalidVariant, a.Kind)
	}
	var e body.Encoder
	e.Message(fieldNum(a.Kind), inner.Payload())
	return e.Payload(), nil
}

func UnmarshalAsymmetricEncryption(fs body.Fields) (AsymmetricEncryption, error) {
	f, ok := lastField(fs)
	if !ok {
		return AsymmetricEncryption{}, fmt.Errorf("%w: asymmetric encryption not set", ErrInvalidVariant)
	}
	switch AsymmetricEncryptionKind(f.Num) {
	case RsaPkcs1v15Crypt:
		return AsymmetricEncryption{Kind: RsaPkcs1v15Crypt}, nil
	case RsaOaep:
		inner, err := nested(f)
		if err != nil {
			return AsymmetricEncryption{}, err
		}
		h, err := inner.Int32(1)
		if err != nil {
			return AsymmetricEncryption{}, err
		}
		return AsymmetricEncryption{Kind: RsaOaep, HashAlg: Hash(h)}, nil
	default:
		return AsymmetricEncryption{}, fmt.Errorf("%w: asymmetric encryption kind %d", ErrInvalidVariant, f.Num)
	}
}

// AeadWithDefaultLengthTag is an AEAD algorithm using its full tag length.
type AeadWithDefaultLengthTag int32

const (
	AeadNone             AeadWithDefaultLengthTag = 0
	AeadCcm              AeadWithDefaultLengthTag = 1
	AeadGcm              AeadWithDefaultLengthTag = 2
	AeadChacha20Poly1305 AeadWithDefaultLengthTag = 3
)

// Aead is an AEAD algorithm. A non-zero TagLength selects the shortened tag
// variant.
type Aead struct {
	Alg       AeadWithDefaultLengthTag
	TagLength uint32
}

func (a Aead) Marshal() ([]byte, error) {
	if a.Alg == AeadNone {
		return nil, fmt.Errorf("%w: aead algorithm not set", ErrInvalidVariant)
	}
	var e body.Encoder
	if a.TagLength == 0 {
		e.Varint(1, uint64(a.Alg))
		return e.Payload(), nil
	}
	var inner body.Encoder
	inner.Enum(1, int32(a.Alg))
	inner.Uint32(2, a.TagLength)
	e.Message(2, inner.Payload())
	return e.Payload(), nil
}

func UnmarshalAead(fs body.Fields) (Aead, error) {
	f, ok := lastField(fs)
	if !ok {
		return Aead{}, fmt.Errorf("%w: aead not set", ErrInvalidVariant)
	}
	switch f.Num {
	case 1:
		alg, err := f.Int32()
		if err != nil {
			return Aead{}, err
		}
		return Aead{Alg: AeadWithDefaultLengthTag(alg)}, nil
	case 2:
		inner, err := nested(f)
		if err != nil {
			return Aead{}, err
		}
		alg, err := inner.Int32(1)
		if err != nil {
			return Aead{}, err
		}
		tag, err := inner.Uint32(2)
		if err != nil {
			return Aead{}, err
		}
		return Aead{Alg: AeadWithDefaultLengthTag(alg), TagLength: tag}, nil
	default:
		return Aead{}, fmt.Errorf("%w: aead kind %d", ErrInvalidVariant, f.Num)
	}
}

// Cipher is an unauthenticated cipher mode.
type Cipher int32

const (
	CipherNone         Cipher = 0
	CipherStream       Cipher = 1
	CipherCtr          Cipher = 2
	CipherCfb          Cipher = 3
	CipherOfb          Cipher = 4
	CipherXts          Cipher = 5
	CipherEcbNoPadding Cipher = 6
	CipherCbcNoPadding Cipher = 7
	CipherCbcPkcs7     Cipher = 8
)

// MacKind is the full-length MAC family.
type MacKind uint8

const (
	Hmac   MacKind = 1
	CbcMac MacKind = 2
	Cmac   MacKind = 3
)

// Mac is a MAC algorithm. A non-zero Length selects the truncated variant.
type Mac struct {
	Kind MacKind
	// HashAlg applies to Hmac only.
	HashAlg Hash
	Length  uint32
}

func (m Mac) marshalFullLength() ([]byte, error) {
	var inner body.Encoder
	switch m.Kind {
	case Hmac:
		inner.Enum(1, int32(m.HashAlg))
	case CbcMac, Cmac:
	default:
		return nil, fmt.Errorf("%w: mac kind %d", ErrInvalidVariant, m.Kind)
	}
	var e body.Encoder
	e.Message(fieldNum(m.Kind), inner.Payload())
	return e.Payload(), nil
}

func (m Mac) Marshal() ([]byte, error) {
	full, err := m.marshalFullLength()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	if m.Length == 0 {
		e.Message(1, full)
		return e.Payload(), nil
	}
	var truncated body.Encoder
	truncated.Message(1, full)
	truncated.Uint32(2, m.Length)
	e.Message(2, truncated.Payload())
	return e.Payload(), nil
}

func unmarshalFullLengthMac(fs body.Fields) (Mac, error) {
	f, ok := lastField(fs)
	if !ok {
		return Mac{}, fmt.Errorf("%w: mac not set", ErrInvalidVariant)
	}
	switch MacKind(f.Num) {
	case Hmac:
		inner, err := nested(f)
		if err != nil {
			return Mac{}, err
		}
		h, err := inner.Int32(1)
		if err != nil {
			return Mac{}, err
		}
		return Mac{Kind: Hmac, HashAlg: Hash(h)}, nil
	case CbcMac, Cmac:
		return Mac{Kind: MacKind(f.Num)}, nil
	default:
		return Mac{}, fmt.Errorf("%w: mac kind %d", ErrInvalidVariant, f.Num)
	}
}

func UnmarshalMac(fs body.Fields) (Mac, error) {
	f, ok := lastField(fs)
	if !ok {
		return Mac{}, fmt.Errorf("%w: mac not set", ErrInvalidVariant)
	}
	inner, err := nested(f)
	if err != nil {
		return Mac{}, err
	}
	switch f.Num {
	case 1:
		return unmarshalFullLengthMac(inner)
	case 2:
		full, _, err := inner.Message(1)
		if err != nil {
			return Mac{}, err
		}
		m, err := unmarshalFullLengthMac(full)
		if err != nil {
			return Mac{}, err
		}
		if m.Length, err = inner.Uint32(2); err != nil {
			return Mac{}, err
		}
		return m, nil
	default:
		return Mac{}, fmt.Errorf("%w: mac variant %d", ErrInvalidVariant, f.Num)
	}
}

// KeyAgreementRaw is a raw key agreement algorithm.
type KeyAgreementRaw int32

const (
	KeyAgreementNone KeyAgreementRaw = 0
	Ffdh             KeyAgreementRaw = 1
	Ecdh             KeyAgreementRaw = 2
)

// KeyDerivationKind is the oneof tag of a key derivation function.
type KeyDerivationKind uint8

const (
	Hkdf         KeyDerivationKind = 1
	Tls12Prf     KeyDerivationKind = 2
	Tls12PskToMs KeyDerivationKind = 3
)

type KeyDerivation struct {
	Kind    KeyDerivationKind
	HashAlg Hash
}

func (k KeyDerivation) Marshal() ([]byte, error) {
	if k.Kind < Hkdf || k.Kind > Tls12PskToMs {
		return nil, fmt.Errorf("%w: key derivation kind %d", ErrInvalidVariant, k.Kind)
	}
	var inner body.Encoder
	inner.Enum(1, int32(k.HashAlg))
	var e body.Encoder
	e.Message(fieldNum(k.Kind), inner.Payload())
	return e.Payload(), nil
}

func UnmarshalKeyDerivation(fs body.Fields) (KeyDerivation, error) {
	f, ok := lastField(fs)
	if !ok {
		return KeyDerivation{}, fmt.Errorf("%w: key derivation not set", ErrInvalidVariant)
	}
	kind := KeyDerivationKind(f.Num)
	if kind < Hkdf || kind > Tls12PskToMs {
		return KeyDerivation{}, fmt.Errorf("%w: key derivation kind %d", ErrInvalidVariant, f.Num)
	}
	inner, err := nested(f)
	if err != nil {
		return KeyDerivation{}, err
	}
	h, err := inner.Int32(1)
	if err != nil {
		return KeyDerivation{}, err
	}
	return KeyDerivation{Kind: kind, HashAlg: Hash(h)}, nil
}

// KeyAgreement is a raw agreement, optionally followed by a key derivation.
type KeyAgreement struct {
	Raw KeyAgreementRaw
	Kdf *KeyDerivation
}

func (k KeyAgreement) Marshal() ([]byte, error) {
	var e body.Encoder
	if k.Kdf == nil {
		e.Varint(1, uint64(k.Raw))
		return e.Payload(), nil
	}
	kdf, err := k.Kdf.Marshal()
	if err != nil {
		return nil, err
	}
	var inner body.Encoder
	inner.Enum(1, int32(k.Raw))
	inner.Message(2, kdf)
	e.Message(2, inner.Payload())
	return e.Payload(), nil
}

func UnmarshalKeyAgreement(fs body.Fields) (KeyAgreement, error) {
	f, ok := lastField(fs)
	if !ok {
		return KeyAgreement{}, fmt.Errorf("%w: key agreement not set", ErrInvalidVariant)
	}
	switch f.Num {
	case 1:
		raw, err := f.Int32()
		if err != nil {
			return KeyAgreement{}, err
		}
		return KeyAgreement{Raw: KeyAgreementRaw(raw)}, nil
	case 2:
		inner, err := nested(f)
		if err != nil {
			return KeyAgreement{}, err
		}
		raw, err := inner.Int32(1)
		if err != nil {
			return KeyAgreement{}, err
		}
		kdfFields, _, err := inner.Message(2)
		if err != nil {
			return KeyAgreement{}, err
		}
		kdf, err := UnmarshalKeyDerivation(kdfFields)
		if err != nil {
			return KeyAgreement{}, err
		}
		return KeyAgreement{Raw: KeyAgreementRaw(raw), Kdf: &kdf}, nil
	default:
		return KeyAgreement{}, fmt.Errorf("%w: key agreement kind %d", ErrInvalidVariant, f.Num)
	}
}
