package psa

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/danmuck/parsecgen/internal/protocol/body"
)

// AlgorithmKind is the oneof tag of a permitted algorithm.
type AlgorithmKind uint8

const (
	AlgNone                 AlgorithmKind = 1
	AlgHash                 AlgorithmKind = 2
	AlgMac                  AlgorithmKind = 3
	AlgCipher               AlgorithmKind = 4
	AlgAead                 AlgorithmKind = 5
	AlgAsymmetricSignature  AlgorithmKind = 6
	AlgAsymmetricEncryption AlgorithmKind = 7
	AlgKeyAgreement         AlgorithmKind = 8
	AlgKeyDerivation        AlgorithmKind = 9
)

// Algorithm is the algorithm a key is permitted to be used with. Only the
// member matching Kind is encoded.
type Algorithm struct {
	Kind                 AlgorithmKind
	Hash                 Hash
	Mac                  Mac
	Cipher               Cipher
	Aead                 Aead
	AsymmetricSignature  AsymmetricSignature
	AsymmetricEncryption AsymmetricEncryption
	KeyAgreement         KeyAgreement
	KeyDerivation        KeyDerivation
}

func (a Algorithm) Marshal() ([]byte, error) {
	var e body.Encoder
	var (
		inner []byte
		err   error
	)
	switch a.Kind {
	case AlgNone:
		e.Message(1, nil)
		return e.Payload(), nil
	case AlgHash:
		e.Varint(2, uint64(a.Hash))
		return e.Payload(), nil
	case AlgCipher:
		e.Varint(4, uint64(a.Cipher))
		return e.Payload(), nil
	case AlgMac:
		inner, err = a.Mac.Marshal()
	case AlgAead:
		inner, err = a.Aead.Marshal()
	case AlgAsymmetricSignature:
		inner, err = a.AsymmetricSignature.Marshal()
	case AlgAsymmetricEncryption:
		inner, err = a.AsymmetricEncryption.Marshal()
	case AlgKeyAgreement:
		inner, err = a.KeyAgreement.Marshal()
	case AlgKeyDerivation:
		inner, err = a.KeyDerivation.Marshal()
	default:
		return nil, fmt.Errorf("%w: algorithm kind %d", ErrInvalidVariant, a.Kind)
	}
	if err != nil {
		return nil, err
	}
	e.Message(fieldNum(a.Kind), inner)
	return e.Payload(), nil
}

func UnmarshalAlgorithm(fs body.Fields) (Algorithm, error) {
	f, ok := lastField(fs)
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: algorithm not set", ErrInvalidVariant)
	}
	out := Algorithm{Kind: AlgorithmKind(f.Num)}
	switch out.Kind {
	case AlgNone:
		return out, nil
	case AlgHash, AlgCipher:
		v, err := f.Int32()
		if err != nil {
			return Algorithm{}, err
		}
		if out.Kind == AlgHash {
			out.Hash = Hash(v)
		} else {
			out.Cipher = Cipher(v)
		}
		return out, nil
	}
	inner, err := nested(f)
	if err != nil {
		return Algorithm{}, err
	}
	switch out.Kind {
	case AlgMac:
		out.Mac, err = UnmarshalMac(inner)
	case AlgAead:
		out.Aead, err = UnmarshalAead(inner)
	case AlgAsymmetricSignature:
		out.AsymmetricSignature, err = UnmarshalAsymmetricSignature(inner)
	case AlgAsymmetricEncryption:
		out.AsymmetricEncryption, err = UnmarshalAsymmetricEncryption(inner)
	case AlgKeyAgreement:
		out.KeyAgreement, err = UnmarshalKeyAgreement(inner)
	case AlgKeyDerivation:
		out.KeyDerivation, err = UnmarshalKeyDerivation(inner)
	default:
		return Algorithm{}, fmt.Errorf("%w: algorithm kind %d", ErrInvalidVariant, f.Num)
	}
	if err != nil {
		return Algorithm{}, err
	}
	return out, nil
}

// KeyTypeKind is the oneof tag of a key type.
type KeyTypeKind uint8

const (
	RawData      KeyTypeKind = 1
	HmacKey      KeyTypeKind = 2
	Derive       KeyTypeKind = 3
	Aes          KeyTypeKind = 4
	Des          KeyTypeKind = 5
	Camellia     KeyTypeKind = 6
	Arc4         KeyTypeKind = 7
	Chacha20     KeyTypeKind = 8
	RsaPublicKey KeyTypeKind = 9
	RsaKeyPair   KeyTypeKind = 10
	EccKeyPair   KeyTypeKind = 11
	EccPublicKey KeyTypeKind = 12
	DhKeyPair    KeyTypeKind = 13
	DhPublicKey  KeyTypeKind = 14
)

// EccFamily is an elliptic curve family.
type EccFamily int32

const (
	EccNone         EccFamily = 0
	EccSecpK1       EccFamily = 1
	EccSecpR1       EccFamily = 2
	EccSecpR2       EccFamily = 3
	EccSectK1       EccFamily = 4
	EccSectR1       EccFamily = 5
	EccSectR2       EccFamily = 6
	EccBrainpoolPR1 EccFamily = 7
	EccFrp          EccFamily = 8
	EccMontgomery   EccFamily = 9
)

// DhFamily is a Diffie-Hellman group family.
type DhFamily int32

const (
	DhNone    DhFamily = 0
	DhRfc7919 DhFamily = 1
)

// KeyType is a key type. CurveFamily applies to the ECC kinds and GroupFamily
// to the DH kinds.
type KeyType struct {
	Kind        KeyTypeKind
	CurveFamily EccFamily
	GroupFamily DhFamily
}

func (k KeyType) Marshal() ([]byte, error) {
	var inner body.Encoder
	switch {
	case k.Kind == EccKeyPair || k.Kind == EccPublicKey:
		inner.Enum(1, int32(k.CurveFamily))
	case k.Kind == DhKeyPair || k.Kind == DhPublicKey:
		inner.Enum(1, int32(k.GroupFamily))
	case k.Kind >= RawData && k.Kind <= RsaKeyPair:
	default:
		return nil, fmt.Errorf("%w: key type kind %d", ErrInvalidVariant, k.Kind)
	}
	var e body.Encoder
	e.Message(fieldNum(k.Kind), inner.Payload())
	return e.Payload(), nil
}

func UnmarshalKeyType(fs body.Fields) (KeyType, error) {
	f, ok := lastField(fs)
	if !ok {
		return KeyType{}, fmt.Errorf("%w: key type not set", ErrInvalidVariant)
	}
	kind := KeyTypeKind(f.Num)
	if kind < RawData || kind > DhPublicKey {
		return KeyType{}, fmt.Errorf("%w: key type kind %d", ErrInvalidVariant, f.Num)
	}
	inner, err := nested(f)
	if err != nil {
		return KeyType{}, err
	}
	family, err := inner.Int32(1)
	if err != nil {
		return KeyType{}, err
	}
	out := KeyType{Kind: kind}
	switch kind {
	case EccKeyPair, EccPublicKey:
		out.CurveFamily = EccFamily(family)
	case DhKeyPair, DhPublicKey:
		out.GroupFamily = DhFamily(family)
	}
	return out, nil
}

// UsageFlags lists the operations a key may be used for.
type UsageFlags struct {
	Export        bool
	Copy          bool
	Cache         bool
	Encrypt       bool
	Decrypt       bool
	SignMessage   bool
	VerifyMessage bool
	SignHash      bool
	VerifyHash    bool
	Derive        bool
}

func (u UsageFlags) Marshal() []byte {
	var e body.Encoder
	for i, v := range u.flagPtrs() {
		e.Bool(protowire.Number(i+1), *v)
	}
	return e.Payload()
}

func UnmarshalUsageFlags(fs body.Fields) (UsageFlags, error) {
	var u UsageFlags
	for i, p := range u.flagPtrs() {
		v, err := fs.Bool(protowire.Number(i + 1))
		if err != nil {
			return UsageFlags{}, err
		}
		*p = v
	}
	return u, nil
}

// flagPtrs lists the flags in field number order.
func (u *UsageFlags) flagPtrs() []*bool {
	return []*bool{
		&u.Export, &u.Copy, &u.Cache, &u.Encrypt, &u.Decrypt,
		&u.SignMessage, &u.VerifyMessage, &u.SignHash, &u.VerifyHash, &u.Derive,
	}
}

// KeyPolicy restricts how a key may be used.
type KeyPolicy struct {
	UsageFlags UsageFlags
	Algorithm  Algorithm
}

func (p KeyPolicy) Marshal() ([]byte, error) {
	alg, err := p.Algorithm.Marshal()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	e.Message(1, p.UsageFlags.Marshal())
	e.Message(2, alg)
	return e.Payload(), nil
}

func UnmarshalKeyPolicy(fs body.Fields) (KeyPolicy, error) {
	var p KeyPolicy
	usage, _, err := fs.Message(1)
	if err != nil {
		return KeyPolicy{}, err
	}
	if p.UsageFlags, err = UnmarshalUsageFlags(usage); err != nil {
		return KeyPolicy{}, err
	}
	alg, _, err := fs.Message(2)
	if err != nil {
		return KeyPolicy{}, err
	}
	if p.Algorithm, err = UnmarshalAlgorithm(alg); err != nil {
		return KeyPolicy{}, err
	}
	return p, nil
}

// KeyAttributes describes a key.
type KeyAttributes struct {
	KeyType KeyType
	Bits    uint32
	Policy  KeyPolicy
}

func (a KeyAttributes) Marshal() ([]byte, error) {
	kt, err := a.KeyType.Marshal()
	if err != nil {
		return nil, err
	}
	policy, err := a.Policy.Marshal()
	if err != nil {
		return nil, err
	}
	var e body.Encoder
	e.Message(1, kt)
	e.Uint32(2, a.Bits)
	e.Message(3, policy)
	return e.Payload(), nil
}

func UnmarshalKeyAttributes(fs body.Fields) (KeyAttributes, error) {
	var a KeyAttributes
	kt, _, err := fs.Message(1)
	if err != nil {
		return KeyAttributes{}, err
	}
	if a.KeyType, err = UnmarshalKeyType(kt); err != nil {
		return KeyAttributes{}, err
	}
	if a.Bits, err = fs.Uint32(2); err != nil {
		return KeyAttributes{}, err
	}
	policy, _, err := fs.Message(3)
	if err != nil {
		return KeyAttributes{}, err
	}
	if a.Policy, err = UnmarshalKeyPolicy(policy); err != nil {
		return KeyAttributes{}, err
	}
	return a, nil
}

func fieldNum[K ~uint8](k K) protowire.Number {
	return protowire.Number(k)
}

// lastField returns the selected member of a oneof message.
func lastField(fs body.Fields) (body.Field, bool) {
	if len(fs) == 0 {
		return body.Field{}, false
	}
	return fs[len(fs)-1], true
}

func nested(f body.Field) (body.Fields, error) {
	raw, err := f.Bytes()
	if err != nil {
		return nil, err
	}
	return body.DecodeFields(raw)
}
