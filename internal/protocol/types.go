package protocol

import "fmt"

// Wire constants shared by request and response headers.
const (
	Magic          uint32 = 0x5EC0A710
	HeaderSize     uint16 = 30
	FixedHeaderLen        = 36
	VersionMajor   uint8  = 1
	VersionMinor   uint8  = 0
)

// Opcode identifies one operation kind.
type Opcode uint32

const (
	OpPing                 Opcode = 1
	OpPsaGenerateKey       Opcode = 2
	OpPsaDestroyKey        Opcode = 3
	OpPsaSignHash          Opcode = 4
	OpPsaVerifyHash        Opcode = 5
	OpPsaImportKey         Opcode = 6
	OpPsaExportPublicKey   Opcode = 7
	OpListProviders        Opcode = 8
	OpListOpcodes          Opcode = 9
	OpPsaAsymmetricEncrypt Opcode = 10
	OpPsaAsymmetricDecrypt Opcode = 11
	OpPsaExportKey         Opcode = 12
	OpPsaGenerateRandom    Opcode = 13
	OpListAuthenticators   Opcode = 14
	OpPsaHashCompute       Opcode = 15
	OpPsaHashCompare       Opcode = 16
	OpPsaAeadEncrypt       Opcode = 17
	OpPsaAeadDecrypt       Opcode = 18
	OpPsaRawKeyAgreement   Opcode = 19
	OpPsaCipherEncrypt     Opcode = 20
	OpPsaCipherDecrypt     Opcode = 21
	OpPsaMacCompute        Opcode = 22
	OpPsaMacVerify         Opcode = 23
	OpPsaSignMessage       Opcode = 24
	OpPsaVerifyMessage     Opcode = 25
	OpListKeys             Opcode = 26
	OpListClients          Opcode = 27
	OpDeleteClient         Opcode = 28
)

var opcodeNames = map[Opcode]string{
	OpPing:                 "ping",
	OpPsaGenerateKey:       "psa_generate_key",
	OpPsaDestroyKey:        "psa_destroy_key",
	OpPsaSignHash:          "psa_sign_hash",
	OpPsaVerifyHash:        "psa_verify_hash",
	OpPsaImportKey:         "psa_import_key",
	OpPsaExportPublicKey:   "psa_export_public_key",
	OpListProviders:        "list_providers",
	OpListOpcodes:          "list_opcodes",
	OpPsaAsymmetricEncrypt: "psa_asymmetric_encrypt",
	OpPsaAsymmetricDecrypt: "psa_asymmetric_decrypt",
	OpPsaExportKey:         "psa_export_key",
	OpPsaGenerateRandom:    "psa_generate_random",
	OpListAuthenticators:   "list_authenticators",
	OpPsaHashCompute:       "psa_hash_compute",
	OpPsaHashCompare:       "psa_hash_compare",
	OpPsaAeadEncrypt:       "psa_aead_encrypt",
	OpPsaAeadDecrypt:       "psa_aead_decrypt",
	OpPsaRawKeyAgreement:   "psa_raw_key_agreement",
	OpPsaCipherEncrypt:     "psa_cipher_encrypt",
	OpPsaCipherDecrypt:     "psa_cipher_decrypt",
	OpPsaMacCompute:        "psa_mac_compute",
	OpPsaMacVerify:         "psa_mac_verify",
	OpPsaSignMessage:       "psa_sign_message",
	OpPsaVerifyMessage:     "psa_verify_message",
	OpListKeys:             "list_keys",
	OpListClients:          "list_clients",
	OpDeleteClient:         "delete_client",
}

// Valid reports whether op is defined by the protocol version this module targets.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

// Name returns the snake_case artifact name, or "" for unknown opcodes.
func (op Opcode) Name() string {
	return opcodeNames[op]
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint32(op))
}

// OpcodeByName resolves an artifact name back to its opcode.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// ProviderID identifies a backend provider in the header.
type ProviderID uint8

const (
	ProviderCore           ProviderID = 0
	ProviderMbedCrypto     ProviderID = 1
	ProviderPkcs11         ProviderID = 2
	ProviderTpm            ProviderID = 3
	ProviderTrustedService ProviderID = 4
	ProviderCryptoAuthLib  ProviderID = 5
)

func (p ProviderID) String() string {
	switch p {
	case ProviderCore:
		return "core"
	case ProviderMbedCrypto:
		return "mbed-crypto"
	case ProviderPkcs11:
		return "pkcs11"
	case ProviderTpm:
		return "tpm"
	case ProviderTrustedService:
		return "trusted-service"
	case ProviderCryptoAuthLib:
		return "cryptoauthlib"
	default:
		return fmt.Sprintf("provider(%d)", uint8(p))
	}
}

// BodyType is the declared content/accept encoding.
type BodyType uint8

// BodyProtobuf is the only body encoding defined by the protocol.
const BodyProtobuf BodyType = 0

func (b BodyType) String() string {
	if b == BodyProtobuf {
		return "protobuf"
	}
	return fmt.Sprintf("body(%d)", uint8(b))
}

// AuthType is the authentication mechanism tag.
type AuthType uint8

const (
	AuthNoAuth              AuthType = 0
	AuthDirect              AuthType = 1
	AuthTokens              AuthType = 2
	AuthUnixPeerCredentials AuthType = 3
	AuthJwtSvid             AuthType = 4
)

func (a AuthType) String() string {
	switch a {
	case AuthNoAuth:
		return "no-auth"
	case AuthDirect:
		return "direct"
	case AuthTokens:
		return "tokens"
	case AuthUnixPeerCredentials:
		return "unix-peer-credentials"
	case AuthJwtSvid:
		return "jwt-svid"
	default:
		return fmt.Sprintf("auth(%d)", uint8(a))
	}
}
