package providers

import (
	"github.com/danmuck/parsecgen/internal/fixture"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

const (
	plaintext      = "plaintext"
	ciphertext     = "ciphertext"
	nonce          = "nonce"
	additionalData = "additional data"
	salt           = "salt"
)

var rsaOaepSha256 = psa.AsymmetricEncryption{Kind: psa.RsaOaep, HashAlg: psa.HashSha256}

const rsaOaepSha256Name = "AsymmetricEncryption::RsaOaep { hash_alg: Sha256 }"

func asymmetricEncryptScenarios() []fixture.Scenario {
	op := operations.AsymmetricEncryptOperation{
		KeyName:   keyName,
		Alg:       rsaOaepSha256,
		Plaintext: []byte(plaintext),
		Salt:      []byte(salt),
	}
	request := map[string]any{"key_name": keyName, "alg": rsaOaepSha256Name, "plaintext": plaintext, "salt": salt}
	return []fixture.Scenario{
		success(op, request, operations.AsymmetricEncryptResult{Ciphertext: []byte(ciphertext)},
			map[string]any{"ciphertext": ciphertext}),
		failure(op, request, status.PsaErrorInvalidArgument),
	}
}

func asymmetricDecryptScenarios() []fixture.Scenario {
	op := operations.AsymmetricDecryptOperation{
		KeyName:    keyName,
		Alg:        rsaOaepSha256,
		Ciphertext: []byte(ciphertext),
		Salt:       []byte(salt),
	}
	request := map[string]any{"key_name": keyName, "alg": rsaOaepSha256Name, "ciphertext": ciphertext, "salt": salt}
	return []fixture.Scenario{
		success(op, request, operations.AsymmetricDecryptResult{Plaintext: []byte(plaintext)},
			map[string]any{"plaintext": plaintext}),
		failure(op, request, status.PsaErrorInvalidPadding),
	}
}

var aeadCcm = psa.Aead{Alg: psa.AeadCcm}

const aeadCcmName = "AeadWithDefaultLengthTag::Ccm"

func aeadEncryptScenarios() []fixture.Scenario {
	op := operations.AeadEncryptOperation{
		KeyName:        keyName,
		Alg:            aeadCcm,
		Nonce:          []byte(nonce),
		AdditionalData: []byte(additionalData),
		Plaintext:      []byte(plaintext),
	}
	request := map[string]any{
		"key_name":        keyName,
		"alg":             aeadCcmName,
		"nonce":           nonce,
		"plaintext":       plaintext,
		"additional_data": additionalData,
	}
	return []fixture.Scenario{
		success(op, request, operations.AeadEncryptResult{Ciphertext: []byte(ciphertext)},
			map[string]any{"ciphertext": ciphertext}),
		failure(op, request, status.PsaErrorNotSupported),
	}
}

func aeadDecryptScenarios() []fixture.Scenario {
	op := operations.AeadDecryptOperation{
		KeyName:        keyName,
		Alg:            aeadCcm,
		Nonce:          []byte(nonce),
		AdditionalData: []byte(additionalData),
		Ciphertext:     []byte(ciphertext),
	}
	request := map[string]any{
		"key_name":        keyName,
		"alg":             aeadCcmName,
		"nonce":           nonce,
		"ciphertext":      ciphertext,
		"additional_data": additionalData,
	}
	return []fixture.Scenario{
		success(op, request, operations.AeadDecryptResult{Plaintext: []byte(plaintext)},
			map[string]any{"plaintext": plaintext}),
		failure(op, request, status.AuthenticationError),
	}
}

const cbcPkcs7Name = "Cipher::CbcPkcs7"

func cipherEncryptScenarios() []fixture.Scenario {
	op := operations.CipherEncryptOperation{KeyName: keyName, Alg: psa.CipherCbcPkcs7, Plaintext: []byte(plaintext)}
	request := map[string]any{"key_name": keyName, "alg": cbcPkcs7Name, "plaintext": plaintext}
	return []fixture.Scenario{
		success(op, request, operations.CipherEncryptResult{Ciphertext: []byte(ciphertext)},
			map[string]any{"ciphertext": ciphertext}),
		failure(op, request, status.PsaErrorBadState),
	}
}

func cipherDecryptScenarios() []fixture.Scenario {
	op := operations.CipherDecryptOperation{KeyName: keyName, Alg: psa.CipherCbcPkcs7, Ciphertext: []byte(ciphertext)}
	request := map[string]any{"key_name": keyName, "alg": cbcPkcs7Name, "ciphertext": ciphertext}
	return []fixture.Scenario{
		success(op, request, operations.CipherDecryptResult{Plaintext: []byte(plaintext)},
			map[string]any{"plaintext": plaintext}),
		failure(op, request, status.PsaErrorInvalidPadding),
	}
}

func hashComputeScenarios() []fixture.Scenario {
	input, hash := "hash input", "hash output"
	op := operations.HashComputeOperation{Alg: psa.HashSha256, Input: []byte(input)}
	request := map[string]any{"alg": psa.HashSha256.String(), "input": input}
	return []fixture.Scenario{
		success(op, request, operations.HashComputeResult{Hash: []byte(hash)}, map[string]any{"hash": hash}),
		failure(op, request, status.PsaErrorNotSupported),
	}
}

func hashCompareScenarios() []fixture.Scenario {
	input, hash := "hash input", "hash output"
	op := operations.HashCompareOperation{Alg: psa.HashSha256, Input: []byte(input), Hash: []byte(hash)}
	request := map[string]any{"alg": psa.HashSha256.String(), "input": input, "hash": hash}
	return []fixture.Scenario{
		success(op, request, operations.HashCompareResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorInvalidSignature),
	}
}

var hmacSha256 = psa.Mac{Kind: psa.Hmac, HashAlg: psa.HashSha256}

const hmacSha256Name = "FullLength::Hmac { hash_alg: Sha256 }"

func macComputeScenarios() []fixture.Scenario {
	input, mac := "mac input", "mac output"
	op := operations.MacComputeOperation{KeyName: keyName, Alg: hmacSha256, Input: []byte(input)}
	request := map[string]any{"key_name": keyName, "alg": hmacSha256Name, "input": input}
	return []fixture.Scenario{
		success(op, request, operations.MacComputeResult{Mac: []byte(mac)}, map[string]any{"mac": mac}),
		failure(op, request, status.PsaErrorNotPermitted),
	}
}

func macVerifyScenarios() []fixture.Scenario {
	input, mac := "mac input", "mac output"
	op := operations.MacVerifyOperation{KeyName: keyName, Alg: hmacSha256, Input: []byte(input), Mac: []byte(mac)}
	request := map[string]any{"key_name": keyName, "alg": hmacSha256Name, "input": input, "mac": mac}
	return []fixture.Scenario{
		success(op, request, operations.MacVerifyResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorInvalidSignature),
	}
}

func generateRandomScenarios() []fixture.Scenario {
	random := "random bytes"
	op := operations.GenerateRandomOperation{Size: uint64(len(random))}
	request := map[string]any{"size": op.Size}
	return []fixture.Scenario{
		success(op, request, operations.GenerateRandomResult{RandomBytes: []byte(random)},
			map[string]any{"random_bytes": random}),
		failure(op, request, status.PsaErrorInsufficientEntropy),
	}
}

func rawKeyAgreementScenarios() []fixture.Scenario {
	peerKey, secret := "peer key", "shared secret"
	op := operations.RawKeyAgreementOperation{Alg: psa.Ecdh, PrivateKeyName: keyName, PeerKey: []byte(peerKey)}
	request := map[string]any{"alg": "RawKeyAgreement::Ecdh", "private_key_name": keyName, "peer_key": peerKey}
	return []fixture.Scenario{
		success(op, request, operations.RawKeyAgreementResult{SharedSecret: []byte(secret)},
			map[string]any{"shared_secret": secret}),
		failure(op, request, status.PsaErrorInvalidHandle),
	}
}
