package providers

import (
	"github.com/danmuck/parsecgen/internal/fixture"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

const keyName = "key1"

// eccSigningKey backs the generate and import scenarios.
var eccSigningKey = psa.KeyAttributes{
	KeyType: psa.KeyType{Kind: psa.EccKeyPair, CurveFamily: psa.EccSecpR1},
	Bits:    256,
	Policy: psa.KeyPolicy{
		UsageFlags: psa.UsageFlags{SignHash: true, VerifyHash: true, SignMessage: true, VerifyMessage: true},
		Algorithm: psa.Algorithm{
			Kind: psa.AlgAsymmetricSignature,
			AsymmetricSignature: psa.AsymmetricSignature{
				Kind:    psa.Ecdsa,
				HashAlg: psa.SignHash{Specific: psa.HashSha256},
			},
		},
	},
}

// eccSigningKeyData is the request_data view of eccSigningKey.
func eccSigningKeyData() map[string]any {
	return map[string]any{
		"key_type": "EccKeyPair { curve_family: SecpR1 }",
		"bits":     eccSigningKey.Bits,
		"policy": map[string]any{
			"usage_flags": []string{"sign_hash", "verify_hash", "sign_message", "verify_message"},
			"permitted_algorithms": "AsymmetricSignature::Ecdsa { hash_alg: Sha256 }",
		},
	}
}

var ecdsaSha256 = psa.AsymmetricSignature{
	Kind:    psa.Ecdsa,
	HashAlg: psa.SignHash{Specific: psa.HashSha256},
}

const ecdsaSha256Name = "AsymmetricSignature::Ecdsa { hash_alg: Sha256 }"

func generateKeyScenarios() []fixture.Scenario {
	op := operations.GenerateKeyOperation{KeyName: keyName, Attributes: eccSigningKey}
	request := map[string]any{"key_name": keyName, "attributes": eccSigningKeyData()}
	return []fixture.Scenario{
		success(op, request, operations.GenerateKeyResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorAlreadyExists),
	}
}

func destroyKeyScenarios() []fixture.Scenario {
	op := operations.DestroyKeyOperation{KeyName: keyName}
	request := map[string]any{"key_name": keyName}
	return []fixture.Scenario{
		success(op, request, operations.DestroyKeyResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorDoesNotExist),
	}
}

func importKeyScenarios() []fixture.Scenario {
	data := "private key data"
	op := operations.ImportKeyOperation{KeyName: keyName, Attributes: eccSigningKey, Data: []byte(data)}
	request := map[string]any{"key_name": keyName, "attributes": eccSigningKeyData(), "data": data}
	return []fixture.Scenario{
		success(op, request, operations.ImportKeyResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorInvalidArgument),
	}
}

func exportKeyScenarios() []fixture.Scenario {
	data := "exported key data"
	op := operations.ExportKeyOperation{KeyName: keyName}
	request := map[string]any{"key_name": keyName}
	return []fixture.Scenario{
		success(op, request, operations.ExportKeyResult{Data: []byte(data)}, map[string]any{"data": data}),
		failure(op, request, status.PsaErrorNotPermitted),
	}
}

func exportPublicKeyScenarios() []fixture.Scenario {
	data := "public key data"
	op := operations.ExportPublicKeyOperation{KeyName: keyName}
	request := map[string]any{"key_name": keyName}
	return []fixture.Scenario{
		success(op, request, operations.ExportPublicKeyResult{Data: []byte(data)}, map[string]any{"data": data}),
		failure(op, request, status.PsaErrorDoesNotExist),
	}
}

func signHashScenarios() []fixture.Scenario {
	hash, signature := "hash to sign", "signature"
	op := operations.SignHashOperation{KeyName: keyName, Alg: ecdsaSha256, Hash: []byte(hash)}
	request := map[string]any{"key_name": keyName, "alg": ecdsaSha256Name, "hash": hash}
	return []fixture.Scenario{
		success(op, request, operations.SignHashResult{Signature: []byte(signature)},
			map[string]any{"signature": signature}),
		failure(op, request, status.PsaErrorNotPermitted),
	}
}

func verifyHashScenarios() []fixture.Scenario {
	hash, signature := "hash to verify", "signature"
	op := operations.VerifyHashOperation{
		KeyName:   keyName,
		Alg:       ecdsaSha256,
		Hash:      []byte(hash),
		Signature: []byte(signature),
	}
	request := map[string]any{"key_name": keyName, "alg": ecdsaSha256Name, "hash": hash, "signature": signature}
	return []fixture.Scenario{
		success(op, request, operations.VerifyHashResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorInvalidSignature),
	}
}

func signMessageScenarios() []fixture.Scenario {
	message, signature := "message to sign", "signature"
	op := operations.SignMessageOperation{KeyName: keyName, Alg: ecdsaSha256, Message: []byte(message)}
	request := map[string]any{"key_name": keyName, "alg": ecdsaSha256Name, "message": message}
	return []fixture.Scenario{
		success(op, request, operations.SignMessageResult{Signature: []byte(signature)},
			map[string]any{"signature": signature}),
		failure(op, request, status.PsaErrorNotPermitted),
	}
}

func verifyMessageScenarios() []fixture.Scenario {
	message, signature := "message to verify", "signature"
	op := operations.VerifyMessageOperation{
		KeyName:   keyName,
		Alg:       ecdsaSha256,
		Message:   []byte(message),
		Signature: []byte(signature),
	}
	request := map[string]any{"key_name": keyName, "alg": ecdsaSha256Name, "message": message, "signature": signature}
	return []fixture.Scenario{
		success(op, request, operations.VerifyMessageResult{}, map[string]any{}),
		failure(op, request, status.PsaErrorInvalidSignature),
	}
}
