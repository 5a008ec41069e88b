package providers

import (
	"github.com/google/uuid"

	"github.com/danmuck/parsecgen/internal/fixture"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/operations/psa"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

func pingScenarios() []fixture.Scenario {
	version := func(major, minor uint8) map[string]any {
		return map[string]any{"major": major, "minor": minor}
	}
	nonStandard := success(operations.PingOperation{}, nil,
		operations.PingResult{VersionMajor: 3, VersionMinor: 1}, version(3, 1))
	nonStandard.Name = "non standard version"
	return []fixture.Scenario{
		success(operations.PingOperation{}, nil,
			operations.PingResult{VersionMajor: 1, VersionMinor: 0}, version(1, 0)),
		nonStandard,
		failure(operations.PingOperation{}, nil, status.WireProtocolVersionNotSupported),
	}
}

var knownProviders = []operations.ProviderInfo{
	{
		Description: "mbed crypto",
		ID:          protocol.ProviderMbedCrypto,
		UUID:        uuid.MustParse("7b344de6-69c3-4c1c-91ce-5cb4998205b8"),
		Vendor:      "vendor",
		VersionMaj:  1,
		VersionMin:  13,
		VersionRev:  23,
	},
	{
		Description: "tpm",
		ID:          protocol.ProviderTpm,
		UUID:        uuid.MustParse("9ac52be8-4b9c-4d20-9a6f-a2d56f447464"),
		Vendor:      "tpm vendor",
		VersionMaj:  2,
		VersionMin:  43,
		VersionRev:  3,
	},
}

func listProvidersScenarios() []fixture.Scenario {
	expected := make([]any, 0, len(knownProviders))
	for _, p := range knownProviders {
		expected = append(expected, map[string]any{
			"id":          uint32(p.ID),
			"description": p.Description,
			"uuid":        p.UUID.String(),
			"vendor":      p.Vendor,
			"version_maj": p.VersionMaj,
			"version_min": p.VersionMin,
			"version_rev": p.VersionRev,
		})
	}
	return []fixture.Scenario{
		success(operations.ListProvidersOperation{}, nil,
			operations.ListProvidersResult{Providers: knownProviders}, expected),
		failure(operations.ListProvidersOperation{}, nil, status.AuthenticationError),
	}
}

func listOpcodesScenarios() []fixture.Scenario {
	op := operations.ListOpcodesOperation{ProviderID: protocol.ProviderMbedCrypto}
	request := map[string]any{"provider_id": uint32(op.ProviderID)}
	opcodes := []protocol.Opcode{protocol.OpPsaAeadDecrypt, protocol.OpPsaAeadEncrypt, protocol.OpPsaDestroyKey}
	expected := make([]uint32, 0, len(opcodes))
	for _, o := range opcodes {
		expected = append(expected, uint32(o))
	}
	return []fixture.Scenario{
		success(op, request, operations.ListOpcodesResult{Opcodes: opcodes}, expected),
		failure(op, request, status.WrongProviderID),
	}
}

func listAuthenticatorsScenarios() []fixture.Scenario {
	auth := operations.AuthenticatorInfo{
		Description: "No Auth",
		VersionMaj:  0,
		VersionMin:  1,
		VersionRev:  45,
		ID:          protocol.AuthNoAuth,
	}
	expected := []any{map[string]any{
		"id":          uint32(auth.ID),
		"description": auth.Description,
		"version_maj": auth.VersionMaj,
		"version_min": auth.VersionMin,
		"version_rev": auth.VersionRev,
	}}
	fail := failure(operations.ListAuthenticatorsOperation{}, nil, status.PsaErrorNotSupported)
	fail.Name = "failing response"
	return []fixture.Scenario{
		success(operations.ListAuthenticatorsOperation{}, nil,
			operations.ListAuthenticatorsResult{Authenticators: []operations.AuthenticatorInfo{auth}}, expected),
		fail,
	}
}

// rsaSigningKey is the policy carried by listed keys.
var rsaSigningKey = psa.KeyAttributes{
	KeyType: psa.KeyType{Kind: psa.RsaKeyPair},
	Bits:    1024,
	Policy: psa.KeyPolicy{
		Algorithm: psa.Algorithm{
			Kind: psa.AlgAsymmetricSignature,
			AsymmetricSignature: psa.AsymmetricSignature{
				Kind:    psa.RsaPkcs1v15Sign,
				HashAlg: psa.SignHash{Specific: psa.HashSha256},
			},
		},
	},
}

func listKeysScenarios() []fixture.Scenario {
	keys := []operations.KeyInfo{
		{Name: "key1", ProviderID: protocol.ProviderCryptoAuthLib, Attributes: rsaSigningKey},
		{Name: "key2", ProviderID: protocol.ProviderTpm, Attributes: rsaSigningKey},
	}
	expected := make([]any, 0, len(keys))
	for _, k := range keys {
		// attributes are not part of the client view
		expected = append(expected, map[string]any{
			"name":        k.Name,
			"provider_id": uint32(k.ProviderID),
		})
	}
	return []fixture.Scenario{
		success(operations.ListKeysOperation{}, nil, operations.ListKeysResult{Keys: keys}, expected),
		failure(operations.ListKeysOperation{}, nil, status.WrongProviderID),
	}
}

func listClientsScenarios() []fixture.Scenario {
	clients := []string{"client1", "client2"}
	return []fixture.Scenario{
		success(operations.ListClientsOperation{}, nil, operations.ListClientsResult{Clients: clients}, clients),
		failure(operations.ListClientsOperation{}, nil, status.AdminOperation),
	}
}

func deleteClientScenarios() []fixture.Scenario {
	op := operations.DeleteClientOperation{Client: "client1"}
	request := map[string]any{"client": op.Client}
	return []fixture.Scenario{
		success(op, request, operations.DeleteClientResult{}, map[string]any{}),
		failure(op, request, status.AdminOperation),
	}
}
