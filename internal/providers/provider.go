// Package providers holds the golden scenarios for every opcode.
package providers

import (
	"fmt"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/fixture"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/status"
)

// scenarioProvider frames a static scenario list with a shared builder.
type scenarioProvider struct {
	op        protocol.Opcode
	builder   *fixture.Builder
	scenarios func() []fixture.Scenario
}

func (p scenarioProvider) Name() string            { return p.op.Name() }
func (p scenarioProvider) Opcode() protocol.Opcode { return p.op }

func (p scenarioProvider) BuildSuite() (fixture.Suite, error) {
	scenarios := p.scenarios()
	cases := make([]fixture.Case, 0, len(scenarios))
	for _, s := range scenarios {
		c, err := p.builder.Case(s)
		if err != nil {
			return fixture.Suite{}, fmt.Errorf("%s: %w", p.op.Name(), err)
		}
		cases = append(cases, c)
	}
	return fixture.NewSuite(p.op, cases...)
}

// Default registers a provider for every opcode.
func Default(b *fixture.Builder) (*Registry, error) {
	r := NewRegistry()
	table := map[protocol.Opcode]func() []fixture.Scenario{
		protocol.OpPing:                 pingScenarios,
		protocol.OpPsaGenerateKey:       generateKeyScenarios,
		protocol.OpPsaDestroyKey:        destroyKeyScenarios,
		protocol.OpPsaSignHash:          signHashScenarios,
		protocol.OpPsaVerifyHash:        verifyHashScenarios,
		protocol.OpPsaImportKey:         importKeyScenarios,
		protocol.OpPsaExportPublicKey:   exportPublicKeyScenarios,
		protocol.OpListProviders:        listProvidersScenarios,
		protocol.OpListOpcodes:          listOpcodesScenarios,
		protocol.OpPsaAsymmetricEncrypt: asymmetricEncryptScenarios,
		protocol.OpPsaAsymmetricDecrypt: asymmetricDecryptScenarios,
		protocol.OpPsaExportKey:         exportKeyScenarios,
		protocol.OpPsaGenerateRandom:    generateRandomScenarios,
		protocol.OpListAuthenticators:   listAuthenticatorsScenarios,
		protocol.OpPsaHashCompute:       hashComputeScenarios,
		protocol.OpPsaHashCompare:       hashCompareScenarios,
		protocol.OpPsaAeadEncrypt:       aeadEncryptScenarios,
		protocol.OpPsaAeadDecrypt:       aeadDecryptScenarios,
		protocol.OpPsaRawKeyAgreement:   rawKeyAgreementScenarios,
		protocol.OpPsaCipherEncrypt:     cipherEncryptScenarios,
		protocol.OpPsaCipherDecrypt:     cipherDecryptScenarios,
		protocol.OpPsaMacCompute:        macComputeScenarios,
		protocol.OpPsaMacVerify:         macVerifyScenarios,
		protocol.OpPsaSignMessage:       signMessageScenarios,
		protocol.OpPsaVerifyMessage:     verifyMessageScenarios,
		protocol.OpListKeys:             listKeysScenarios,
		protocol.OpListClients:          listClientsScenarios,
		protocol.OpDeleteClient:         deleteClientScenarios,
	}
	for _, op := range b.Codecs().Opcodes() {
		scenarios, ok := table[op]
		if !ok {
			return nil, fmt.Errorf("providers: no scenarios for %s", op)
		}
		if err := r.Register(scenarioProvider{op: op, builder: b, scenarios: scenarios}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// success is the common normal_response shape.
func success(op codec.Operation, requestData any, result codec.Result, expected any) fixture.Scenario {
	return fixture.Scenario{
		Name:             "normal_response",
		Operation:        op,
		RequestData:      requestData,
		Status:           status.Success,
		Result:           result,
		ExpectedResponse: expected,
		ExpectSuccess:    true,
	}
}

// failure carries no result body; the expected response defaults to the
// empty shape of the opcode.
func failure(op codec.Operation, requestData any, st status.Status) fixture.Scenario {
	return fixture.Scenario{
		Name:        "fail response",
		Operation:   op,
		RequestData: requestData,
		Status:      st,
	}
}
