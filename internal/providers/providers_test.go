package providers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/danmuck/parsecgen/internal/fixture"
	logs "github.com/danmuck/parsecgen/internal/logging"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/status"
	"github.com/danmuck/parsecgen/internal/testutil/testlog"
)

type stubProvider struct {
	name string
	op   protocol.Opcode
}

func (p stubProvider) Name() string                       { return p.name }
func (p stubProvider) Opcode() protocol.Opcode            { return p.op }
func (p stubProvider) BuildSuite() (fixture.Suite, error) { return fixture.Suite{OpCode: p.op}, nil }

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Default(fixture.NewBuilder(operations.NewRegistry()))
	if err != nil {
		t.Fatalf("default providers: %v", err)
	}
	return r
}

func buildSuite(t *testing.T, op protocol.Opcode) fixture.Suite {
	t.Helper()
	p, ok := defaultRegistry(t).Resolve(op.Name())
	if !ok {
		t.Fatalf("missing provider for %s", op)
	}
	suite, err := p.BuildSuite()
	if err != nil {
		t.Fatalf("build %s: %v", op, err)
	}
	return suite
}

func TestRegistryRejectsBadProviders(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrProviderNil) {
		t.Fatalf("expected ErrProviderNil, got %v", err)
	}
	if err := r.Register(stubProvider{name: "Ping", op: protocol.OpPing}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for upper case, got %v", err)
	}
	if err := r.Register(stubProvider{name: "list_keys", op: protocol.OpPing}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for name/opcode disagreement, got %v", err)
	}
	if err := r.Register(stubProvider{name: "ping", op: protocol.OpPing}); err != nil {
		t.Fatalf("register ping: %v", err)
	}
	if err := r.Register(stubProvider{name: "ping", op: protocol.OpPing}); !errors.Is(err, ErrProviderExists) {
		t.Fatalf("expected ErrProviderExists, got %v", err)
	}

	for _, bad := range []string{"", "_ping", "ping_", "list__keys", "list-keys"} {
		if err := ValidateName(bad); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName for %q, got %v", bad, err)
		}
	}
}

func TestDefaultCoversEveryOpcode(t *testing.T) {
	testlog.Start(t)
	r := defaultRegistry(t)
	if n := len(r.Names()); n != 28 {
		t.Fatalf("expected 28 providers, got %d", n)
	}
	for op := protocol.OpPing; op <= protocol.OpDeleteClient; op++ {
		p, ok := r.Resolve(op.Name())
		if !ok {
			t.Fatalf("missing provider for %s", op)
		}
		if p.Opcode() != op {
			t.Fatalf("provider %s reports opcode %s", op.Name(), p.Opcode())
		}
	}
}

func TestEverySuiteBuildsWithCoverage(t *testing.T) {
	testlog.Start(t)
	for _, p := range defaultRegistry(t).List() {
		suite, err := p.BuildSuite()
		if err != nil {
			t.Fatalf("%s: %v", p.Name(), err)
		}
		if suite.OpCode != p.Opcode() {
			t.Fatalf("%s: suite op_code %d", p.Name(), uint32(suite.OpCode))
		}
		if err := suite.CheckCoverage(); err != nil {
			t.Fatalf("%s: %v", p.Name(), err)
		}
	}
}

func TestSuitesAreDeterministic(t *testing.T) {
	testlog.Start(t)
	first := defaultRegistry(t)
	second := defaultRegistry(t)
	for _, name := range first.Names() {
		a, _ := first.Resolve(name)
		b, _ := second.Resolve(name)
		sa, err := a.BuildSuite()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		sb, err := b.BuildSuite()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		da, err := fixture.Marshal(sa)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		db, err := fixture.Marshal(sb)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		if string(da) != string(db) {
			t.Fatalf("%s: suite output not deterministic", name)
		}
	}
}

func TestPingSuite(t *testing.T) {
	testlog.Start(t)
	suite := buildSuite(t, protocol.OpPing)
	if len(suite.Tests) != 3 {
		t.Fatalf("expected 3 ping cases, got %d", len(suite.Tests))
	}

	normal := suite.Tests[0]
	if normal.Name != "normal_response" || !normal.ExpectSuccess {
		t.Fatalf("unexpected first case: %+v", normal)
	}
	want := map[string]any{"major": uint8(1), "minor": uint8(0)}
	if !reflect.DeepEqual(normal.ExpectedResponse, want) {
		t.Fatalf("unexpected ping response %#v", normal.ExpectedResponse)
	}
	if normal.ExpectedRequestBinary != "EKfAXh4AAQAAAAAAAAAAAAAAAAAAAAAAAAAAAAEAAAAAAAAA" {
		t.Fatalf("ping request mismatch: %s", normal.ExpectedRequestBinary)
	}

	nonStandard := suite.Tests[1]
	if nonStandard.Name != "non standard version" || !nonStandard.ExpectSuccess {
		t.Fatalf("unexpected second case: %+v", nonStandard)
	}

	fail := suite.Tests[2]
	if fail.ExpectSuccess {
		t.Fatalf("failure case must not expect success")
	}
	if !reflect.DeepEqual(fail.ExpectedResponse, map[string]any{}) {
		t.Fatalf("failure case should expect {}, got %#v", fail.ExpectedResponse)
	}
	raw, err := base64.StdEncoding.DecodeString(fail.ResponseBinary)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	if len(raw) != protocol.FixedHeaderLen || raw[32] != byte(status.WireProtocolVersionNotSupported) {
		t.Fatalf("unexpected failure frame % x", raw)
	}
}

func TestListProvidersExpectsCanonicalUUIDs(t *testing.T) {
	testlog.Start(t)
	suite := buildSuite(t, protocol.OpListProviders)
	doc, err := fixture.Marshal(suite)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var emitted fixture.Suite
	if err := json.Unmarshal(doc, &emitted); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}

	normal := emitted.Tests[0]
	if normal.Name != "normal_response" || !normal.ExpectSuccess {
		t.Fatalf("unexpected first case: %+v", normal)
	}
	list, ok := normal.ExpectedResponse.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected two provider records, got %#v", normal.ExpectedResponse)
	}
	wantUUIDs := []string{
		"7b344de6-69c3-4c1c-91ce-5cb4998205b8",
		"9ac52be8-4b9c-4d20-9a6f-a2d56f447464",
	}
	for i, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("record %d is not an object: %#v", i, item)
		}
		got, _ := record["uuid"].(string)
		if len(got) != 36 || got != strings.ToLower(got) || strings.Count(got, "-") != 4 {
			t.Fatalf("record %d uuid not canonical: %q", i, got)
		}
		if got != wantUUIDs[i] {
			t.Fatalf("record %d uuid mismatch: got %q want %q", i, got, wantUUIDs[i])
		}
		if got != knownProviders[i].UUID.String() {
			t.Fatalf("record %d uuid does not match source %s", i, knownProviders[i].UUID)
		}
	}
	logs.Logf("providers/list_providers: %d records with canonical uuids", len(list))
}

func TestListSuitesFailWithEmptyList(t *testing.T) {
	testlog.Start(t)
	for _, op := range []protocol.Opcode{
		protocol.OpListProviders,
		protocol.OpListOpcodes,
		protocol.OpListAuthenticators,
		protocol.OpListKeys,
		protocol.OpListClients,
	} {
		for _, c := range buildSuite(t, op).Tests {
			if c.ExpectSuccess {
				continue
			}
			if !reflect.DeepEqual(c.ExpectedResponse, []any{}) {
				t.Fatalf("%s: failure should expect [], got %#v", op, c.ExpectedResponse)
			}
		}
	}
}

func TestListAuthenticatorsFailureCase(t *testing.T) {
	testlog.Start(t)
	suite := buildSuite(t, protocol.OpListAuthenticators)
	if len(suite.Tests) != 2 || suite.Tests[1].Name != "failing response" {
		t.Fatalf("unexpected cases: %+v", suite.Tests)
	}
	raw, err := base64.StdEncoding.DecodeString(suite.Tests[1].ResponseBinary)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	if raw[32] != 0x6e || raw[33] != 0x04 {
		t.Fatalf("status bytes mismatch: % x", raw[32:34])
	}
}

func TestAeadDecryptFailureExpectsFailure(t *testing.T) {
	testlog.Start(t)
	suite := buildSuite(t, protocol.OpPsaAeadDecrypt)
	if suite.OpCode != protocol.OpPsaAeadDecrypt {
		t.Fatalf("unexpected op_code %d", uint32(suite.OpCode))
	}
	if !reflect.DeepEqual(suite.Tests[0].ExpectedResponse, map[string]any{"plaintext": "plaintext"}) {
		t.Fatalf("unexpected success response %#v", suite.Tests[0].ExpectedResponse)
	}
	if suite.Tests[1].ExpectSuccess {
		t.Fatalf("failure case must not expect success")
	}
	if suite.Tests[0].ExpectedRequestBinary != suite.Tests[1].ExpectedRequestBinary {
		t.Fatalf("both cases should carry the same request")
	}
}
