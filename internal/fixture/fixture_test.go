package fixture

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/status"
	"github.com/danmuck/parsecgen/internal/testutil/testlog"
)

func newBuilder() *Builder {
	return NewBuilder(operations.NewRegistry())
}

func decode64(t *testing.T, s string) []byte {
	t.Helper()
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	return b
}

func TestPingNormalResponse(t *testing.T) {
	testlog.Start(t)
	c, err := newBuilder().Case(Scenario{
		Name:             "normal_response",
		Operation:        operations.PingOperation{},
		Status:           status.Success,
		Result:           operations.PingResult{VersionMajor: 1, VersionMinor: 0},
		ExpectedResponse: map[string]any{"major": 1, "minor": 0},
		ExpectSuccess:    true,
	})
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	req := decode64(t, c.ExpectedRequestBinary)
	if len(req) != protocol.FixedHeaderLen {
		t.Fatalf("ping request should be header only, got %d bytes", len(req))
	}
	if binary.LittleEndian.Uint32(req[0:4]) != protocol.Magic {
		t.Fatalf("bad magic % x", req[0:4])
	}
	if req[10] != byte(protocol.ProviderCore) || binary.LittleEndian.Uint32(req[28:32]) != 1 {
		t.Fatalf("unexpected provider/opcode: provider=%d opcode=% x", req[10], req[28:32])
	}
	if binary.LittleEndian.Uint32(req[22:26]) != 0 || binary.LittleEndian.Uint16(req[26:28]) != 0 {
		t.Fatalf("ping request must have empty body and auth")
	}

	resp := decode64(t, c.ResponseBinary)
	if resp[10] != byte(protocol.ProviderMbedCrypto) {
		t.Fatalf("response provider must be mbed crypto, got %d", resp[10])
	}
	if binary.LittleEndian.Uint16(resp[32:34]) != 0 {
		t.Fatalf("response status must be success")
	}
	if got := resp[protocol.FixedHeaderLen:]; string(got) != "\x08\x01" {
		t.Fatalf("unexpected ping body % x", got)
	}
	if rd, ok := c.RequestData.(map[string]any); !ok || len(rd) != 0 {
		t.Fatalf("request data should default to {}, got %#v", c.RequestData)
	}
}

func TestListAuthenticatorsFailure(t *testing.T) {
	testlog.Start(t)
	c, err := newBuilder().Case(Scenario{
		Name:      "failing response",
		Operation: operations.ListAuthenticatorsOperation{},
		Status:    status.PsaErrorNotSupported,
	})
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	resp := decode64(t, c.ResponseBinary)
	if len(resp) != protocol.FixedHeaderLen {
		t.Fatalf("failing response must carry no body, got %d bytes", len(resp))
	}
	if binary.LittleEndian.Uint16(resp[32:34]) != 1134 {
		t.Fatalf("expected status 1134, got %d", binary.LittleEndian.Uint16(resp[32:34]))
	}
	if list, ok := c.ExpectedResponse.([]any); !ok || len(list) != 0 {
		t.Fatalf("expected empty list, got %#v", c.ExpectedResponse)
	}
	if c.ExpectSuccess {
		t.Fatalf("failing case must not expect success")
	}
}

func TestListProvidersBodyCarriesBothRecords(t *testing.T) {
	testlog.Start(t)
	result := operations.ListProvidersResult{Providers: []operations.ProviderInfo{
		{UUID: uuid.MustParse("7b344de6-69c3-4c1c-91ce-5cb4998205b8"), Description: "mbed crypto", Vendor: "vendor", VersionMaj: 1, VersionMin: 13, VersionRev: 23, ID: protocol.ProviderMbedCrypto},
		{UUID: uuid.MustParse("9ac52be8-4b9c-4d20-9a6f-a2d56f447464"), Description: "tpm", Vendor: "tpm vendor", VersionMaj: 2, VersionMin: 43, VersionRev: 3, ID: protocol.ProviderTpm},
	}}
	b := newBuilder()
	c, err := b.Case(Scenario{
		Name:             "normal_response",
		Operation:        operations.ListProvidersOperation{},
		Status:           status.Success,
		Result:           result,
		ExpectedResponse: []any{
			map[string]any{"uuid": result.Providers[0].UUID.String()},
			map[string]any{"uuid": result.Providers[1].UUID.String()},
		},
		ExpectSuccess: true,
	})
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	resp := decode64(t, c.ResponseBinary)
	got, err := b.Codecs().DecodeResult(protocol.OpListProviders, resp[protocol.FixedHeaderLen:])
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	providers := got.(operations.ListProvidersResult).Providers
	if len(providers) != 2 || providers[1].UUID.String() != "9ac52be8-4b9c-4d20-9a6f-a2d56f447464" {
		t.Fatalf("unexpected providers %+v", providers)
	}
	list := c.ExpectedResponse.([]any)
	if got := list[1].(map[string]any)["uuid"]; got != "9ac52be8-4b9c-4d20-9a6f-a2d56f447464" {
		t.Fatalf("expected response uuid mismatch: %v", got)
	}
	if int(binary.LittleEndian.Uint32(resp[22:26])) != len(resp)-protocol.FixedHeaderLen {
		t.Fatalf("body length field does not match body")
	}
}

func TestCaseIsDeterministic(t *testing.T) {
	b := newBuilder()
	s := Scenario{
		Name:             "normal_response",
		Operation:        operations.ListOpcodesOperation{ProviderID: protocol.ProviderMbedCrypto},
		RequestData:      map[string]any{"provider_id": 1},
		Status:           status.Success,
		Result:           operations.ListOpcodesResult{Opcodes: []protocol.Opcode{18, 17, 3}},
		ExpectedResponse: []uint32{18, 17, 3},
		ExpectSuccess:    true,
	}
	a, err := b.Case(s)
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	c, err := b.Case(s)
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	if a.ExpectedRequestBinary != c.ExpectedRequestBinary || a.ResponseBinary != c.ResponseBinary {
		t.Fatalf("case output not deterministic")
	}
}

func TestCaseInvariants(t *testing.T) {
	b := newBuilder()
	ok := operations.ListKeysResult{}
	cases := []struct {
		name string
		s    Scenario
	}{
		{"empty name", Scenario{Operation: operations.ListKeysOperation{}, Result: ok, ExpectedResponse: []any{}, ExpectSuccess: true}},
		{"failure with result", Scenario{Name: "x", Operation: operations.ListKeysOperation{}, Status: status.WrongProviderID, Result: ok}},
		{"failure expecting success", Scenario{Name: "x", Operation: operations.ListKeysOperation{}, Status: status.WrongProviderID, ExpectSuccess: true}},
		{"failure with data", Scenario{Name: "x", Operation: operations.ListKeysOperation{}, Status: status.WrongProviderID, ExpectedResponse: []string{"key1"}}},
		{"failure with wrong shape", Scenario{Name: "x", Operation: operations.ListKeysOperation{}, Status: status.WrongProviderID, ExpectedResponse: map[string]any{}}},
		{"success without result", Scenario{Name: "x", Operation: operations.ListKeysOperation{}, ExpectedResponse: []any{}, ExpectSuccess: true}},
	}
	for _, tc := range cases {
		_, err := b.Case(tc.s)
		var inv *InvariantError
		if !errors.Is(err, ErrInvariant) || !errors.As(err, &inv) {
			t.Fatalf("%s: expected InvariantError, got %v", tc.name, err)
		}
	}
}

func TestCaseKindMismatch(t *testing.T) {
	_, err := newBuilder().Case(Scenario{
		Name:             "x",
		Operation:        operations.PingOperation{},
		Result:           operations.ListKeysResult{},
		ExpectedResponse: map[string]any{},
		ExpectSuccess:    true,
	})
	if !errors.Is(err, codec.ErrKindMismatch) {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
}

func TestSuccessMayExpectFailure(t *testing.T) {
	c, err := newBuilder().Case(Scenario{
		Name:             "client rejects version",
		Operation:        operations.PingOperation{},
		Result:           operations.PingResult{VersionMajor: 3, VersionMinor: 1},
		ExpectedResponse: map[string]any{"major": 3, "minor": 1},
	})
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	if c.ExpectSuccess {
		t.Fatalf("expect_success should be preserved as false")
	}
}

func TestNewSuiteRejectsDuplicatesAndEmpty(t *testing.T) {
	if _, err := NewSuite(protocol.OpPing); !errors.Is(err, ErrEmptySuite) {
		t.Fatalf("expected ErrEmptySuite, got %v", err)
	}
	_, err := NewSuite(protocol.OpPing, Case{Name: "a"}, Case{Name: "b"}, Case{Name: "a"})
	var dup *DuplicateCaseError
	if !errors.Is(err, ErrDuplicateCase) || !errors.As(err, &dup) || dup.Name != "a" {
		t.Fatalf("expected duplicate case a, got %v", err)
	}
}

func TestCheckCoverage(t *testing.T) {
	s, err := NewSuite(protocol.OpPing, Case{Name: "a", ExpectSuccess: true})
	if err != nil {
		t.Fatalf("suite: %v", err)
	}
	if err := s.CheckCoverage(); !errors.Is(err, ErrIncompleteSuite) {
		t.Fatalf("expected ErrIncompleteSuite, got %v", err)
	}
	s.Tests = append(s.Tests, Case{Name: "b"})
	if err := s.CheckCoverage(); err != nil {
		t.Fatalf("coverage: %v", err)
	}
}

func pingSuite(t *testing.T) Suite {
	t.Helper()
	b := newBuilder()
	good, err := b.Case(Scenario{
		Name:             "normal_response",
		Operation:        operations.PingOperation{},
		Result:           operations.PingResult{VersionMajor: 1},
		ExpectedResponse: map[string]any{"major": 1, "minor": 0},
		ExpectSuccess:    true,
	})
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	bad, err := b.Case(Scenario{Name: "<denied>", Operation: operations.PingOperation{}, Status: status.AuthenticationError})
	if err != nil {
		t.Fatalf("case: %v", err)
	}
	s, err := NewSuite(protocol.OpPing, good, bad)
	if err != nil {
		t.Fatalf("suite: %v", err)
	}
	return s
}

func TestEmitWritesCanonicalJSON(t *testing.T) {
	testlog.Start(t)
	dir := filepath.Join(t.TempDir(), "data")
	e := Emitter{Dir: dir}
	path, err := e.Emit(pingSuite(t))
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if path != filepath.Join(dir, "ping.json") {
		t.Fatalf("unexpected path %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc := string(raw)
	if !strings.HasPrefix(doc, "{\n  \"op_code\": 1,\n  \"tests\": [\n    {\n      \"name\": \"normal_response\",") {
		t.Fatalf("unexpected layout:\n%s", doc)
	}
	if !strings.Contains(doc, `"name": "<denied>"`) {
		t.Fatalf("html characters must not be escaped:\n%s", doc)
	}
	if !strings.Contains(doc, `"expected_response": {},`) && !strings.Contains(doc, `"expected_response": {}`) {
		t.Fatalf("failing object case should expect {}:\n%s", doc)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}

	again, err := Marshal(pingSuite(t))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(again) != doc {
		t.Fatalf("emission not deterministic")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	e := Emitter{Dir: t.TempDir()}
	in := pingSuite(t)
	path, err := e.Emit(in)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	out, err := e.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.OpCode != in.OpCode || len(out.Tests) != len(in.Tests) {
		t.Fatalf("loaded suite mismatch: %+v", out)
	}
	for i := range in.Tests {
		if out.Tests[i].Name != in.Tests[i].Name ||
			out.Tests[i].ExpectedRequestBinary != in.Tests[i].ExpectedRequestBinary ||
			out.Tests[i].ResponseBinary != in.Tests[i].ResponseBinary ||
			out.Tests[i].ExpectSuccess != in.Tests[i].ExpectSuccess {
			t.Fatalf("case %d mismatch: %+v", i, out.Tests[i])
		}
	}
}

func TestEmitFailureLeavesNoArtifact(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "data")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := (Emitter{Dir: blocker}).Emit(pingSuite(t)); err == nil {
		t.Fatalf("expected emit to fail when output dir is a file")
	}
}

func TestValidateRejectsMalformedDocuments(t *testing.T) {
	bad := []string{
		`{"op_code": 1}`,
		`{"op_code": 1, "tests": []}`,
		`{"op_code": 1, "tests": [{"name": "a"}]}`,
		`{"op_code": 1, "tests": [{"name": "a", "request_data": {}, "expected_request_binary": "!!", "response_binary": "", "expected_response": {}, "expect_success": true}]}`,
	}
	for _, doc := range bad {
		if err := Validate([]byte(doc)); !errors.Is(err, ErrSchemaViolation) {
			t.Fatalf("expected schema violation for %s, got %v", doc, err)
		}
	}
}
