package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/config"
	"github.com/danmuck/parsecgen/internal/fixture"
	logs "github.com/danmuck/parsecgen/internal/logging"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/providers"
	"github.com/danmuck/parsecgen/internal/testutil/testlog"
)

type stubProvider struct {
	op    protocol.Opcode
	suite fixture.Suite
	err   error
}

func (p stubProvider) Name() string                       { return p.op.Name() }
func (p stubProvider) Opcode() protocol.Opcode            { return p.op }
func (p stubProvider) BuildSuite() (fixture.Suite, error) { return p.suite, p.err }

func setup(t *testing.T) (config.GeneratorConfig, *providers.Registry, *codec.Registry) {
	t.Helper()
	codecs := operations.NewRegistry()
	registry, err := providers.Default(fixture.NewBuilder(codecs))
	if err != nil {
		t.Fatalf("default providers: %v", err)
	}
	cfg := config.DefaultGeneratorConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "data")
	return cfg, registry, codecs
}

func TestRunWritesEverySuiteAndVerifies(t *testing.T) {
	testlog.Start(t)
	cfg, registry, codecs := setup(t)

	written, err := Run(cfg, registry)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(written) != 28 {
		t.Fatalf("expected 28 artifacts, got %d", len(written))
	}
	for op := protocol.OpPing; op <= protocol.OpDeleteClient; op++ {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, op.Name()+".json")); err != nil {
			t.Fatalf("missing artifact for %s: %v", op, err)
		}
	}
	if err := Verify(cfg, registry, codecs); err != nil {
		t.Fatalf("verify: %v", err)
	}
	logs.Logf("generator/run: wrote %d artifacts to %s", len(written), cfg.OutputDir)
}

func TestRunIsByteStable(t *testing.T) {
	testlog.Start(t)
	cfg, registry, _ := setup(t)
	cfg.Only = []string{"psa_sign_hash"}

	if _, err := Run(cfg, registry); err != nil {
		t.Fatalf("first run: %v", err)
	}
	path := filepath.Join(cfg.OutputDir, "psa_sign_hash.json")
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if _, err := Run(cfg, registry); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("artifact changed between runs")
	}
}

func TestRunOnlySelectsSuites(t *testing.T) {
	testlog.Start(t)
	cfg, registry, _ := setup(t)
	cfg.Only = []string{"ping", "list_keys"}

	written, err := Run(cfg, registry)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(written) != 2 || filepath.Base(written[0]) != "ping.json" || filepath.Base(written[1]) != "list_keys.json" {
		t.Fatalf("unexpected artifacts: %+v", written)
	}

	cfg.Only = []string{"psa_teleport"}
	if _, err := Run(cfg, registry); !errors.Is(err, ErrUnknownSuite) {
		t.Fatalf("expected ErrUnknownSuite, got %v", err)
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	testlog.Start(t)
	cfg, _, _ := setup(t)
	boom := errors.New("boom")
	registry := providers.NewRegistry()
	if err := registry.Register(stubProvider{op: protocol.OpListKeys, err: boom}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubProvider{op: protocol.OpPing}); err != nil {
		t.Fatalf("register: %v", err)
	}

	written, err := Run(cfg, registry)
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(written) != 0 {
		t.Fatalf("nothing should be written, got %+v", written)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "ping.json")); !os.IsNotExist(err) {
		t.Fatalf("ping.json must not exist after abort: %v", err)
	}
}

// assertNothingWritten checks that neither the output dir nor a staging dir
// survived a failed run.
func assertNothingWritten(t *testing.T, cfg config.GeneratorConfig) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "ping.json")); !os.IsNotExist(err) {
		t.Fatalf("ping.json must not exist after abort: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(cfg.OutputDir))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(cfg.OutputDir) {
			t.Fatalf("leftover entry after abort: %s", e.Name())
		}
	}
}

func TestRunLeavesNoArtifactsWhenLaterSuiteFails(t *testing.T) {
	testlog.Start(t)
	cfg, defaults, _ := setup(t)
	ping, ok := defaults.Resolve("ping")
	if !ok {
		t.Fatalf("ping provider missing")
	}
	registry := providers.NewRegistry()
	if err := registry.Register(ping); err != nil {
		t.Fatalf("register: %v", err)
	}
	boom := errors.New("boom")
	if err := registry.Register(stubProvider{op: protocol.OpPsaSignHash, err: boom}); err != nil {
		t.Fatalf("register: %v", err)
	}

	written, err := Run(cfg, registry)
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(written) != 0 {
		t.Fatalf("nothing should be reported written, got %+v", written)
	}
	assertNothingWritten(t, cfg)
}

func TestRunLeavesNoArtifactsWhenLaterEmitFails(t *testing.T) {
	testlog.Start(t)
	cfg, defaults, _ := setup(t)
	ping, _ := defaults.Resolve("ping")
	registry := providers.NewRegistry()
	if err := registry.Register(ping); err != nil {
		t.Fatalf("register: %v", err)
	}
	// not base64, so the suite passes coverage but fails schema validation
	broken := fixture.Suite{
		OpCode: protocol.OpPsaSignHash,
		Tests: []fixture.Case{
			{Name: "normal_response", RequestData: map[string]any{}, ExpectedRequestBinary: "!!", ExpectedResponse: map[string]any{}, ExpectSuccess: true},
			{Name: "fail response", RequestData: map[string]any{}, ExpectedRequestBinary: "!!", ExpectedResponse: map[string]any{}},
		},
	}
	if err := registry.Register(stubProvider{op: protocol.OpPsaSignHash, suite: broken}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := Run(cfg, registry); !errors.Is(err, fixture.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
	assertNothingWritten(t, cfg)
}

func TestRunRejectsOpcodeMismatch(t *testing.T) {
	testlog.Start(t)
	cfg, _, _ := setup(t)
	registry := providers.NewRegistry()
	bad := stubProvider{op: protocol.OpPing, suite: fixture.Suite{OpCode: protocol.OpListKeys}}
	if err := registry.Register(bad); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := Run(cfg, registry); !errors.Is(err, ErrOpcodeMismatch) {
		t.Fatalf("expected ErrOpcodeMismatch, got %v", err)
	}
}

func TestRunRejectsIncompleteSuite(t *testing.T) {
	testlog.Start(t)
	cfg, _, _ := setup(t)
	registry := providers.NewRegistry()
	onlySuccess := fixture.Suite{
		OpCode: protocol.OpPing,
		Tests:  []fixture.Case{{Name: "normal_response", ExpectSuccess: true}},
	}
	if err := registry.Register(stubProvider{op: protocol.OpPing, suite: onlySuccess}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := Run(cfg, registry); !errors.Is(err, fixture.ErrIncompleteSuite) {
		t.Fatalf("expected ErrIncompleteSuite, got %v", err)
	}
}

func TestVerifyCatchesTamperedArtifact(t *testing.T) {
	testlog.Start(t)
	cfg, registry, codecs := setup(t)
	cfg.Only = []string{"list_authenticators"}
	if _, err := Run(cfg, registry); err != nil {
		t.Fatalf("run: %v", err)
	}

	emitter := fixture.Emitter{Dir: cfg.OutputDir}
	path := filepath.Join(cfg.OutputDir, "list_authenticators.json")
	suite, err := emitter.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// A ping request frame does not belong in this suite.
	suite.Tests[0].ExpectedRequestBinary = "EKfAXh4AAQAAAAAAAAAAAAAAAAAAAAAAAAAAAAEAAAAAAAAA"
	if _, err := emitter.Emit(suite); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := Verify(cfg, registry, codecs); !errors.Is(err, ErrVerify) {
		t.Fatalf("expected ErrVerify, got %v", err)
	}

	suite.Tests[0].ExpectedRequestBinary = suite.Tests[1].ExpectedRequestBinary
	suite.Tests[1].ResponseBinary = "EKfAXh4AAQAAAAEAAAAAAAAAAAAAAAAAAAAAAA4AAABuBAAA"
	suite.Tests[1].ExpectSuccess = false
	if _, err := emitter.Emit(suite); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := Verify(cfg, registry, codecs); err != nil {
		t.Fatalf("restored artifact should verify: %v", err)
	}
}

func TestVerifyMissingArtifact(t *testing.T) {
	testlog.Start(t)
	cfg, registry, codecs := setup(t)
	cfg.Only = []string{"ping"}
	if err := Verify(cfg, registry, codecs); err == nil {
		t.Fatalf("expected missing artifact error")
	}
}

func TestVerifyRejectsFailingCaseWithData(t *testing.T) {
	testlog.Start(t)
	cfg, registry, codecs := setup(t)
	cfg.Only = []string{"list_keys"}
	if _, err := Run(cfg, registry); err != nil {
		t.Fatalf("run: %v", err)
	}

	emitter := fixture.Emitter{Dir: cfg.OutputDir}
	path := filepath.Join(cfg.OutputDir, "list_keys.json")
	suite, err := emitter.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := range suite.Tests {
		if !suite.Tests[i].ExpectSuccess {
			suite.Tests[i].ExpectedResponse = []any{map[string]any{"name": "key1", "provider_id": 5}}
		}
	}
	if _, err := emitter.Emit(suite); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := Verify(cfg, registry, codecs); !errors.Is(err, ErrVerify) {
		t.Fatalf("expected ErrVerify, got %v", err)
	}
}
