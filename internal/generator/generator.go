// Package generator runs the fixture providers and checks emitted artifacts.
package generator

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/parsecgen/internal/codec"
	"github.com/danmuck/parsecgen/internal/config"
	"github.com/danmuck/parsecgen/internal/fixture"
	logs "github.com/danmuck/parsecgen/internal/logging"
	"github.com/danmuck/parsecgen/internal/observability"
	"github.com/danmuck/parsecgen/internal/protocol"
	"github.com/danmuck/parsecgen/internal/protocol/frame"
	"github.com/danmuck/parsecgen/internal/providers"
)

var (
	ErrUnknownSuite   = errors.New("generator: unknown suite")
	ErrOpcodeMismatch = errors.New("generator: suite op_code does not match provider")
	ErrVerify         = errors.New("generator: artifact verification failed")
)

// Run builds and emits the selected suites, all of them in name order when
// cfg.Only is empty. Every suite is built and checked before anything is
// written, and artifacts are staged next to cfg.OutputDir and moved into
// place only once the whole set has been emitted. A failed run leaves no new
// artifact behind.
func Run(cfg config.GeneratorConfig, registry *providers.Registry) ([]string, error) {
	selected, err := selectProviders(cfg.Only, registry)
	if err != nil {
		return nil, err
	}

	suites := make([]fixture.Suite, 0, len(selected))
	for _, p := range selected {
		suite, err := buildOne(p)
		if err != nil {
			observability.RecordSuite(p.Name(), "generate", err)
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
		suites = append(suites, suite)
	}

	parent := filepath.Dir(filepath.Clean(cfg.OutputDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("generator: create %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, ".parsecgen-*")
	if err != nil {
		return nil, fmt.Errorf("generator: create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	stager := fixture.Emitter{Dir: staging}
	staged := make([]string, 0, len(suites))
	for i, suite := range suites {
		path, err := stager.Emit(suite)
		if err != nil {
			observability.RecordSuite(selected[i].Name(), "generate", err)
			return nil, fmt.Errorf("%s: %w", selected[i].Name(), err)
		}
		staged = append(staged, path)
	}

	written, err := publish(staged, cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	for i, suite := range suites {
		name := selected[i].Name()
		observability.RecordSuite(name, "generate", nil)
		recordArtifact(name, suite, written[i])
		logs.Infof("generator wrote %s (%d cases)", written[i], len(suite.Tests))
	}
	return written, nil
}

func buildOne(p providers.Provider) (fixture.Suite, error) {
	suite, err := p.BuildSuite()
	if err != nil {
		return fixture.Suite{}, err
	}
	if suite.OpCode != p.Opcode() {
		return fixture.Suite{}, fmt.Errorf("%w: got %d want %d", ErrOpcodeMismatch, uint32(suite.OpCode), uint32(p.Opcode()))
	}
	if err := suite.CheckCoverage(); err != nil {
		return fixture.Suite{}, err
	}
	return suite, nil
}

// publish moves staged artifacts into dir. On failure the artifacts already
// moved by this call are removed again.
func publish(staged []string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("generator: create output dir: %w", err)
	}
	written := make([]string, 0, len(staged))
	for _, src := range staged {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := os.Rename(src, dst); err != nil {
			for _, path := range written {
				if rerr := os.Remove(path); rerr != nil {
					logs.Warnf("generator rollback %s: %v", path, rerr)
				}
			}
			return nil, fmt.Errorf("generator: publish %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

func recordArtifact(name string, suite fixture.Suite, path string) {
	var successes int
	for _, c := range suite.Tests {
		if c.ExpectSuccess {
			successes++
		}
	}
	var size int
	if info, err := os.Stat(path); err == nil {
		size = int(info.Size())
	}
	observability.RecordArtifact(name, successes, len(suite.Tests)-successes, size)
}

// Verify re-reads the selected artifacts from cfg.OutputDir and checks every
// case frame against the header rules and the body decoders.
func Verify(cfg config.GeneratorConfig, registry *providers.Registry, codecs *codec.Registry) error {
	selected, err := selectProviders(cfg.Only, registry)
	if err != nil {
		return err
	}
	emitter := fixture.Emitter{Dir: cfg.OutputDir}
	for _, p := range selected {
		err := verifyOne(emitter, p, codecs)
		observability.RecordSuite(p.Name(), "verify", err)
		if err != nil {
			return err
		}
	}
	return nil
}

func verifyOne(emitter fixture.Emitter, p providers.Provider, codecs *codec.Registry) error {
	path, err := emitter.Path(fixture.Suite{OpCode: p.Opcode()})
	if err != nil {
		return err
	}
	suite, err := emitter.Load(path)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	if suite.OpCode != p.Opcode() {
		return fmt.Errorf("%s: %w: got %d want %d", path, ErrOpcodeMismatch, uint32(suite.OpCode), uint32(p.Opcode()))
	}
	if err := suite.CheckCoverage(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, c := range suite.Tests {
		if err := verifyCase(suite.OpCode, c, codecs); err != nil {
			return fmt.Errorf("%s: case %q: %w", path, c.Name, err)
		}
	}
	logs.Debugf("generator verified %s (%d cases)", path, len(suite.Tests))
	return nil
}

func verifyCase(op protocol.Opcode, c fixture.Case, codecs *codec.Registry) error {
	limits := frame.DefaultLimits()

	raw, err := base64.StdEncoding.DecodeString(c.ExpectedRequestBinary)
	if err != nil {
		return fmt.Errorf("%w: request binary: %v", ErrVerify, err)
	}
	r := bytes.NewReader(raw)
	req, err := frame.ReadRequest(r, limits)
	if err != nil {
		return fmt.Errorf("%w: request frame: %v", ErrVerify, err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: request has %d trailing bytes", ErrVerify, r.Len())
	}
	h := req.Header
	switch {
	case h.Opcode != op:
		return fmt.Errorf("%w: request opcode %s", ErrVerify, h.Opcode)
	case h.Provider != fixture.RequestProvider:
		return fmt.Errorf("%w: request provider %s", ErrVerify, h.Provider)
	case h.ContentType != protocol.BodyProtobuf || h.AcceptType != protocol.BodyProtobuf:
		return fmt.Errorf("%w: request body types %d/%d", ErrVerify, h.ContentType, h.AcceptType)
	case h.AuthType != protocol.AuthNoAuth || len(req.Auth) != 0:
		return fmt.Errorf("%w: request carries authentication", ErrVerify)
	}
	if _, err := codecs.DecodeOperation(op, req.Body); err != nil {
		return fmt.Errorf("%w: request body: %v", ErrVerify, err)
	}

	raw, err = base64.StdEncoding.DecodeString(c.ResponseBinary)
	if err != nil {
		return fmt.Errorf("%w: response binary: %v", ErrVerify, err)
	}
	r = bytes.NewReader(raw)
	resp, err := frame.ReadResponse(r, limits)
	if err != nil {
		return fmt.Errorf("%w: response frame: %v", ErrVerify, err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: response has %d trailing bytes", ErrVerify, r.Len())
	}
	rh := resp.Header
	switch {
	case rh.Opcode != op:
		return fmt.Errorf("%w: response opcode %s", ErrVerify, rh.Opcode)
	case rh.Provider != fixture.ResponseProvider:
		return fmt.Errorf("%w: response provider %s", ErrVerify, rh.Provider)
	case rh.ContentType != protocol.BodyProtobuf:
		return fmt.Errorf("%w: response content type %d", ErrVerify, rh.ContentType)
	}
	if !rh.Status.Success() {
		if c.ExpectSuccess {
			return fmt.Errorf("%w: status %q with expect_success", ErrVerify, rh.Status)
		}
		if len(resp.Body) != 0 {
			return fmt.Errorf("%w: failing status carries %d body bytes", ErrVerify, len(resp.Body))
		}
		entry, ok := codecs.Lookup(op)
		if !ok {
			return fmt.Errorf("%w: %w: %s", ErrVerify, codec.ErrUnknownOpcode, op)
		}
		if !entry.Shape.IsEmpty(c.ExpectedResponse) {
			return fmt.Errorf("%w: failing status must expect an empty %s", ErrVerify, entry.Shape)
		}
		return nil
	}
	if _, err := codecs.DecodeResult(op, resp.Body); err != nil {
		return fmt.Errorf("%w: response body: %v", ErrVerify, err)
	}
	return nil
}

func selectProviders(only []string, registry *providers.Registry) ([]providers.Provider, error) {
	if len(only) == 0 {
		return registry.List(), nil
	}
	out := make([]providers.Provider, 0, len(only))
	for _, name := range config.NormalizeNames(only) {
		p, ok := registry.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
		}
		out = append(out, p)
	}
	return out, nil
}
