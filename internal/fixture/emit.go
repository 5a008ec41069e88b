package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	logs "github.com/danmuck/parsecgen/internal/logging"
)

//go:embed schema.json
var suiteSchema []byte

var ErrSchemaViolation = errors.New("fixture: artifact violates suite schema")

// Emitter writes suites as <Dir>/<opcode name>.json.
type Emitter struct {
	Dir string
}

// Path returns the artifact path for s.
func (e Emitter) Path(s Suite) (string, error) {
	name := s.OpCode.Name()
	if name == "" {
		return "", fmt.Errorf("fixture: no artifact name for %s", s.OpCode)
	}
	return filepath.Join(e.Dir, name+".json"), nil
}

// Marshal renders s as pretty-printed JSON with two-space indentation and no
// HTML escaping.
func Marshal(s Suite) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("fixture: encode %s: %w", s.OpCode, err)
	}
	return buf.Bytes(), nil
}

// Validate checks an artifact document against the embedded suite schema.
func Validate(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(suiteSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
	}
	return nil
}

// Emit validates and writes s. The artifact appears under its final name
// only once it is fully written.
func (e Emitter) Emit(s Suite) (string, error) {
	path, err := e.Path(s)
	if err != nil {
		return "", err
	}
	doc, err := Marshal(s)
	if err != nil {
		return "", err
	}
	if err := Validate(doc); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("fixture: create output dir: %w", err)
	}
	if err := writeAtomic(path, doc); err != nil {
		return "", err
	}
	logs.Debugf("fixture.Emit wrote %s (%d cases, %d bytes)", path, len(s.Tests), len(doc))
	return path, nil
}

// Load reads and schema-validates an artifact.
func (e Emitter) Load(path string) (Suite, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	if err := Validate(doc); err != nil {
		return Suite{}, fmt.Errorf("%s: %w", path, err)
	}
	var s Suite
	if err := json.Unmarshal(doc, &s); err != nil {
		return Suite{}, fmt.Errorf("fixture: decode %s: %w", path, err)
	}
	return s, nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("fixture: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("fixture: write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("fixture: sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("fixture: close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("fixture: chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("fixture: rename %s: %w", path, err)
	}
	return nil
}
