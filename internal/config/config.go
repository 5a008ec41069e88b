package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/parsecgen/internal/protocol"
)

// DefaultOutputDir is where the client test suite expects its data files.
const DefaultOutputDir = "interface/operations/test/data"

type GeneratorConfig struct {
	OutputDir string   `toml:"output_dir"`
	Only      []string `toml:"only"`
	Verify    bool     `toml:"verify"`
	LogLevel  string   `toml:"log_level"`
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{OutputDir: DefaultOutputDir}
}

func LoadGeneratorConfig(path string) (GeneratorConfig, error) {
	cfg := DefaultGeneratorConfig()
	if err := loadToml(path, &cfg); err != nil {
		return GeneratorConfig{}, err
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	cfg.Only = NormalizeNames(cfg.Only)
	if err := ValidateGeneratorConfig(cfg); err != nil {
		return GeneratorConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateGeneratorConfig(cfg GeneratorConfig) error {
	dir := strings.TrimSpace(cfg.OutputDir)
	if dir == "" {
		return fmt.Errorf("generator config missing output_dir")
	}
	if filepath.Clean(dir) == string(filepath.Separator) {
		return fmt.Errorf("generator config output_dir must not be the filesystem root")
	}
	for i, name := range cfg.Only {
		if _, ok := protocol.OpcodeByName(name); !ok {
			return fmt.Errorf("only[%d] invalid: unknown suite %q", i, name)
		}
	}
	return nil
}

// NormalizeNames trims entries and drops blanks and repeats, keeping order.
func NormalizeNames(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, name := range in {
		v := strings.TrimSpace(name)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
