package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/parsecgen/internal/config"
)

type fileConfig struct {
	OutputDir string   `toml:"output_dir"`
	Only      []string `toml:"only"`
	Verify    bool     `toml:"verify"`
	LogLevel  string   `toml:"log_level"`
}

// loadRunConfig overlays the keys present in path onto the defaults.
func loadRunConfig(path string) (config.GeneratorConfig, error) {
	cfg := config.DefaultGeneratorConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.GeneratorConfig{}, fmt.Errorf("load parsecgen config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config.GeneratorConfig{}, fmt.Errorf("load parsecgen config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("output_dir") {
		if dir := strings.TrimSpace(raw.OutputDir); dir != "" {
			cfg.OutputDir = dir
		}
	}

	if meta.IsDefined("only") {
		cfg.Only = config.NormalizeNames(raw.Only)
	}

	if meta.IsDefined("verify") {
		cfg.Verify = raw.Verify
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// applyFlags lets explicit flags win over the config file.
func applyFlags(cfg config.GeneratorConfig, opts options) config.GeneratorConfig {
	if dir := strings.TrimSpace(opts.output); dir != "" {
		cfg.OutputDir = dir
	}
	if only := strings.TrimSpace(opts.only); only != "" {
		cfg.Only = config.NormalizeNames(strings.Split(only, ","))
	}
	if opts.verify {
		cfg.Verify = true
	}
	return cfg
}
