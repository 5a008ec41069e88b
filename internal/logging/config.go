package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	EnvLogLevel     = "PARSECGEN_LOG_LEVEL"
	EnvLogTimestamp = "PARSECGEN_LOG_TIMESTAMP"
	EnvLogNoColor   = "PARSECGEN_LOG_NOCOLOR"
	EnvLogBypass    = "PARSECGEN_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		apply(cfg)
	})
}

func defaultConfig(profile Profile) Config {
	cfg := DefaultConfig()
	switch profile {
	case ProfileTest:
		cfg.Level = DebugLevel
		cfg.Timestamp = false
		cfg.NoColor = true
	default:
		cfg.Level = InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		cfg.Bypass = v
	}
}

func parseLevel(raw string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return InfoLevel, false
	case "trace", "diagnostics":
		return TraceLevel, true
	case "debug":
		return DebugLevel, true
	case "info":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return Disabled, true
	default:
		return InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// SetLevel applies a named level from a config file. The environment
// override still wins when it is set.
func SetLevel(raw string) error {
	if _, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		return nil
	}
	lvl, ok := parseLevel(raw)
	if !ok {
		return fmt.Errorf("logging: unknown level %q", raw)
	}
	mu.Lock()
	current = current.Level(lvl)
	mu.Unlock()
	return nil
}
