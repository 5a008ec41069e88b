package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":    DebugLevel,
		" WARN ":   WarnLevel,
		"off":      Disabled,
		"trace":    TraceLevel,
		"error":    ErrorLevel,
		"warning":  WarnLevel,
		"disabled": Disabled,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		if !ok || got != want {
			t.Fatalf("parseLevel(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}
	if _, ok := parseLevel("loud"); ok {
		t.Fatalf("unknown level should not parse")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "true")
	t.Setenv(EnvLogTimestamp, "not-a-bool")
	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != ErrorLevel || !cfg.NoColor || !cfg.Timestamp {
		t.Fatalf("unexpected config after overrides: %+v", cfg)
	}
}

func TestBypassAndLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	apply(Config{Level: WarnLevel, NoColor: true, Bypass: true, Out: &buf})
	defer apply(defaultConfig(ProfileTest))

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	if got := buf.String(); got != "shown 2\n" {
		t.Fatalf("unexpected bypass output %q", got)
	}

	buf.Reset()
	apply(Config{Level: DebugLevel, NoColor: true, Out: &buf})
	Debugf("fixture wrote %s", "ping.json")
	if got := buf.String(); !strings.Contains(got, "fixture wrote ping.json") || !strings.Contains(got, "DBG") {
		t.Fatalf("unexpected console output %q", got)
	}
}

func TestSetLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	apply(Config{Level: InfoLevel, NoColor: true, Bypass: true, Out: &buf})
	defer apply(defaultConfig(ProfileTest))

	if err := SetLevel("error"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Warnf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("warn should be filtered, got %q", buf.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("expected unknown level error")
	}
}
