package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	TraceLevel = zerolog.TraceLevel
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	Disabled   = zerolog.Disabled
)

// Config controls the process-wide logger.
type Config struct {
	Level     Level
	Timestamp bool
	NoColor   bool
	// Bypass writes bare messages without level or time decoration.
	Bypass bool
	// Out defaults to stdout.
	Out io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:     InfoLevel,
		Timestamp: true,
		NoColor:   !stdoutIsTerminal(),
	}
}

var (
	mu      sync.RWMutex
	current = build(DefaultConfig())
	bypass  bool
	bypassW io.Writer = os.Stdout
)

func apply(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = build(cfg)
	bypass = cfg.Bypass
	bypassW = output(cfg)
}

func output(cfg Config) io.Writer {
	if cfg.Out != nil {
		return cfg.Out
	}
	if cfg.NoColor {
		return os.Stdout
	}
	return colorable.NewColorable(os.Stdout)
}

func build(cfg Config) zerolog.Logger {
	w := zerolog.ConsoleWriter{
		Out:        output(cfg),
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(w).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func emit(level Level, format string, args ...any) {
	mu.RLock()
	l, raw, w := current, bypass, bypassW
	mu.RUnlock()
	if raw {
		if level >= l.GetLevel() {
			fmt.Fprintf(w, format+"\n", args...)
		}
		return
	}
	l.WithLevel(level).Msgf(format, args...)
}

func Debugf(format string, args ...any) { emit(DebugLevel, format, args...) }
func Infof(format string, args ...any)  { emit(InfoLevel, format, args...) }
func Warnf(format string, args ...any)  { emit(WarnLevel, format, args...) }
func Errf(format string, args ...any)   { emit(ErrorLevel, format, args...) }

// Logf writes at info level; it is the plain trace used by tests.
func Logf(format string, args ...any) { emit(InfoLevel, format, args...) }
