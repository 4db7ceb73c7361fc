// Package log builds the zerolog loggers used by the client. Unlike an
// application logger it never touches zerolog's global state: every
// Connection owns its own logger.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	LevelEnv = "HYPR_LOG_LEVEL"
	DebugEnv = "HYPR_DEBUG"

	defaultLevel = zerolog.WarnLevel
)

// Config captures options for building a logger.
type Config struct {
	Level     string    // optional log level ("debug", "info", etc.)
	Output    io.Writer // optional writer (defaults to os.Stderr)
	Component string    // optional component name attached to every entry
	Getenv    func(string) string
}

// New returns a logger configured from cfg, falling back to the environment.
func New(cfg Config) zerolog.Logger {
	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	builder := zerolog.New(writer).Level(resolveLevel(cfg)).With().Timestamp()
	if cfg.Component != "" {
		builder = builder.Str(FieldComponent, cfg.Component)
	}
	return builder.Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(parent zerolog.Logger, component string) zerolog.Logger {
	return parent.With().Str(FieldComponent, component).Logger()
}

// Sampled wraps parent so that at most burst entries are written per period.
func Sampled(parent zerolog.Logger, burst uint32, period time.Duration) zerolog.Logger {
	return parent.Sample(&zerolog.BurstSampler{Burst: burst, Period: period})
}

func resolveLevel(cfg Config) zerolog.Level {
	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if level, ok := parseLevel(cfg.Level); ok {
		return level
	}
	if level, ok := parseLevel(getenv(LevelEnv)); ok {
		return level
	}
	switch strings.ToLower(strings.TrimSpace(getenv(DebugEnv))) {
	case "1", "true", "yes":
		return zerolog.DebugLevel
	}
	return defaultLevel
}

func parseLevel(raw string) (zerolog.Level, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zerolog.NoLevel, false
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.NoLevel, false
	}
	return level, true
}
