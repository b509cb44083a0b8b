package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console

	// Output defaults to stdout. The CLI points it at stderr so logs never mix
	// with command output.
	Output io.Writer

	// Component, when set, is attached to every event.
	Component string
}

// New creates a new zerolog logger based on config.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var output io.Writer = out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level := parseLevel(cfg.Level)

	ctx := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller()
	if cfg.Component != "" {
		ctx = ctx.Str("component", cfg.Component)
	}
	return ctx.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
