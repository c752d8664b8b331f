// Package logging builds the zerolog logger shared by the CLI, the TUI and
// the storage layer.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/faizmokh/eldlog/internal/config"
)

// New returns a logger for component writing to w. When cfg names a log
// file it is opened for appending and returned as the closer; callers close
// it on exit.
func New(cfg config.LogConfig, component string, w io.Writer) (zerolog.Logger, io.Closer, error) {
	cfg.SetDefaults()
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log level: %w", err)
	}

	var closer io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = os.Stderr
	}

	if cfg.Format == config.LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: cfg.File != ""}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return logger, closer, nil
}

// Attach stores logger in ctx so packages can use zerolog.Ctx.
func Attach(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// From returns the logger carried by ctx, or a disabled one.
func From(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
