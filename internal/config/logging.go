package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// LogConfig defines diagnostics output.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level"`
	// Format selects "console" or "json".
	Format string `json:"format"`
	// File, when set, receives log lines instead of stderr.
	File string `json:"file"`
}

// SetDefaults applies sane defaults.
func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = zerolog.WarnLevel.String()
	}
	if c.Format == "" {
		c.Format = LogFormatConsole
	}
}

// Validate checks mandatory fields.
func (c LogConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Format != LogFormatConsole && c.Format != LogFormatJSON {
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	return nil
}
