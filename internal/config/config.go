package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file settings.
// Nested keys use a double underscore: ELDLOG_DRIVER__NUMBER.
const EnvPrefix = "ELDLOG_"

// Hours-of-service cycles printed in the recap.
const (
	Cycle70Hour8Day = "70/8"
	Cycle60Hour7Day = "60/7"
)

// Config holds everything printed on the sheet that is not part of the log
// itself, plus runtime settings.
type Config struct {
	Timezone  string        `json:"timezone"`
	Cycle     string        `json:"cycle"`
	CarryDays int           `json:"carry_days"`
	Driver    DriverConfig  `json:"driver"`
	Carrier   CarrierConfig `json:"carrier"`
	Vehicle   VehicleConfig `json:"vehicle"`
	Log       LogConfig     `json:"log"`
}

// DriverConfig identifies the driver on the title block.
type DriverConfig struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Initials string `json:"initials"`
}

// CarrierConfig fills the carrier block.
type CarrierConfig struct {
	Name         string `json:"name"`
	MainOffice   string `json:"main_office"`
	HomeTerminal string `json:"home_terminal"`
}

// VehicleConfig lists truck/tractor and trailer numbers.
type VehicleConfig struct {
	Truck   string `json:"truck"`
	Trailer string `json:"trailer"`
}

// Load reads the config file at path and applies environment overrides.
// When optional is true a missing file is treated as empty.
func Load(path string, optional bool) (*Config, error) {
	k := koanf.New(".")

	if path != "" && !(optional && missing(path)) {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

func missing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Cycle == "" {
		c.Cycle = Cycle70Hour8Day
	}
	if c.CarryDays <= 0 {
		c.CarryDays = 14
	}
	c.Log.SetDefaults()
}

// Validate checks the settings that would otherwise fail later.
func (c Config) Validate() error {
	if c.Cycle != Cycle70Hour8Day && c.Cycle != Cycle60Hour7Day {
		return fmt.Errorf("unknown cycle %q (want %s or %s)", c.Cycle, Cycle70Hour8Day, Cycle60Hour7Day)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return c.Log.Validate()
}

// Location returns the configured time zone, falling back to time.Local.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultPath returns the config file kept in the log home directory, or
// the ELDLOG_CONFIG override.
func DefaultPath(home string) string {
	if p := strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG")); p != "" {
		return p
	}
	return filepath.Join(home, "config.yaml")
}
