package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config is a loaded configuration file
type Config struct {
	Settings Settings     `koanf:"settings"`
	Rules    []RuleConfig `koanf:"rules"`

	// Path is the file the configuration was read from, if any
	Path string `koanf:"-"`

	raw map[string]any
}

// Settings are run wide options
type Settings struct {
	Simulate       bool   `koanf:"simulate"`
	Verbosity      int    `koanf:"verbosity"`
	TrashDir       string `koanf:"trash_dir"`
	RenameTemplate string `koanf:"rename_template"`
}

// RuleConfig is a rule as written in the configuration. Locations, filters
// and actions keep their raw shape; rules.Build interprets them.
type RuleConfig struct {
	Name       string `koanf:"name"`
	Enabled    *bool  `koanf:"enabled"`
	Targets    string `koanf:"targets"`
	Locations  any    `koanf:"locations"`
	Subfolders bool   `koanf:"subfolders"`
	FilterMode string `koanf:"filter_mode"`
	Filters    []any  `koanf:"filters"`
	Actions    []any  `koanf:"actions"`
}

// IsEnabled reports whether the rule should run. Rules are enabled unless
// `enabled: false` is given.
func (r RuleConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// All returns the effective configuration as a nested map
func (c *Config) All() map[string]any {
	return c.raw
}

// DefaultPath returns the config file used when none is given
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "tidyup", "config.yaml")
}
