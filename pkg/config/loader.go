package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
)

//go:embed embedded/defaults.yaml
var defaultConfig []byte

// EnvPrefix prefixes the environment variables overriding settings
const EnvPrefix = "TIDYUP_"

// Format is a configuration file syntax
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf picks the format from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", errors.Newf(errors.ErrConfigLoad, "unsupported config file %s: use .yaml, .yml or .toml", path)
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case YAML:
		return yaml.Parser(), nil
	case TOML:
		return toml.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config format %q", format)
}

// Load reads the configuration file at path on top of the defaults
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "config file %s does not exist", path).
				WithDetail("hint", "create it or pass --config")
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", path)
	}

	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	cfg, err := load(file.Provider(path), parser)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", path)
	}
	cfg.Path = path
	logger.Debug().Str("path", path).Int("rules", len(cfg.Rules)).Msg("configuration loaded")
	return cfg, nil
}

// LoadBytes parses a configuration held in memory
func LoadBytes(data []byte, format Format) (*Config, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	cfg, err := load(rawbytes.Provider(data), parser)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to parse configuration")
	}
	return cfg, nil
}

func load(provider koanf.Provider, parser koanf.Parser) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}

	// 2. User configuration
	if err := k.Load(provider, parser); err != nil {
		return nil, err
	}

	// 3. Environment overrides for settings
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return "settings." + strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	raw := normalize(k.Raw()).(map[string]any)
	cfg := &Config{raw: raw}
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "invalid configuration")
	}
	for i := range cfg.Rules {
		r := &cfg.Rules[i]
		r.Locations = normalize(r.Locations)
		r.Filters = normalize(r.Filters).([]any)
		r.Actions = normalize(r.Actions).([]any)
	}
	return cfg, nil
}

// normalize converts the container types produced by the different parsers
// into map[string]any and []any, recursively
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[toKey(k)] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

func toKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
