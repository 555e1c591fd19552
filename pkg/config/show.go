package config

import (
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/tidyup/pkg/errors"
)

// Show renders the effective configuration in format
func (c *Config) Show(format Format) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case YAML:
		out, err = yaml.Marshal(c.raw)
	case TOML:
		out, err = toml.Marshal(dropNulls(c.raw))
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to render configuration as %s", format)
	}
	return out, nil
}

// dropNulls removes nil values, which TOML cannot represent
func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if item == nil {
				continue
			}
			out[k] = dropNulls(item)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item != nil {
				out = append(out, dropNulls(item))
			}
		}
		return out
	}
	return v
}
