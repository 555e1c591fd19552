package types

import (
	"fmt"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
)

// Args are the arguments of a filter or action as written in the config:
// `name`, `{name: value}`, `{name: [v1, v2]}` or `{name: {key: value}}`.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// ArgsFrom converts the raw config value of a filter or action into Args
func ArgsFrom(raw any) Args {
	switch v := raw.(type) {
	case nil:
		return Args{}
	case []any:
		return Args{Positional: v}
	case map[string]any:
		return Args{Keyword: v}
	default:
		return Args{Positional: []any{v}}
	}
}

// Empty reports whether no argument was given
func (a Args) Empty() bool {
	return len(a.Positional) == 0 && len(a.Keyword) == 0
}

// Bind decodes the arguments into out. Positional arguments are assigned to
// params in order; keyword arguments are matched by their mapstructure tag.
// Unknown keys and surplus positional arguments are config errors.
func (a Args) Bind(params []string, out any) error {
	if len(a.Positional) > len(params) {
		return errors.Newf(errors.ErrConfig, "expected at most %d positional arguments, got %d",
			len(params), len(a.Positional))
	}

	input := make(map[string]any, len(a.Positional)+len(a.Keyword))
	for i, v := range a.Positional {
		input[params[i]] = v
	}
	for k, v := range a.Keyword {
		if _, dup := input[k]; dup {
			return errors.Newf(errors.ErrConfig, "argument %q given twice", k)
		}
		input[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create argument decoder")
	}
	if err := decoder.Decode(input); err != nil {
		return errors.Wrap(err, errors.ErrConfig, "invalid arguments")
	}
	return nil
}

// String renders the arguments for log messages
func (a Args) String() string {
	return fmt.Sprintf("positional=%v keyword=%v", a.Positional, a.Keyword)
}
