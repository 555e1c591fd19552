package filters

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// NameFilterName is the name used to reference this filter
const NameFilterName = "name"

type nameArgs struct {
	Match         any   `mapstructure:"match"`
	StartsWith    any   `mapstructure:"startswith"`
	EndsWith      any   `mapstructure:"endswith"`
	Contains      any   `mapstructure:"contains"`
	CaseSensitive *bool `mapstructure:"case_sensitive"`
}

// NameFilter matches the name of a resource, without its extension.
// Every given condition must hold; a list holds when any item does.
type NameFilter struct {
	match, startsWith, endsWith, contains []string
	caseSensitive                         bool
}

// NewNameFilter creates a NameFilter. A single positional argument is the
// glob to match.
func NewNameFilter(args types.Args) (*NameFilter, error) {
	var a nameArgs
	if err := args.Bind([]string{"match"}, &a); err != nil {
		return nil, err
	}
	f := &NameFilter{caseSensitive: a.CaseSensitive == nil || *a.CaseSensitive}
	f.match = f.fold(types.StringList(a.Match))
	f.startsWith = f.fold(types.StringList(a.StartsWith))
	f.endsWith = f.fold(types.StringList(a.EndsWith))
	f.contains = f.fold(types.StringList(a.Contains))

	for _, p := range f.match {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrConfig, "invalid name pattern %q", p)
		}
	}
	return f, nil
}

func (f *NameFilter) fold(values []string) []string {
	if f.caseSensitive {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func (f *NameFilter) Name() string {
	return NameFilterName
}

func (f *NameFilter) Matches(ctx *resource.Context) (bool, error) {
	stem, _, err := nameParts(ctx)
	if err != nil {
		return false, err
	}
	if !f.caseSensitive {
		stem = strings.ToLower(stem)
	}

	checks := []struct {
		values []string
		test   func(pattern string) bool
	}{
		{f.match, func(p string) bool { return doublestar.MatchUnvalidated(p, stem) }},
		{f.startsWith, func(p string) bool { return strings.HasPrefix(stem, p) }},
		{f.endsWith, func(p string) bool { return strings.HasSuffix(stem, p) }},
		{f.contains, func(p string) bool { return strings.Contains(stem, p) }},
	}
	for _, c := range checks {
		if len(c.values) > 0 && !anyOf(c.values, c.test) {
			return false, nil
		}
	}
	return true, nil
}

func (f *NameFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	stem, _, err := nameParts(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"name": stem}, nil
}

func anyOf(values []string, test func(string) bool) bool {
	for _, v := range values {
		if test(v) {
			return true
		}
	}
	return false
}

func init() {
	registry.MustRegisterFilter(NameFilterName, func(args types.Args) (types.Filter, error) {
		return NewNameFilter(args)
	})
}
