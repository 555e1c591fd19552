package filters

import (
	"path/filepath"
	"regexp"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// RegexFilterName is the name used to reference this filter
const RegexFilterName = "regex"

// RegexFilter matches the file name against a regular expression. Named
// groups are added under `regex`, e.g. `{regex.year}`.
type RegexFilter struct {
	expr *regexp.Regexp
}

type regexArgs struct {
	Expr string `mapstructure:"expr"`
}

// NewRegexFilter creates a RegexFilter
func NewRegexFilter(args types.Args) (*RegexFilter, error) {
	var a regexArgs
	if err := args.Bind([]string{"expr"}, &a); err != nil {
		return nil, err
	}
	if a.Expr == "" {
		return nil, errors.New(errors.ErrConfig, "regex requires an expression")
	}
	expr, err := regexp.Compile(a.Expr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "invalid regular expression %q", a.Expr)
	}
	return &RegexFilter{expr: expr}, nil
}

func (f *RegexFilter) Name() string {
	return RegexFilterName
}

func (f *RegexFilter) Matches(ctx *resource.Context) (bool, error) {
	_, path, err := types.ResourceOf(ctx)
	if err != nil {
		return false, err
	}
	return f.expr.MatchString(filepath.Base(path)), nil
}

func (f *RegexFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	_, path, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	groups := make(map[string]any)
	m := f.expr.FindStringSubmatch(filepath.Base(path))
	for i, name := range f.expr.SubexpNames() {
		if i == 0 || name == "" || i >= len(m) {
			continue
		}
		groups[name] = m[i]
	}
	return map[string]any{"regex": groups}, nil
}

func init() {
	registry.MustRegisterFilter(RegexFilterName, func(args types.Args) (types.Filter, error) {
		return NewRegexFilter(args)
	})
}
