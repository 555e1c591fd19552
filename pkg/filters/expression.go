package filters

import (
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// ExpressionFilterName is the name used to reference this filter
const ExpressionFilterName = "expression"

// ExpressionFilter matches when a boolean expression over the resource
// context holds, e.g. `size.bytes > 1000 && relative_path.startsWith("inbox/")`.
// Attributes added by earlier filters are visible to it.
type ExpressionFilter struct {
	expr *template.Template
}

type expressionArgs struct {
	Expr string `mapstructure:"expr"`
}

// NewExpressionFilter creates an ExpressionFilter
func NewExpressionFilter(args types.Args) (*ExpressionFilter, error) {
	var a expressionArgs
	if err := args.Bind([]string{"expr"}, &a); err != nil {
		return nil, err
	}
	expr, err := template.NewExpr(a.Expr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "invalid expression")
	}
	return &ExpressionFilter{expr: expr}, nil
}

func (f *ExpressionFilter) Name() string {
	return ExpressionFilterName
}

func (f *ExpressionFilter) Matches(ctx *resource.Context) (bool, error) {
	v, err := f.expr.RenderNative(ctx.Bindings())
	if err != nil {
		return false, err
	}
	match, ok := v.(bool)
	if !ok {
		return false, errors.Newf(errors.ErrFilter, "expression %s returned %T, not a bool", f.expr, v)
	}
	return match, nil
}

func (f *ExpressionFilter) Parse(*resource.Context) (map[string]any, error) {
	return nil, nil
}

func init() {
	registry.MustRegisterFilter(ExpressionFilterName, func(args types.Args) (types.Filter, error) {
		return NewExpressionFilter(args)
	})
}
