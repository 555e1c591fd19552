package pipeline

import (
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// Mode combines the outcomes of a filter chain
type Mode string

const (
	// All matches when every filter matches. Stops at the first miss.
	All Mode = "all"
	// Any matches when at least one filter matches. Every filter runs.
	Any Mode = "any"
	// None matches when no filter matches. Stops at the first match.
	None Mode = "none"
)

// ParseMode validates s as a filter mode. Empty selects All.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", All:
		return All, nil
	case Any:
		return Any, nil
	case None:
		return None, nil
	}
	return "", errors.Newf(errors.ErrConfig, "filter_mode must be one of all, any, none, got %q", s)
}

// Inverted negates the match of the filter it wraps
type Inverted struct {
	Filter types.Filter
}

// Not inverts f. Inverting an inverted filter returns the original.
func Not(f types.Filter) types.Filter {
	if inv, ok := f.(*Inverted); ok {
		return inv.Filter
	}
	return &Inverted{Filter: f}
}

func (n *Inverted) Name() string {
	return "not " + n.Filter.Name()
}

func (n *Inverted) Matches(ctx *resource.Context) (bool, error) {
	match, err := n.Filter.Matches(ctx)
	return !match, err
}

func (n *Inverted) Parse(ctx *resource.Context) (map[string]any, error) {
	return n.Filter.Parse(ctx)
}

// Evaluate runs one filter. Attributes are only parsed when the wrapped
// filter itself matched; match is the outcome after inversion.
func Evaluate(f types.Filter, ctx *resource.Context) (match bool, updates map[string]any, err error) {
	inner, inverted := f, false
	for {
		inv, ok := inner.(*Inverted)
		if !ok {
			break
		}
		inner, inverted = inv.Filter, !inverted
	}

	raw, err := inner.Matches(ctx)
	if err != nil {
		return false, nil, err
	}
	if raw {
		updates, err = inner.Parse(ctx)
		if err != nil {
			return false, nil, err
		}
	}
	return raw != inverted, updates, nil
}

// FilterPipeline evaluates filters in order under mode and reports whether
// the resource matches. An empty chain matches. A failing filter is
// reported and makes the resource a non-match.
func FilterPipeline(filters []types.Filter, mode Mode, ctx *resource.Context, reporter types.Reporter) bool {
	logger := logging.GetLogger("pipeline.filter")
	anyMatched := false

	for _, f := range filters {
		match, updates, err := Evaluate(f, ctx)
		if err != nil {
			cause := err
			err = errors.Wrapf(err, errors.ErrFilter, "filter %s failed", f.Name())
			logger.Debug().Err(err).Str("filter", f.Name()).Msg("filter error")
			if reporter != nil {
				reporter.Error(f.Name(), errors.Message(cause))
			}
			return false
		}
		ctx.Merge(updates)
		logger.Trace().Str("filter", f.Name()).Bool("match", match).Msg("filter evaluated")

		switch mode {
		case None:
			if match {
				return false
			}
		case Any:
			anyMatched = anyMatched || match
		default:
			if !match {
				return false
			}
		}
	}

	if mode == Any && len(filters) > 0 {
		return anyMatched
	}
	return true
}
