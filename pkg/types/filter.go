package types

import "github.com/arthur-debert/tidyup/pkg/resource"

// Filter decides whether a resource is relevant and may contribute
// attributes to its context.
type Filter interface {
	// Name is the registry name, used as the source of reported errors
	Name() string

	// Matches returns the raw match result, before any inversion
	Matches(ctx *resource.Context) (bool, error)

	// Parse returns the attributes to merge into the context. It is only
	// called when Matches returned true.
	Parse(ctx *resource.Context) (map[string]any, error)
}

// FilterFactory creates a Filter from the arguments given in the config
type FilterFactory func(args Args) (Filter, error)
