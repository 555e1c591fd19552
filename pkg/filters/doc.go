// Package filters provides the built-in filters.
//
// Each filter registers its factory with pkg/registry from an init
// function, under the name used in config files. Filters that match add
// their attributes to the resource context under a key named after the
// filter, so `extension` adds `{extension.lower}` and `{extension.upper}`.
package filters
