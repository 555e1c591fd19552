// Package actions provides the built-in actions applied to matched
// resources. Each action registers itself under its config name.
//
// Actions that relocate a resource (rename, move, copy) return the new
// `fs` and `fs_path`, so that the next action in the chain works with the
// resource at its new place.
package actions
