// Package resource holds the per-resource context: an ordered mapping from
// key to value that filters enrich and actions read and update.
//
// Values are scalars, nested mappings (map[string]any) or Deferred
// producers. Merging is a recursive union where the right-hand side wins on
// scalar conflicts and recursion only happens when both sides are mappings.
package resource
