// Package types holds the capabilities shared between the engine and its
// collaborators: the filesystem backend, filters, actions, the reporter
// and the trash.
//
// The engine packages (walker, pipeline, conflict, runner) only depend on
// these interfaces. Concrete filters and actions live in pkg/filters and
// pkg/actions and are looked up by name through pkg/registry.
package types
