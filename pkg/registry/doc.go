// Package registry provides a generic, type-safe registry and the closed
// registries of filter and action factories. Filters and actions register
// themselves from init() functions; looking up an unknown name fails with
// a CONFIG error.
package registry
