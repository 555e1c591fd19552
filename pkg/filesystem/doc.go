// Package filesystem provides filesystem backends for tidyup.
//
// This package contains implementations of the types.FS interface (the
// host filesystem and afero backed ones), the opener that turns a location's
// filesystem reference into a backend, and the move/copy helpers actions use
// to relocate resources, possibly across backends.
package filesystem
