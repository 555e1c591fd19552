// Package testutil provides utilities for testing tidyup components.
//
// Key components:
//   - MemFS: in-memory filesystem with helpers to lay out trees and age files
//   - CountingFS: wraps any filesystem and counts mutating calls
//   - Recorder: a types.Reporter that records every event
//   - MockFilter / MockAction: function-field mocks of the capabilities
//
// All test data should be defined inline, and each test should build its
// own filesystem.
package testutil
