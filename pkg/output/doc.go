// Package output implements the reporters that present a run to the user.
//
// Two reporters are provided:
//
//   - Terminal: human readable, styled with lipgloss. The path of a resource
//     is only printed once something is reported for it, so untouched
//     resources stay silent.
//   - JSON: one JSON object per event and line, for scripts and other tools.
//
// Both implement types.Reporter and are selected by the command line layer.
package output
