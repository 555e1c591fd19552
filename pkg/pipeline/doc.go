// Package pipeline runs the filter and action chains of a rule against one
// resource context.
//
// Both pipelines mutate the context they are given: filter attributes and
// action results are deep merged into it so that later steps see them.
// Neither pipeline returns errors. Failures are reported to the reporter
// with the failing step's name as source and turn into a false result.
package pipeline
