// Package walker enumerates the files or directories below a location root.
//
// Walks are lazy: Files and Dirs return an iter.Seq2 that reads directories
// only as the consumer pulls entries, and every range over the sequence
// starts from scratch. Depth is counted from the root, whose direct
// children are at depth 1.
package walker
