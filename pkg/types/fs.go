package types

import (
	"io/fs"
)

// FS is the filesystem interface required for tidyup operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Mutations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error

	// RealPath returns the host path backing name, when there is one.
	// In-memory backends return name unchanged.
	RealPath(name string) (string, error)

	// String describes the backend for messages
	String() string
}
