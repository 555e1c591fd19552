package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/tidyup/pkg/types"
)

// CountingFS wraps a filesystem and counts the calls that mutate it
type CountingFS struct {
	types.FS

	mu    sync.Mutex
	calls map[string]int
}

// NewCountingFS wraps inner
func NewCountingFS(inner types.FS) *CountingFS {
	return &CountingFS{FS: inner, calls: make(map[string]int)}
}

func (c *CountingFS) count(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
}

func (c *CountingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	c.count("WriteFile")
	return c.FS.WriteFile(name, data, perm)
}

func (c *CountingFS) MkdirAll(path string, perm fs.FileMode) error {
	c.count("MkdirAll")
	return c.FS.MkdirAll(path, perm)
}

func (c *CountingFS) Rename(oldpath, newpath string) error {
	c.count("Rename")
	return c.FS.Rename(oldpath, newpath)
}

func (c *CountingFS) Remove(name string) error {
	c.count("Remove")
	return c.FS.Remove(name)
}

func (c *CountingFS) RemoveAll(path string) error {
	c.count("RemoveAll")
	return c.FS.RemoveAll(path)
}

// Mutations returns the total number of mutating calls
func (c *CountingFS) Mutations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// Calls returns the number of calls per operation
func (c *CountingFS) Calls() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.calls))
	for k, v := range c.calls {
		out[k] = v
	}
	return out
}
